package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
)

// configNames are the file names searched for during auto-discovery, in
// order of preference.
var configNames = []string{"adaptergen.yaml", "adaptergen.yml"}

// Config represents the adaptergen configuration from adaptergen.yaml.
type Config struct {
	// Packages are the go list patterns to load.
	Packages []string `mapstructure:"packages" json:"packages"`

	// Descriptors are adapter manifest files produced by earlier passes.
	Descriptors []string `mapstructure:"descriptors" json:"descriptors"`

	// Tags are build tags used when loading packages.
	Tags []string `mapstructure:"tags" json:"tags"`

	// Per-command configuration
	Generate GenerateConfig `mapstructure:"generate" json:"generate"`
	Watch    WatchConfig    `mapstructure:"watch" json:"watch"`
}

// GenerateConfig holds factory generation settings.
type GenerateConfig struct {
	Output     string `mapstructure:"output" json:"output"`
	Marker     string `mapstructure:"marker" json:"marker"`
	FileSuffix string `mapstructure:"file_suffix" json:"file_suffix"`
	Format     string `mapstructure:"format" json:"format"`
	DryRun     bool   `mapstructure:"dry_run" json:"dry_run"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`
}

// Setting sources reported by ExplainConfig.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
)

// Setting is one effective configuration value and where it came from.
type Setting struct {
	Key    string
	Value  any
	Source string
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v, configPath, err := newViper(explicitConfigPath)
	if err != nil {
		return nil, configPath, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	if configPath != "" {
		cfg.resolvePaths(filepath.Dir(configPath))
	}
	return &cfg, configPath, nil
}

// ExplainConfig returns every configuration key, sorted, with its effective
// value and the layer that supplied it. Flags are not considered.
func ExplainConfig(explicitConfigPath string) ([]Setting, string, error) {
	v, configPath, err := newViper(explicitConfigPath)
	if err != nil {
		return nil, configPath, err
	}

	keys := v.AllKeys()
	sort.Strings(keys)
	settings := make([]Setting, 0, len(keys))
	for _, key := range keys {
		source := SourceDefault
		if _, ok := os.LookupEnv(EnvName(key)); ok {
			source = SourceEnv
		} else if v.InConfig(key) {
			source = SourceFile
		}
		settings = append(settings, Setting{Key: key, Value: v.Get(key), Source: source})
	}
	return settings, configPath, nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(envKeys.Replace(key))
}

const envPrefix = "ADAPTERGEN"

var envKeys = strings.NewReplacer(".", "_")

// newViper layers defaults, the environment and the discovered config file.
func newViper(explicitConfigPath string) (*viper.Viper, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeys)
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, configPath, nil
}

func setDefaults(v *viper.Viper) {
	// Top-level defaults
	v.SetDefault("packages", []string{"."})
	v.SetDefault("descriptors", []string{})
	v.SetDefault("tags", []string{})

	// Generate defaults
	v.SetDefault("generate.output", "")
	v.SetDefault("generate.marker", "AdapterGen")
	v.SetDefault("generate.file_suffix", "_adaptergen.go")
	v.SetDefault("generate.format", "go")
	v.SetDefault("generate.dry_run", false)

	// Watch defaults
	v.SetDefault("watch.debounce", "300ms")
}

// resolvePaths makes manifest and output paths from the config file
// relative to the file's directory.
func (c *Config) resolvePaths(base string) {
	for i, p := range c.Descriptors {
		if p != "" && !filepath.IsAbs(p) {
			c.Descriptors[i] = filepath.Join(base, p)
		}
	}
	if c.Generate.Output != "" && !filepath.IsAbs(c.Generate.Output) {
		c.Generate.Output = filepath.Join(base, c.Generate.Output)
	}
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for adaptergen.yaml or
// adaptergen.yml, stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	// Auto-discovery: walk up to .git or maxWalkDepth
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Check for repo boundary (.git file or directory)
		gitPath := filepath.Join(dir, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			break // Stop at repo root
		}

		// Move up
		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		dir = parent
	}

	return "", nil // No config found, use defaults
}

// PackageRoot returns the directory package patterns are resolved against:
// the config file's directory when one was found, else the working
// directory.
func PackageRoot(configPath string) string {
	if configPath == "" {
		return ""
	}
	return filepath.Dir(configPath)
}
