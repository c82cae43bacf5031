package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pthm/adaptergen/internal/cli"
	"github.com/pthm/adaptergen/internal/diag"
	"github.com/pthm/adaptergen/pkg/factorygen"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     = zap.NewNop()

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "adaptergen",
	Short: "Adapter factory generator",
	Long: `adaptergen - Adapter factory generator

adaptergen emits a single factory that dispatches adapter requests to the
adapters declared in a build, selected by the raw type requested.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		logger, err = cli.NewLogger(verbose, quiet)
		if err != nil {
			return cli.GeneralError("initializing logger", err)
		}

		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}
		if configPath != "" {
			logger.Debug("loaded configuration", zap.String("path", configPath))
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupGenerate = "generate"
	groupUtility  = "utility"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover adaptergen.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Define command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: groupGenerate, Title: "Generation:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	// Generation commands
	generateCmd.GroupID = groupGenerate
	watchCmd.GroupID = groupGenerate
	descriptorsCmd.GroupID = groupGenerate
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(descriptorsCmd)

	// Utility commands
	doctorCmd.GroupID = groupUtility
	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveStrings returns the first non-empty slice from the provided values.
func resolveStrings(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

// resolveBool returns true if any of the provided values is true.
// Used for boolean flags where any true value should win.
func resolveBool(values ...bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}

// reportDiagnostics prints diagnostics to stderr and converts errors among
// them into the diagnostics exit code.
func reportDiagnostics(res *factorygen.Result) error {
	if len(res.Diagnostics) > 0 {
		if err := diag.Print(os.Stderr, res.Diagnostics); err != nil {
			return cli.GeneralError("printing diagnostics", err)
		}
	}
	if n := res.ErrorCount(); n > 0 {
		return cli.DiagnosticsError(n)
	}
	return nil
}

// classify maps a run error to an exit error.
func classify(err error) error {
	if factorygen.IsLoadErr(err) {
		return cli.LoadError("loading packages", err)
	}
	return cli.GeneralError("generation failed", err)
}

func printf(format string, args ...any) {
	if !quiet {
		fmt.Printf(format, args...)
	}
}
