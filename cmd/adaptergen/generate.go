package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/adaptergen/internal/cli"
	"github.com/pthm/adaptergen/pkg/factorygen"
)

var (
	genDescriptors []string
	genOutput      string
	genMarker      string
	genSuffix      string
	genFormat      string
	genTags        []string
	genDryRun      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [packages]",
	Short: "Generate the adapter factory",
	Long: `Generate the adapter factory for the type marked //adaptergen:factory.

Adapters are collected from //adaptergen:adapter directives in the loaded
packages and from descriptor manifests. Supported formats: ` + strings.Join(factorygen.Formats(), ", "),
	Example: `  # Generate for the package in the current directory
  adaptergen generate

  # Generate for a package tree, adding adapters from a manifest
  adaptergen generate ./internal/models/... --descriptors build/adapters.yaml

  # Print the factory instead of writing it
  adaptergen generate --dry-run

  # Dump the factory description as JSON
  adaptergen generate --format json --output /tmp/factory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(args)
		if err != nil {
			return err
		}

		var disk *factorygen.DiskFiler
		if resolveBool(genDryRun, cfg.Generate.DryRun) {
			opts.Filer = factorygen.WriterFiler{W: os.Stdout}
		} else {
			disk = factorygen.NewDiskFiler(logger)
			opts.Filer = disk
		}

		res, err := factorygen.Generate(cmd.Context(), opts)
		if err != nil {
			return classify(err)
		}
		if disk != nil {
			for _, path := range disk.Outputs() {
				printf("Generated %s\n", path)
			}
		}
		return reportDiagnostics(res)
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringSliceVar(&genDescriptors, "descriptors", nil, "adapter manifest files (YAML or JSON), repeatable")
	f.StringVar(&genOutput, "output", "", "output directory (default: the factory's package directory)")
	f.StringVar(&genMarker, "marker", "", "prefix of generated identifiers (default: AdapterGen)")
	f.StringVar(&genSuffix, "suffix", "", "generated file name suffix (default: _adaptergen.go)")
	f.StringVar(&genFormat, "format", "", "output format: "+strings.Join(factorygen.Formats(), ", "))
	f.StringSliceVar(&genTags, "tags", nil, "build tags used when loading packages")
	f.BoolVar(&genDryRun, "dry-run", false, "print generated output instead of writing it")
}

// runOptions resolves generation options: flags > config > defaults.
// Patterns given as arguments are resolved against the working directory,
// patterns from the config file against the file's directory.
func runOptions(args []string) (factorygen.Options, error) {
	def := factorygen.DefaultConfig()
	genCfg := factorygen.Config{
		Marker:     resolveString(genMarker, cfg.Generate.Marker, def.Marker),
		FileSuffix: resolveString(genSuffix, cfg.Generate.FileSuffix, def.FileSuffix),
		Format:     resolveString(genFormat, cfg.Generate.Format, def.Format),
		OutputDir:  resolveString(genOutput, cfg.Generate.Output),
	}
	if !slices.Contains(factorygen.Formats(), genCfg.Format) {
		return factorygen.Options{}, cli.ConfigError(
			fmt.Sprintf("unknown format %q", genCfg.Format),
			fmt.Errorf("supported formats: %s", strings.Join(factorygen.Formats(), ", ")),
		)
	}
	if err := genCfg.Validate(); err != nil {
		return factorygen.Options{}, cli.ConfigError("invalid generation options", err)
	}

	opts := factorygen.Options{
		Patterns:  args,
		Tags:      resolveStrings(genTags, cfg.Tags),
		Manifests: resolveStrings(genDescriptors, cfg.Descriptors),
		Config:    genCfg,
		Logger:    logger,
	}
	if len(args) == 0 {
		opts.Patterns = cfg.Packages
		opts.Dir = cli.PackageRoot(configPath)
	}
	return opts, nil
}
