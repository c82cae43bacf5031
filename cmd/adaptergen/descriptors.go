package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/adaptergen/internal/cli"
	"github.com/pthm/adaptergen/pkg/descriptor"
	"github.com/pthm/adaptergen/pkg/factorygen"
)

var descriptorsFormat string

var descriptorsCmd = &cobra.Command{
	Use:   "descriptors [packages]",
	Short: "Print the adapter descriptors",
	Long: `Print the adapter descriptors a generate run would use, as a manifest.

The output can be saved and passed to another build with --descriptors.`,
	Example: `  # Print descriptors as YAML
  adaptergen descriptors ./...

  # Save them as a JSON manifest
  adaptergen descriptors ./... --format json > adapters.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := descriptor.Format(descriptorsFormat)
		if format != descriptor.FormatYAML && format != descriptor.FormatJSON {
			return cli.ConfigError(fmt.Sprintf("unknown format %q", descriptorsFormat), fmt.Errorf("supported formats: yaml, json"))
		}

		opts, err := runOptions(args)
		if err != nil {
			return err
		}
		res, err := factorygen.Descriptors(cmd.Context(), opts)
		if err != nil {
			return classify(err)
		}
		if err := descriptor.WriteManifest(os.Stdout, res.Descriptors, format); err != nil {
			return cli.GeneralError("writing manifest", err)
		}
		return reportDiagnostics(res)
	},
}

func init() {
	f := descriptorsCmd.Flags()
	f.StringVar(&descriptorsFormat, "format", "yaml", "manifest format: yaml, json")
	f.StringSliceVar(&genDescriptors, "descriptors", nil, "adapter manifest files to merge, repeatable")
	f.StringSliceVar(&genTags, "tags", nil, "build tags used when loading packages")
}
