package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/pthm/adaptergen/internal/cli"
)

var configShowSource bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long: `Show the configuration generate and watch start from, after merging
defaults, adaptergen.yaml and ADAPTERGEN_* environment variables. Paths from
the config file are shown resolved against its directory.

With --source, every key is listed with the layer that set it and, for
environment overrides, the variable name.`,
	Example: `  # Show effective configuration as YAML
  adaptergen config show

  # Show where each setting came from
  adaptergen config show --source`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configShowSource {
			settings, path, err := cli.ExplainConfig(cfgFile)
			if err != nil {
				return cli.ConfigError("loading configuration", err)
			}
			return printSources(os.Stdout, settings, path)
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return cli.GeneralError("encoding configuration", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowSource, "source", false, "show where each setting came from")
	configCmd.AddCommand(configShowCmd)
}

// printSources writes one row per setting: key, value, source.
func printSources(w io.Writer, settings []cli.Setting, configPath string) error {
	if configPath == "" {
		configPath = "(none)"
	}
	if _, err := fmt.Fprintf(w, "Config file: %s\n\n", configPath); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, s := range settings {
		source := s.Source
		switch source {
		case cli.SourceEnv:
			source += " (" + cli.EnvName(s.Key) + ")"
		case cli.SourceFile:
			source += " (" + configPath + ")"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%v\t%s\n", s.Key, s.Value, source)
	}
	return tw.Flush()
}
