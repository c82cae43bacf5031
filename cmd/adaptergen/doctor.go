package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/adaptergen/internal/cli"
	"github.com/pthm/adaptergen/internal/doctor"
	"github.com/pthm/adaptergen/internal/scan"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [packages]",
	Short: "Run health checks",
	Long: `Run health checks on the factory generation setup.

Checks that the packages load, that exactly one declaration is marked
//adaptergen:factory, that every adapter directive is well formed and
dispatchable, and that the committed factory matches what generate would
write.`,
	Example: `  # Check the packages from adaptergen.yaml
  adaptergen doctor

  # Check a package tree with detailed output
  adaptergen doctor ./... -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(args)
		if err != nil {
			return err
		}

		if !quiet {
			fmt.Println("adaptergen doctor - Health Check")
		}

		d := doctor.New(doctor.Options{
			Load: scan.Options{
				Dir:             opts.Dir,
				Patterns:        opts.Patterns,
				Tags:            opts.Tags,
				GeneratedSuffix: opts.Config.FileSuffix,
				Logger:          logger,
			},
			Manifests:  opts.Manifests,
			Config:     opts.Config,
			ConfigPath: configPath,
		})
		report, err := d.Run(cmd.Context())
		if err != nil {
			return cli.GeneralError("running doctor", err)
		}

		report.Print(os.Stdout, verbose > 0)

		if report.HasErrors() {
			return cli.GeneralError("health checks failed", nil)
		}
		return nil
	},
}

func init() {
	f := doctorCmd.Flags()
	f.StringSliceVar(&genDescriptors, "descriptors", nil, "adapter manifest files to merge, repeatable")
	f.StringSliceVar(&genTags, "tags", nil, "build tags used when loading packages")
	f.StringVar(&genOutput, "output", "", "directory the factory is expected in (default: next to the factory type)")
}
