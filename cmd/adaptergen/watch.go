package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/pthm/adaptergen/internal/cli"
	"github.com/pthm/adaptergen/internal/watch"
	"github.com/pthm/adaptergen/pkg/factorygen"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [packages]",
	Short: "Regenerate the factory when sources change",
	Long: `Generate the adapter factory, then regenerate it whenever a Go source file
in the loaded packages changes. Files the watcher generated are ignored, and
a generated factory whose declaring file is deleted is removed.

Accepts the same flags as generate, except --dry-run.`,
	Example: `  # Watch the package in the current directory
  adaptergen watch

  # Watch a package tree with a longer quiet period
  adaptergen watch ./internal/models/... --debounce 1s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(args)
		if err != nil {
			return err
		}
		disk := factorygen.NewDiskFiler(logger)
		opts.Filer = disk

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := watch.New(watch.Options{
			Debounce: resolveDuration(watchDebounce, cfg.Watch.Debounce),
			Ignore:   disk.IsOutput,
			Logger:   logger,
		})
		if err != nil {
			return cli.GeneralError("starting watcher", err)
		}
		defer func() { _ = w.Close() }()

		round := 0
		regenerate := func(ctx context.Context, changed []string) error {
			round++
			opts.Round = round
			if len(changed) > 0 {
				logger.Info("sources changed", zap.Int("round", round), zap.Strings("files", changed))
			}
			// Drop factories whose declaring file is gone before loading, since
			// they no longer compile.
			pruneOrphans(disk, changed, logger)

			res, err := factorygen.Generate(ctx, opts)
			if err != nil {
				return err
			}
			if err := reportDiagnostics(res); err != nil {
				logger.Warn("generation reported errors", zap.Int("round", round), zap.Int("errors", res.ErrorCount()))
			}
			return w.SetDirs(res.Dirs)
		}

		// The first round must load; later failures are logged and the
		// watcher keeps running so the sources can be fixed.
		if err := regenerate(ctx, nil); err != nil {
			return classify(err)
		}
		logger.Info("watching for changes", zap.Strings("dirs", w.Dirs()))

		return w.Run(ctx, regenerate)
	},
}

func init() {
	f := watchCmd.Flags()
	generateCmd.Flags().VisitAll(func(fl *pflag.Flag) {
		if fl.Name != "dry-run" {
			f.AddFlag(fl)
		}
	})
	f.DurationVar(&watchDebounce, "debounce", 0, "quiet period before regenerating (default: 300ms)")
}

// pruneOrphans removes the outputs generated from changed files that no
// longer exist.
func pruneOrphans(disk *factorygen.DiskFiler, changed []string, logger *zap.Logger) {
	affected := disk.Affected(changed)
	if len(affected) == 0 {
		return
	}
	for _, path := range disk.Orphans() {
		if !slices.Contains(affected, path) {
			continue
		}
		if err := disk.Remove(path); err != nil {
			logger.Warn("removing orphaned factory", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("removed orphaned factory", zap.String("path", path))
	}
}

// resolveDuration returns the first non-zero duration.
func resolveDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return watch.DefaultDebounce
}
