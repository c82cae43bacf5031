// Package factorygen generates adapter factories for Go packages.
//
// It is the programmatic entry point behind the adaptergen CLI: load the
// packages, collect adapter descriptors from manifests and
// //adaptergen:adapter directives, and emit the dispatching factory for the
// type marked //adaptergen:factory.
//
//	res, err := factorygen.Generate(ctx, factorygen.Options{
//	    Dir:      "internal/models",
//	    Patterns: []string{"."},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, d := range res.Diagnostics {
//	    log.Println(d)
//	}
package factorygen

import (
	"context"

	"go.uber.org/zap"

	"github.com/pthm/adaptergen/internal/diag"
	gen "github.com/pthm/adaptergen/internal/factorygen"
	"github.com/pthm/adaptergen/internal/scan"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Config is an alias for the generator options.
type Config = gen.Config

// Filer persists generated files.
type Filer = gen.Filer

// GeneratedFile is one generated output.
type GeneratedFile = gen.GeneratedFile

// DiskFiler writes generated files to disk.
type DiskFiler = gen.DiskFiler

// MemFiler keeps generated files in memory.
type MemFiler = gen.MemFiler

// WriterFiler writes generated content to an io.Writer.
type WriterFiler = gen.WriterFiler

// Diagnostic is a message attached to a source position.
type Diagnostic = diag.Diagnostic

// DefaultConfig returns the default generator options.
func DefaultConfig() Config {
	return gen.DefaultConfig()
}

// NewDiskFiler returns a filer writing to disk.
func NewDiskFiler(logger *zap.Logger) *DiskFiler {
	return gen.NewDiskFiler(logger)
}

// NewMemFiler returns an in-memory filer.
func NewMemFiler() *MemFiler {
	return gen.NewMemFiler()
}

// Formats returns the registered output formats.
func Formats() []string {
	return gen.List()
}

// Options controls a generation run.
type Options struct {
	// Dir is the directory package patterns are resolved against.
	Dir string

	// Patterns are go list package patterns. Default ".".
	Patterns []string

	// Tags are build tags used when loading packages.
	Tags []string

	// Manifests are adapter manifest files (YAML or JSON).
	Manifests []string

	Config Config

	// Filer receives generated files. Default: a DiskFiler.
	Filer Filer

	// Round numbers the run in logs. Default 1.
	Round int

	Logger *zap.Logger
}

// Result describes a completed run.
type Result struct {
	// Diagnostics are the problems reported against the sources.
	Diagnostics []Diagnostic

	// Descriptors is the frozen descriptor store the factory was built from.
	Descriptors descriptor.Store

	// Dirs are the directories of the loaded packages.
	Dirs []string
}

// ErrorCount returns the number of error diagnostics.
func (r *Result) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			n++
		}
	}
	return n
}

// Generate runs one generation round.
//
// Invariant violations in the sources are returned as diagnostics in the
// Result. The error is reserved for failures to load packages or manifests
// (see IsLoadErr) and to write output.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	prog, store, res, err := harvest(ctx, opts)
	if err != nil {
		return nil, err
	}

	var diags diag.Collector
	step, err := gen.NewStep(opts.Config, prog, opts.Filer, &diags, gen.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	if err := step.Process(prog.Round(opts.Round, store)); err != nil {
		return nil, err
	}
	res.Diagnostics = append(res.Diagnostics, diags.Diagnostics()...)
	return res, nil
}

// Descriptors loads the packages and manifests and returns the frozen
// descriptor store without generating anything.
func Descriptors(ctx context.Context, opts Options) (*Result, error) {
	_, _, res, err := harvest(ctx, opts.withDefaults())
	return res, err
}

func harvest(ctx context.Context, opts Options) (*scan.Program, descriptor.Store, *Result, error) {
	cfg := opts.Config
	if cfg.FileSuffix == "" {
		cfg.FileSuffix = DefaultConfig().FileSuffix
	}
	prog, err := scan.Load(ctx, scan.Options{
		Dir:             opts.Dir,
		Patterns:        opts.Patterns,
		Tags:            opts.Tags,
		GeneratedSuffix: cfg.FileSuffix,
		Logger:          opts.Logger,
	})
	if err != nil {
		return nil, descriptor.Store{}, nil, err
	}

	var diags diag.Collector
	store, err := prog.Harvest(opts.Manifests, &diags)
	if err != nil {
		return nil, descriptor.Store{}, nil, err
	}
	return prog, store, &Result{
		Diagnostics: diags.Diagnostics(),
		Descriptors: store,
		Dirs:        prog.Dirs(),
	}, nil
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Filer == nil {
		o.Filer = NewDiskFiler(o.Logger)
	}
	if o.Round == 0 {
		o.Round = 1
	}
	return o
}

// IsLoadErr returns true if err came from loading packages or manifests.
func IsLoadErr(err error) bool {
	return scan.IsLoadErr(err)
}

// IsProcessingErr returns true if err is a generation invariant violation.
func IsProcessingErr(err error) bool {
	return gen.IsProcessingErr(err)
}
