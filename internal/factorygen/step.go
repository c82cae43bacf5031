package factorygen

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pthm/adaptergen/internal/diag"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Step generates the factory for each round it is given.
type Step struct {
	cfg      Config
	renderer Renderer
	oracle   TypeOracle
	filer    Filer
	reporter diag.Reporter
	logger   *zap.Logger
}

// Option configures a Step.
type Option func(*Step)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Step) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStep returns a Step writing through filer and reporting diagnostics to
// reporter.
func NewStep(cfg Config, oracle TypeOracle, filer Filer, reporter diag.Reporter, opts ...Option) (*Step, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Step{
		cfg:      cfg,
		renderer: Get(cfg.Format),
		oracle:   oracle,
		filer:    filer,
		reporter: reporter,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Process runs one round.
//
// Zero designated elements is a no-op. More than one produces a single error
// diagnostic on the first element and no output. For exactly one element the
// factory is generated; ProcessingErrors become diagnostics on the offending
// element. Only write failures and other unexpected errors are returned.
func (s *Step) Process(r Round) error {
	log := s.logger.With(zap.Int("round", r.Number))
	log.Debug("processing round",
		zap.Int("designated", len(r.Designated)),
		zap.Int("descriptors", r.Descriptors.Len()))

	switch {
	case len(r.Designated) == 0:
		return nil
	case len(r.Designated) > 1:
		names := make([]string, len(r.Designated))
		for i, el := range r.Designated {
			names[i] = el.Qualified()
		}
		s.reporter.Report(diag.Errorf(r.Designated[0].Pos,
			"Multiple types found with directive %s: %s", FactoryDirective, strings.Join(names, ", ")))
		log.Debug("multiple designated factories", zap.Strings("elements", names))
		return nil
	}

	el := r.Designated[0]
	err := s.generate(el, r.Descriptors, log)

	var perr *ProcessingError
	if errors.As(err, &perr) {
		s.reporter.Report(diag.Errorf(perr.Element.Pos, "adaptergen: %s", perr.Error()))
		log.Debug("factory generation failed", zap.String("element", perr.Element.Qualified()), zap.Error(perr))
		return nil
	}
	return err
}

func (s *Step) generate(el Element, store descriptor.Store, log *zap.Logger) error {
	d := Designate(s.oracle, el)

	a, err := BuildArtifact(d, store, s.cfg)
	if err != nil {
		return err
	}

	name, content, err := s.renderer.Render(a)
	if err != nil {
		return processingError(el, err)
	}

	dir := el.Dir
	if s.cfg.OutputDir != "" {
		dir = s.cfg.OutputDir
	}
	f := GeneratedFile{Dir: dir, Name: name, Content: content}
	if el.Pos.Filename != "" {
		f.Origins = []string{el.Pos.Filename}
	}
	if err := s.filer.WriteFile(f); err != nil {
		return fmt.Errorf("writing factory for %s: %w", el.Qualified(), err)
	}

	log.Info("generated factory",
		zap.String("factory", el.Qualified()),
		zap.Stringer("shape", d.Shape),
		zap.Int("adapters", len(a.Table.Branches)),
		zap.String("path", f.Path()))
	return nil
}
