// Package doctor checks that a project is set up for factory generation.
//
// The doctor command loads the configured packages, validates the factory
// designation and the adapter descriptors, and reports whether the committed
// factory matches what generate would write.
//
// Example usage:
//
//	d := doctor.New(doctor.Options{Load: scan.Options{Patterns: []string{"./..."}}})
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/adaptergen/internal/diag"
	"github.com/pthm/adaptergen/internal/factorygen"
	"github.com/pthm/adaptergen/internal/scan"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical issue that will cause failures.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks (e.g., "Packages", "Factory").
	Category string

	// Name is a short identifier for the check.
	Name string

	// Status is the check outcome.
	Status Status

	// Message is a human-readable description of the result.
	Message string

	// Details provides additional information for verbose output.
	Details string

	// FixHint suggests how to resolve issues.
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	// Summary counts.
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Print writes the report to the given writer. Colors are used only when w
// is a terminal.
func (r *Report) Print(w io.Writer, verbose bool) {
	re := lipgloss.NewRenderer(w)
	heading := re.NewStyle().Bold(true)
	hint := re.NewStyle().Faint(true)
	marks := map[Status]lipgloss.Style{
		StatusPass: re.NewStyle().Foreground(lipgloss.Color("2")),
		StatusWarn: re.NewStyle().Foreground(lipgloss.Color("3")),
		StatusFail: re.NewStyle().Foreground(lipgloss.Color("1")),
	}

	// Group checks by category
	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", heading.Render(cat))
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", marks[check.Status].Render(check.Status.Symbol()), check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      %s\n", hint.Render("Fix: "+check.FixHint))
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// Options configures a Doctor.
type Options struct {
	Load       scan.Options
	Manifests  []string
	Config     factorygen.Config
	ConfigPath string
}

// Doctor performs health checks on a factory generation setup.
type Doctor struct {
	opts Options

	// Cached data from checks (populated during Run)
	prog    *scan.Program
	factory *factorygen.Element
	store   descriptor.Store
}

// New creates a new Doctor instance.
func New(opts Options) *Doctor {
	return &Doctor{opts: opts}
}

// Run executes all health checks and returns a report. Later checks are
// skipped when the ones they depend on fail.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if !d.checkConfig(report) {
		return report, nil
	}
	if !d.checkPackages(ctx, report) {
		return report, nil
	}
	factoryOK := d.checkFactory(report)
	adaptersOK := d.checkAdapters(report)
	if !factoryOK || !adaptersOK || d.factory == nil {
		return report, nil
	}
	if err := d.checkGenerated(report); err != nil {
		return nil, fmt.Errorf("checking generated code: %w", err)
	}
	return report, nil
}

func (d *Doctor) checkConfig(report *Report) bool {
	if d.opts.ConfigPath != "" {
		report.AddCheck(CheckResult{
			Category: "Configuration",
			Name:     "file",
			Status:   StatusPass,
			Message:  fmt.Sprintf("Config file found at %s", d.opts.ConfigPath),
		})
	} else {
		report.AddCheck(CheckResult{
			Category: "Configuration",
			Name:     "file",
			Status:   StatusPass,
			Message:  "No config file, using defaults",
		})
	}

	if err := d.opts.Config.Validate(); err != nil {
		report.AddCheck(CheckResult{
			Category: "Configuration",
			Name:     "generate",
			Status:   StatusFail,
			Message:  "Generation options are invalid",
			Details:  err.Error(),
			FixHint:  "Check the generate section of adaptergen.yaml",
		})
		return false
	}
	return true
}

func (d *Doctor) checkPackages(ctx context.Context, report *Report) bool {
	prog, err := scan.Load(ctx, d.opts.Load)
	if err != nil {
		report.AddCheck(CheckResult{
			Category: "Packages",
			Name:     "load",
			Status:   StatusFail,
			Message:  "Packages failed to load",
			Details:  err.Error(),
			FixHint:  "Run 'go build' on the packages and fix the reported errors",
		})
		return false
	}
	d.prog = prog

	report.AddCheck(CheckResult{
		Category: "Packages",
		Name:     "load",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Loaded %d packages", len(prog.Packages)),
		Details:  strings.Join(prog.Dirs(), "\n"),
	})
	return true
}

func (d *Doctor) checkFactory(report *Report) bool {
	designated := d.prog.Designated()

	switch len(designated) {
	case 0:
		report.AddCheck(CheckResult{
			Category: "Factory",
			Name:     "designated",
			Status:   StatusWarn,
			Message:  "No declaration is marked " + factorygen.FactoryDirective,
			FixHint:  "Add " + factorygen.FactoryDirective + " to the doc comment of the factory interface",
		})
		return true
	case 1:
	default:
		var lines []string
		for _, el := range designated {
			lines = append(lines, fmt.Sprintf("%s (%s)", el.Qualified(), el.Pos))
		}
		report.AddCheck(CheckResult{
			Category: "Factory",
			Name:     "designated",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%d declarations are marked %s", len(designated), factorygen.FactoryDirective),
			Details:  strings.Join(lines, "\n"),
			FixHint:  "Keep the directive on exactly one type",
		})
		return false
	}

	el := designated[0]
	designation := factorygen.Designate(d.prog, el)
	if _, err := factorygen.BuildArtifact(designation, descriptor.Store{}, d.opts.Config); err != nil {
		report.AddCheck(CheckResult{
			Category: "Factory",
			Name:     "designated",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%s cannot be a factory", el.Qualified()),
			Details:  err.Error(),
			FixHint:  "Mark a non-generic type; an interface may only embed adapt.Factory",
		})
		return false
	}

	d.factory = &el
	report.AddCheck(CheckResult{
		Category: "Factory",
		Name:     "designated",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Factory %s (%s)", el.Qualified(), designation.Shape),
		Details:  el.Pos.String(),
	})
	return true
}

func (d *Doctor) checkAdapters(report *Report) bool {
	var diags diag.Collector
	store, err := d.prog.Harvest(d.opts.Manifests, &diags)
	if err != nil {
		report.AddCheck(CheckResult{
			Category: "Adapters",
			Name:     "descriptors",
			Status:   StatusFail,
			Message:  "Adapter descriptors could not be collected",
			Details:  err.Error(),
			FixHint:  "Every adapter needs a unique generated name across manifests and directives",
		})
		return false
	}
	d.store = store

	ok := true
	if ds := diags.Diagnostics(); len(ds) > 0 {
		var buf bytes.Buffer
		_ = diag.Print(&buf, ds)
		report.AddCheck(CheckResult{
			Category: "Adapters",
			Name:     "directives",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%d malformed %s directives", len(ds), factorygen.AdapterDirective),
			Details:  strings.TrimRight(buf.String(), "\n"),
			FixHint:  "Use " + factorygen.AdapterDirective + " target=<Type> [ctor=<Func>] [context] [typeargs]",
		})
		ok = false
	}

	if _, err := factorygen.BuildDispatchTable(store); err != nil {
		report.AddCheck(CheckResult{
			Category: "Adapters",
			Name:     "dispatch",
			Status:   StatusFail,
			Message:  "Adapters cannot be dispatched",
			Details:  err.Error(),
			FixHint:  "Each target type needs exactly one adapter, and typeargs needs a generic adapter",
		})
		return false
	}

	report.AddCheck(CheckResult{
		Category: "Adapters",
		Name:     "dispatch",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%d adapters registered", store.Len()),
	})
	return ok
}

func (d *Doctor) checkGenerated(report *Report) error {
	filer := factorygen.NewMemFiler()
	var diags diag.Collector
	step, err := factorygen.NewStep(d.opts.Config, d.prog, filer, &diags)
	if err != nil {
		return err
	}
	if err := step.Process(d.prog.Round(1, d.store)); err != nil {
		return err
	}
	if ds := diags.Diagnostics(); len(ds) > 0 {
		return fmt.Errorf("unexpected diagnostic: %s", ds[0])
	}

	for _, f := range filer.Files() {
		onDisk, err := os.ReadFile(f.Path())
		switch {
		case errors.Is(err, os.ErrNotExist):
			report.AddCheck(CheckResult{
				Category: "Generated Code",
				Name:     "fresh",
				Status:   StatusFail,
				Message:  fmt.Sprintf("%s has not been generated", f.Path()),
				FixHint:  "Run 'adaptergen generate'",
			})
		case err != nil:
			return err
		case !bytes.Equal(onDisk, f.Content):
			report.AddCheck(CheckResult{
				Category: "Generated Code",
				Name:     "fresh",
				Status:   StatusFail,
				Message:  fmt.Sprintf("%s is out of date", f.Path()),
				FixHint:  "Run 'adaptergen generate'",
			})
		default:
			report.AddCheck(CheckResult{
				Category: "Generated Code",
				Name:     "fresh",
				Status:   StatusPass,
				Message:  fmt.Sprintf("%s is up to date", f.Path()),
			})
		}
	}
	return nil
}
