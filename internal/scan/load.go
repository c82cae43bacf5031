// Package scan loads Go packages and turns adaptergen directives into the
// inputs of a factory generation round.
package scan

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// ErrLoad is returned when packages fail to load or type check.
var ErrLoad = errors.New("loading packages")

// IsLoadErr returns true if err is or wraps ErrLoad.
func IsLoadErr(err error) bool {
	return errors.Is(err, ErrLoad)
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedImports

// Options controls package loading.
type Options struct {
	// Dir is the working directory patterns are resolved against.
	Dir string

	// Patterns are go list package patterns. Default ".".
	Patterns []string

	// Tags are build tags passed to the go command.
	Tags []string

	// GeneratedSuffix marks generated files. Type errors inside them are
	// tolerated so a stale factory does not block its own regeneration.
	GeneratedSuffix string

	Logger *zap.Logger
}

// Program is a loaded set of packages.
type Program struct {
	Fset     *token.FileSet
	Packages []*packages.Package

	logger *zap.Logger
	byPath map[string]*types.Package
}

// Load loads the packages matching opts.Patterns.
func Load(ctx context.Context, opts Options) (*Program, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Fset:    fset,
	}
	if len(opts.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(opts.Tags, ",")}
	}

	logger.Debug("loading packages", zap.Strings("patterns", patterns), zap.String("dir", opts.Dir))
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: no packages match %s", ErrLoad, strings.Join(patterns, " "))
	}

	var msgs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			if opts.GeneratedSuffix != "" && inGeneratedFile(e, opts.GeneratedSuffix) {
				logger.Debug("ignoring error in generated file", zap.String("error", e.Error()))
				continue
			}
			msgs = append(msgs, e.Error())
		}
	})
	if len(msgs) > 0 {
		return nil, fmt.Errorf("%w:\n%s", ErrLoad, strings.Join(msgs, "\n"))
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	prog := &Program{
		Fset:     fset,
		Packages: pkgs,
		logger:   logger,
		byPath:   make(map[string]*types.Package),
	}
	for _, p := range pkgs {
		prog.index(p.Types)
	}
	logger.Debug("loaded packages", zap.Int("count", len(pkgs)))
	return prog, nil
}

// index records pkg and everything it imports.
func (p *Program) index(pkg *types.Package) {
	if pkg == nil || p.byPath[pkg.Path()] != nil {
		return
	}
	p.byPath[pkg.Path()] = pkg
	for _, imp := range pkg.Imports() {
		p.index(imp)
	}
}

// Files returns the source files of the loaded packages, sorted.
func (p *Program) Files() []string {
	var files []string
	for _, pkg := range p.Packages {
		files = append(files, pkg.GoFiles...)
	}
	sort.Strings(files)
	return files
}

// Dirs returns the directories of the loaded packages, sorted.
func (p *Program) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pkg := range p.Packages {
		dir := packageDir(pkg)
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) == 0 {
		return ""
	}
	return filepath.Dir(pkg.GoFiles[0])
}

func inGeneratedFile(e packages.Error, suffix string) bool {
	return strings.Contains(e.Pos, suffix+":")
}
