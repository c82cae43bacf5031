package scan

import (
	"go/ast"
	"go/token"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/pthm/adaptergen/internal/diag"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Adapters returns a descriptor for every type carrying the adapter
// directive. Malformed directives are reported and skipped.
func (p *Program) Adapters(reporter diag.Reporter) []descriptor.AdapterDescriptor {
	var out []descriptor.AdapterDescriptor
	for _, pkg := range p.Packages {
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, spec := range gd.Specs {
					ts := spec.(*ast.TypeSpec)
					d, ok := findDirective(adapterName, specDoc(gd, ts.Doc)...)
					if !ok {
						continue
					}
					desc, err := p.adapterDescriptor(pkg, file, ts, d)
					if err != nil {
						reporter.Report(diag.Errorf(p.Fset.Position(d.pos), "adaptergen: %s.%s: %v", pkg.PkgPath, ts.Name.Name, err))
						continue
					}
					p.logger.Debug("found adapter directive",
						zap.String("adapter", desc.GeneratedName),
						zap.String("target", desc.TargetType))
					out = append(out, desc)
				}
			}
		}
	}
	return out
}

func (p *Program) adapterDescriptor(pkg *packages.Package, file *ast.File, ts *ast.TypeSpec, d directive) (descriptor.AdapterDescriptor, error) {
	args, err := d.adapterArgs()
	if err != nil {
		return descriptor.AdapterDescriptor{}, err
	}

	desc := descriptor.AdapterDescriptor{
		TargetType:            p.resolveTarget(pkg, file, args.target),
		GeneratedName:         pkg.PkgPath + "." + ts.Name.Name,
		Constructor:           args.ctor,
		RequiresContext:       args.context,
		RequiresTypeArguments: args.typeArgs,
		Origin:                p.Fset.Position(d.pos).String(),
	}
	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			for _, name := range field.Names {
				desc.TypeParameters = append(desc.TypeParameters, name.Name)
			}
		}
	}
	if err := desc.Validate(); err != nil {
		return descriptor.AdapterDescriptor{}, err
	}
	return desc, nil
}

// resolveTarget qualifies a directive target. "Pet" names a type in the
// adapter's package, "models.Pet" a type in a package imported by the file,
// and anything containing a slash is taken as fully qualified.
func (p *Program) resolveTarget(pkg *packages.Package, file *ast.File, target string) string {
	if strings.Contains(target, "/") {
		return target
	}
	local, name, ok := strings.Cut(target, ".")
	if !ok {
		return pkg.PkgPath + "." + target
	}
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if p.importName(pkg, imp, importPath) == local {
			return importPath + "." + name
		}
	}
	return target
}

// importName returns the identifier an import is referred to by in its file.
func (p *Program) importName(pkg *packages.Package, imp *ast.ImportSpec, importPath string) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	if dep, ok := pkg.Imports[importPath]; ok && dep.Name != "" {
		return dep.Name
	}
	if tp := p.byPath[importPath]; tp != nil {
		return tp.Name()
	}
	return path.Base(importPath)
}
