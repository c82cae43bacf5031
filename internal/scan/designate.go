package scan

import (
	"go/ast"
	"go/token"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/pthm/adaptergen/internal/factorygen"
)

const (
	factoryName = "factory"
	adapterName = "adapter"
)

// Designated returns every declaration carrying the factory directive,
// ordered by package path and source position.
//
// Directives on functions and values are returned too, with their kind set,
// so the generator can report them.
func (p *Program) Designated() []factorygen.Element {
	var out []factorygen.Element
	for _, pkg := range p.Packages {
		for _, file := range pkg.Syntax {
			out = append(out, p.designatedInFile(pkg, file)...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PkgPath != b.PkgPath {
			return a.PkgPath < b.PkgPath
		}
		return positionLess(a.Pos, b.Pos)
	})
	return out
}

func (p *Program) designatedInFile(pkg *packages.Package, file *ast.File) []factorygen.Element {
	var out []factorygen.Element
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			if _, ok := findDirective(factoryName, decl.Doc); ok {
				out = append(out, p.element(pkg, decl.Name, factorygen.KindFunc, 0))
			}
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					if _, ok := findDirective(factoryName, specDoc(decl, spec.Doc)...); ok {
						out = append(out, p.element(pkg, spec.Name, factorygen.KindType, spec.TypeParams.NumFields()))
					}
				case *ast.ValueSpec:
					if _, ok := findDirective(factoryName, specDoc(decl, spec.Doc)...); ok && len(spec.Names) > 0 {
						out = append(out, p.element(pkg, spec.Names[0], factorygen.KindValue, 0))
					}
				}
			}
		}
	}
	return out
}

// specDoc returns the comment groups documenting a spec. The declaration's
// doc applies only when it has a single spec.
func specDoc(decl *ast.GenDecl, doc *ast.CommentGroup) []*ast.CommentGroup {
	if len(decl.Specs) == 1 {
		return []*ast.CommentGroup{doc, decl.Doc}
	}
	return []*ast.CommentGroup{doc}
}

func (p *Program) element(pkg *packages.Package, name *ast.Ident, kind factorygen.ElementKind, typeParams int) factorygen.Element {
	return factorygen.Element{
		PkgPath:    pkg.PkgPath,
		PkgName:    pkg.Name,
		Dir:        packageDir(pkg),
		Name:       name.Name,
		Kind:       kind,
		TypeParams: typeParams,
		Pos:        p.Fset.Position(name.Pos()),
	}
}

func positionLess(a, b token.Position) bool {
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
