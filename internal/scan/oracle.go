package scan

import (
	"go/types"
	"sort"

	"github.com/pthm/adaptergen/internal/factorygen"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Program answers the generator's type questions from the type checker.
var _ factorygen.TypeOracle = (*Program)(nil)

// ConformsTo reports whether el's type (or a pointer to it) implements the
// interface named by capability. Capabilities outside the loaded import
// graph never conform.
func (p *Program) ConformsTo(el factorygen.Element, capability string) bool {
	obj := p.lookup(el.PkgPath, el.Name)
	if obj == nil {
		return false
	}
	iface := p.capability(capability)
	if iface == nil {
		return false
	}

	t := obj.Type()
	if named, ok := t.(*types.Named); ok && named.TypeParams().Len() > 0 {
		return false
	}
	if types.Implements(t, iface) {
		return true
	}
	return !types.IsInterface(t) && types.Implements(types.NewPointer(t), iface)
}

// IsAbstract reports whether el is an interface type.
func (p *Program) IsAbstract(el factorygen.Element) bool {
	obj := p.lookup(el.PkgPath, el.Name)
	return obj != nil && types.IsInterface(obj.Type())
}

// ExtraMethods returns the methods of el's interface, embedded ones
// included, that the capability interface does not declare.
func (p *Program) ExtraMethods(el factorygen.Element, capability string) []string {
	obj := p.lookup(el.PkgPath, el.Name)
	if obj == nil {
		return nil
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil
	}

	declared := make(map[string]bool)
	if c := p.capability(capability); c != nil {
		for i := range c.NumMethods() {
			declared[c.Method(i).Name()] = true
		}
	}

	var extra []string
	for i := range iface.NumMethods() {
		if name := iface.Method(i).Name(); !declared[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return extra
}

// capability returns the interface named by a qualified name, or nil.
func (p *Program) capability(qualified string) *types.Interface {
	pkgPath, name, ok := descriptor.SplitQualified(qualified)
	if !ok {
		return nil
	}
	obj := p.lookup(pkgPath, name)
	if obj == nil {
		return nil
	}
	iface, _ := obj.Type().Underlying().(*types.Interface)
	return iface
}

func (p *Program) lookup(pkgPath, name string) *types.TypeName {
	pkg := p.byPath[pkgPath]
	if pkg == nil {
		return nil
	}
	tn, _ := pkg.Scope().Lookup(name).(*types.TypeName)
	return tn
}
