package factorygen

import (
	"go/token"

	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Directives recognised in doc comments.
const (
	FactoryDirective = "//adaptergen:factory"
	AdapterDirective = "//adaptergen:adapter"
)

// Runtime package the generated code compiles against.
const (
	AdaptPackage      = "github.com/pthm/adaptergen/adapt"
	FactoryCapability = AdaptPackage + ".Factory"
)

// ElementKind is the kind of declaration a directive was attached to.
type ElementKind int

const (
	KindType ElementKind = iota
	KindFunc
	KindValue
)

func (k ElementKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindFunc:
		return "func"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name.
func (k ElementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Element is a package-level declaration in the loaded program.
type Element struct {
	PkgPath    string         `json:"pkg_path"`
	PkgName    string         `json:"pkg_name"`
	Dir        string         `json:"dir"`
	Name       string         `json:"name"`
	Kind       ElementKind    `json:"kind"`
	TypeParams int            `json:"type_params,omitempty"`
	Pos        token.Position `json:"pos"`
}

// Qualified returns "<pkgpath>.<Name>".
func (e Element) Qualified() string {
	return e.PkgPath + "." + e.Name
}

func (e Element) String() string {
	return e.Qualified()
}

// Round is one pass of the generator: the declarations designated as the
// factory and the descriptors frozen by earlier passes.
type Round struct {
	Number      int
	Designated  []Element
	Descriptors descriptor.Store
}

// TypeOracle answers static type questions about elements. The driver
// implements it on top of its type checker.
type TypeOracle interface {
	// ConformsTo reports whether el's type satisfies the capability, named by
	// its qualified name (e.g. FactoryCapability).
	ConformsTo(el Element, capability string) bool

	// IsAbstract reports whether el cannot be instantiated directly. In Go
	// that means el is an interface type.
	IsAbstract(el Element) bool

	// ExtraMethods returns the methods el's interface declares beyond those
	// of the capability, sorted. Non-interface types have none.
	ExtraMethods(el Element, capability string) []string
}
