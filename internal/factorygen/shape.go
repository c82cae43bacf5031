package factorygen

import "fmt"

// Shape is how the generated factory relates to the designated type.
type Shape int

const (
	// ShapeImplement declares a fresh struct implementing adapt.Factory. The
	// designated type only anchors the name.
	ShapeImplement Shape = iota

	// ShapeExtend declares a struct embedding the designated interface, so
	// the factory satisfies it. The generated Create shadows the embedded
	// one; the interface may declare no other methods.
	ShapeExtend
)

func (s Shape) String() string {
	switch s {
	case ShapeImplement:
		return "implement"
	case ShapeExtend:
		return "extend"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// MarshalText renders the shape by name.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ResolveShape extends el only when it already declares itself an
// adapt.Factory and cannot be instantiated.
func ResolveShape(oracle TypeOracle, el Element) Shape {
	if oracle.ConformsTo(el, FactoryCapability) && oracle.IsAbstract(el) {
		return ShapeExtend
	}
	return ShapeImplement
}
