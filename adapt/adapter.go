package adapt

// Adapter converts values of a single Go type to and from JSON.
type Adapter interface {
	// Encode returns the JSON encoding of v.
	Encode(v any) ([]byte, error)

	// Decode parses data into a value of the adapter's type.
	Decode(data []byte) (any, error)
}

// Factory creates adapters for the types it knows.
//
// Create returns nil when the factory does not handle t with the given
// qualifiers. A Context then asks the next factory in its chain.
type Factory interface {
	Create(t Type, qualifiers []string, ctx *Context) Adapter
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(t Type, qualifiers []string, ctx *Context) Adapter

// Create calls f.
func (f FactoryFunc) Create(t Type, qualifiers []string, ctx *Context) Adapter {
	return f(t, qualifiers, ctx)
}
