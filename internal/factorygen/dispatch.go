package factorygen

import (
	"fmt"

	"github.com/pthm/adaptergen/pkg/descriptor"
)

// ArgKind is an optional constructor argument.
type ArgKind int

const (
	// ArgContext passes the shared *adapt.Context.
	ArgContext ArgKind = iota
	// ArgTypeArguments passes the request's type arguments, failing hard
	// when the request is not parameterized.
	ArgTypeArguments
)

func (k ArgKind) String() string {
	switch k {
	case ArgContext:
		return "context"
	case ArgTypeArguments:
		return "type_arguments"
	default:
		return fmt.Sprintf("arg(%d)", int(k))
	}
}

// MarshalText renders the argument kind by name.
func (k ArgKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Branch maps one raw target type to an adapter constructor call.
type Branch struct {
	// Key is the raw target type matched against adapt.Type.Raw.
	Key string `json:"key"`

	// Adapter is the generated adapter's qualified name.
	Adapter string `json:"adapter"`

	// ConstructorPkg and Constructor identify the function to call.
	ConstructorPkg string `json:"constructor_pkg"`
	Constructor    string `json:"constructor"`

	// TypeParameters has one entry per placeholder the constructor is
	// instantiated with.
	TypeParameters []string `json:"type_parameters,omitempty"`

	// Args lists the constructor arguments in call order.
	Args []ArgKind `json:"args,omitempty"`
}

// DispatchTable is the syntax-independent body of the generated Create
// method: an exact match on raw type with one branch per adapter.
type DispatchTable struct {
	Branches []Branch `json:"branches"`
}

// Empty reports whether the table has no branches, in which case the factory
// declines every request.
func (t DispatchTable) Empty() bool {
	return len(t.Branches) == 0
}

// BuildDispatchTable builds one branch per descriptor, ordered by generated
// adapter name so the output is stable regardless of store order.
//
// Two descriptors with the same raw target type cannot both be dispatched to
// and are rejected with ErrDuplicateTarget. A descriptor that wants type
// arguments for a target without type parameters is rejected with
// ErrTypeArity.
func BuildDispatchTable(store descriptor.Store) (DispatchTable, error) {
	adapters := store.Sorted()
	table := DispatchTable{Branches: make([]Branch, 0, len(adapters))}
	byKey := make(map[string]string, len(adapters))

	for _, d := range adapters {
		if prev, ok := byKey[d.TargetType]; ok {
			return DispatchTable{}, fmt.Errorf("%w: %s is handled by both %s and %s", ErrDuplicateTarget, d.TargetType, prev, d.GeneratedName)
		}
		byKey[d.TargetType] = d.GeneratedName

		if d.RequiresTypeArguments && len(d.TypeParameters) == 0 {
			return DispatchTable{}, fmt.Errorf("%w: %s requires type arguments but %s declares no type parameters", ErrTypeArity, d.GeneratedName, d.TargetType)
		}

		table.Branches = append(table.Branches, newBranch(d))
	}
	return table, nil
}

func newBranch(d descriptor.AdapterDescriptor) Branch {
	b := Branch{
		Key:            d.TargetType,
		Adapter:        d.GeneratedName,
		ConstructorPkg: d.AdapterPackage(),
		Constructor:    d.ConstructorName(),
		TypeParameters: d.TypeParameters,
	}
	if d.RequiresContext {
		b.Args = append(b.Args, ArgContext)
	}
	if d.RequiresTypeArguments {
		b.Args = append(b.Args, ArgTypeArguments)
	}
	return b
}
