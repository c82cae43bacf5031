// Package adapt is the runtime contract shared by generated JSON adapters and
// the adapter factories adaptergen emits.
//
// # Overview
//
// An Adapter converts values of one Go type to and from JSON. A Factory maps a
// requested Type to an Adapter, or declines by returning nil so the next
// factory in a Context can try. The Context is the shared deserialization
// context: it owns the factory chain and caches the adapters it hands out.
//
// # Generated factories
//
// adaptergen writes one factory per program. For a designated type
// PetFactory and two adapters the generated code looks like:
//
//	type adapterGenPetFactory struct{}
//
//	var AdapterGenPetFactory adapt.Factory = adapterGenPetFactory{}
//
//	func (adapterGenPetFactory) Create(t adapt.Type, qualifiers []string, ctx *adapt.Context) adapt.Adapter {
//	    if len(qualifiers) > 0 {
//	        return nil
//	    }
//
//	    switch t.Raw {
//	    case "example.com/pets.Box":
//	        return NewBoxAdapter[any](ctx, adapt.TypeArgumentsOrFail(t))
//	    case "example.com/pets.Pet":
//	        return NewPetAdapter()
//	    default:
//	        return nil
//	    }
//	}
//
// Generated factories only answer unqualified requests. Qualified requests
// belong to hand-written factories placed earlier or later in the chain.
//
// # Types
//
// Type is a runtime type descriptor with generics kept apart from their
// arguments: Raw is the uninstantiated identity used as the dispatch key and
// Args holds the resolved type arguments. TypeOf derives a Type from a Go
// type parameter:
//
//	adapt.TypeOf[pets.Box[pets.Pet]]()
//	// Type{Raw: "example.com/pets.Box", Args: []Type{{Raw: "example.com/pets.Pet"}}}
package adapt
