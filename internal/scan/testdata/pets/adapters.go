package pets

import (
	"github.com/pthm/adaptergen/adapt"
	"github.com/pthm/adaptergen/internal/scan/testdata/pets/models"
)

type Pet struct {
	Name string
}

type Box[T any] struct {
	Value T
}

//adaptergen:adapter target=Pet context
type PetAdapter struct {
	ctx *adapt.Context
}

func NewPetAdapter(ctx *adapt.Context) adapt.Adapter { return PetAdapter{ctx: ctx} }

func (PetAdapter) Encode(v any) ([]byte, error)    { return nil, nil }
func (PetAdapter) Decode(data []byte) (any, error) { return Pet{}, nil }

// BoxAdapter handles every Box instantiation.
//
//adaptergen:adapter target=Box ctor=MakeBoxAdapter typeargs
type BoxAdapter[T any] struct {
	args []adapt.Type
}

func MakeBoxAdapter[T any](args []adapt.Type) adapt.Adapter { return BoxAdapter[T]{args: args} }

func (BoxAdapter[T]) Encode(v any) ([]byte, error)    { return nil, nil }
func (BoxAdapter[T]) Decode(data []byte) (any, error) { return Box[T]{}, nil }

//adaptergen:adapter target=models.Owner
type OwnerAdapter struct{}

func NewOwnerAdapter() adapt.Adapter { return OwnerAdapter{} }

func (OwnerAdapter) Encode(v any) ([]byte, error)    { return nil, nil }
func (OwnerAdapter) Decode(data []byte) (any, error) { return models.Owner{}, nil }

//adaptergen:adapter target=Pet retries=3
type BrokenAdapter struct{}
