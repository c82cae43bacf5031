package pets

import "github.com/pthm/adaptergen/adapt"

// PetFactory creates adapters for the pet models.
//
//adaptergen:factory
type PetFactory interface {
	adapt.Factory
}
