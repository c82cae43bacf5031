package kennel

import "github.com/pthm/adaptergen/adapt"

// KennelFactory creates adapters and manages the kennel.
//
//adaptergen:factory
type KennelFactory interface {
	adapt.Factory
	Breeds() []string
	Adopt(name string) error
}
