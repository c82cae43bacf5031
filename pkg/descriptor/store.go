package descriptor

import (
	"fmt"
	"sort"
)

// Store is a frozen, read-only snapshot of adapter descriptors.
//
// The zero Store is empty and valid. Accessors return copies, so callers
// cannot mutate the snapshot.
type Store struct {
	adapters []AdapterDescriptor
}

// NewStore validates the descriptors and returns them as a frozen Store.
func NewStore(adapters ...AdapterDescriptor) (Store, error) {
	acc := NewAccumulator()
	if err := acc.Append(adapters...); err != nil {
		return Store{}, err
	}
	return acc.Freeze(), nil
}

// Len returns the number of descriptors in the store.
func (s Store) Len() int {
	return len(s.adapters)
}

// Empty reports whether the store holds no descriptors.
func (s Store) Empty() bool {
	return len(s.adapters) == 0
}

// All returns the descriptors in the order they were accumulated.
func (s Store) All() []AdapterDescriptor {
	out := make([]AdapterDescriptor, len(s.adapters))
	for i, d := range s.adapters {
		out[i] = d.clone()
	}
	return out
}

// Sorted returns the descriptors ordered by GeneratedName.
func (s Store) Sorted() []AdapterDescriptor {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedName < out[j].GeneratedName
	})
	return out
}

// Get returns the descriptor with the given generated name.
func (s Store) Get(generatedName string) (AdapterDescriptor, bool) {
	for _, d := range s.adapters {
		if d.GeneratedName == generatedName {
			return d.clone(), true
		}
	}
	return AdapterDescriptor{}, false
}

// Accumulator collects descriptors across upstream passes until it is frozen.
// It is not safe for concurrent use; passes run sequentially.
type Accumulator struct {
	adapters []AdapterDescriptor
	origins  map[string]string
	frozen   bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{origins: make(map[string]string)}
}

// Append validates and adds descriptors. Generated names must be unique.
// Nothing is added if any descriptor is rejected.
func (a *Accumulator) Append(adapters ...AdapterDescriptor) error {
	if a.frozen {
		return ErrFrozen
	}

	seen := make(map[string]string, len(adapters))
	for _, d := range adapters {
		if err := d.Validate(); err != nil {
			return withOrigin(d, err)
		}
		if prev, ok := a.origins[d.GeneratedName]; ok {
			return withOrigin(d, fmt.Errorf("%w: %s already declared%s", ErrDuplicateAdapter, d.GeneratedName, at(prev)))
		}
		if prev, ok := seen[d.GeneratedName]; ok {
			return withOrigin(d, fmt.Errorf("%w: %s already declared%s", ErrDuplicateAdapter, d.GeneratedName, at(prev)))
		}
		seen[d.GeneratedName] = d.Origin
	}

	for _, d := range adapters {
		a.adapters = append(a.adapters, d.clone())
		a.origins[d.GeneratedName] = d.Origin
	}
	return nil
}

// Len returns the number of descriptors accumulated so far.
func (a *Accumulator) Len() int {
	return len(a.adapters)
}

// Freeze ends accumulation and returns the snapshot. Later Appends fail with
// ErrFrozen; Freeze may be called again and returns an equal snapshot.
func (a *Accumulator) Freeze() Store {
	a.frozen = true
	out := make([]AdapterDescriptor, len(a.adapters))
	for i, d := range a.adapters {
		out[i] = d.clone()
	}
	return Store{adapters: out}
}

func withOrigin(d AdapterDescriptor, err error) error {
	if d.Origin == "" {
		return err
	}
	return fmt.Errorf("%s: %w", d.Origin, err)
}

func at(origin string) string {
	if origin == "" {
		return ""
	}
	return " at " + origin
}
