package scan

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pthm/adaptergen/internal/diag"
	"github.com/pthm/adaptergen/internal/factorygen"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Harvest freezes the descriptors of the manifests and of the adapter
// directives found in the program into one store. Unreadable manifests and
// clashing descriptors fail with ErrLoad.
func (p *Program) Harvest(manifests []string, reporter diag.Reporter) (descriptor.Store, error) {
	acc := descriptor.NewAccumulator()
	for _, path := range manifests {
		adapters, err := descriptor.LoadManifest(path)
		if err != nil {
			return descriptor.Store{}, fmt.Errorf("%w: %w", ErrLoad, err)
		}
		if err := acc.Append(adapters...); err != nil {
			return descriptor.Store{}, fmt.Errorf("%w: manifest %s: %w", ErrLoad, path, err)
		}
		p.logger.Debug("loaded manifest", zap.String("path", path), zap.Int("adapters", len(adapters)))
	}
	if err := acc.Append(p.Adapters(reporter)...); err != nil {
		return descriptor.Store{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return acc.Freeze(), nil
}

// Round assembles a generation round from the program and a frozen store.
func (p *Program) Round(number int, store descriptor.Store) factorygen.Round {
	return factorygen.Round{
		Number:      number,
		Designated:  p.Designated(),
		Descriptors: store,
	}
}
