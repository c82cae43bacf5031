package factorygen

import (
	"errors"
	"go/token"
	"testing"

	"github.com/pthm/adaptergen/pkg/descriptor"
)

// staticOracle answers from fixed sets of qualified names.
type staticOracle struct {
	conforms map[string]bool
	abstract map[string]bool
	extra    map[string][]string
}

func (o staticOracle) ConformsTo(el Element, capability string) bool {
	return capability == FactoryCapability && o.conforms[el.Qualified()]
}

func (o staticOracle) IsAbstract(el Element) bool {
	return o.abstract[el.Qualified()]
}

func (o staticOracle) ExtraMethods(el Element, capability string) []string {
	if capability != FactoryCapability {
		return nil
	}
	return o.extra[el.Qualified()]
}

// failingFiler rejects every write.
type failingFiler struct{}

func (failingFiler) WriteFile(GeneratedFile) error {
	return errors.New("disk full")
}

func typeElement(name string, line int) Element {
	return Element{
		PkgPath: "example.com/pets",
		PkgName: "pets",
		Dir:     "/src/pets",
		Name:    name,
		Kind:    KindType,
		Pos:     token.Position{Filename: "/src/pets/factory.go", Line: line, Column: 6},
	}
}

func petsDescriptor(name string) descriptor.AdapterDescriptor {
	return descriptor.AdapterDescriptor{
		TargetType:    "example.com/pets." + name,
		GeneratedName: "example.com/pets." + name + "Adapter",
	}
}

func mustStore(t *testing.T, adapters ...descriptor.AdapterDescriptor) descriptor.Store {
	t.Helper()
	store, err := descriptor.NewStore(adapters...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// petStore holds three same-package adapters inserted out of name order.
func petStore(t *testing.T) descriptor.Store {
	t.Helper()

	pet := petsDescriptor("Pet")
	pet.RequiresContext = true

	owner := petsDescriptor("Owner")

	box := petsDescriptor("Box")
	box.TypeParameters = []string{"T"}
	box.RequiresContext = true
	box.RequiresTypeArguments = true

	return mustStore(t, pet, owner, box)
}
