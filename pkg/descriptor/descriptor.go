// Package descriptor models the adapters generated earlier in a build and the
// frozen store the factory generator reads them from.
//
// Descriptors are collected by upstream passes (manifest files written by the
// adapter generator, or //adaptergen:adapter directives found in loaded
// packages) into an Accumulator. Freezing the accumulator yields a Store, an
// immutable snapshot that is handed to the factory generator explicitly.
package descriptor

import (
	"fmt"
	"go/token"
	"slices"
	"strings"
)

// AdapterDescriptor identifies one generated adapter and how to construct it.
type AdapterDescriptor struct {
	// TargetType is the fully qualified type the adapter handles,
	// e.g. "example.com/pets.Pet".
	TargetType string `json:"target_type"`

	// GeneratedName is the fully qualified adapter type,
	// e.g. "example.com/pets.PetAdapter". Unique within a build.
	GeneratedName string `json:"generated_name"`

	// Constructor is the constructor function in the adapter's package.
	// Defaults to "New" + the adapter's simple name.
	Constructor string `json:"constructor,omitempty"`

	// TypeParameters lists the generic parameters declared by TargetType.
	TypeParameters []string `json:"type_parameters,omitempty"`

	// RequiresContext is set when the constructor takes the shared
	// *adapt.Context as its first argument.
	RequiresContext bool `json:"requires_context"`

	// RequiresTypeArguments is set when the constructor takes the resolved
	// []adapt.Type type arguments (after the context, if both are needed).
	RequiresTypeArguments bool `json:"requires_type_arguments"`

	// Origin records where the descriptor was read from (manifest path or
	// source position). Informational only.
	Origin string `json:"-"`
}

// SplitQualified splits "<pkgpath>.<Name>" into its package path and name.
// The name is everything after the last dot, so versioned package paths such
// as "gopkg.in/yaml.v3.Node" split correctly.
func SplitQualified(name string) (pkgPath, ident string, ok bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

// AdapterPackage returns the import path of the adapter's package.
func (d AdapterDescriptor) AdapterPackage() string {
	pkg, _, _ := SplitQualified(d.GeneratedName)
	return pkg
}

// AdapterName returns the simple name of the adapter type.
func (d AdapterDescriptor) AdapterName() string {
	_, name, _ := SplitQualified(d.GeneratedName)
	return name
}

// ConstructorName returns the constructor function name.
func (d AdapterDescriptor) ConstructorName() string {
	if d.Constructor != "" {
		return d.Constructor
	}
	return "New" + d.AdapterName()
}

// Validate checks that the descriptor names are well formed.
func (d AdapterDescriptor) Validate() error {
	if err := validateQualified("target_type", d.TargetType); err != nil {
		return err
	}
	if err := validateQualified("generated_name", d.GeneratedName); err != nil {
		return err
	}
	if d.Constructor != "" && !token.IsIdentifier(d.Constructor) {
		return fmt.Errorf("%w: constructor %q is not an identifier", ErrInvalidDescriptor, d.Constructor)
	}
	for _, p := range d.TypeParameters {
		if !token.IsIdentifier(p) {
			return fmt.Errorf("%w: type parameter %q is not an identifier", ErrInvalidDescriptor, p)
		}
	}
	return nil
}

func validateQualified(field, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidDescriptor, field)
	}
	pkg, ident, ok := SplitQualified(name)
	if !ok || pkg == "" || !token.IsIdentifier(ident) {
		return fmt.Errorf("%w: %s %q is not a qualified type name", ErrInvalidDescriptor, field, name)
	}
	return nil
}

// clone returns a copy of d that shares no slices with it.
func (d AdapterDescriptor) clone() AdapterDescriptor {
	d.TypeParameters = slices.Clone(d.TypeParameters)
	return d
}
