package adapt

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Type describes the type an adapter is requested for.
type Type struct {
	// Raw is the uninstantiated identity of the type. Named types use
	// "<pkgpath>.<Name>"; predeclared and unnamed types use their literal
	// form ("int", "[]string").
	Raw string

	// Args holds the resolved type arguments of a generic instantiation.
	// Empty for non-generic types.
	Args []Type
}

// Named returns the Type with the given raw identity and type arguments.
func Named(raw string, args ...Type) Type {
	return Type{Raw: raw, Args: args}
}

// TypeOf returns the Type describing T.
func TypeOf[T any]() Type {
	return Of(reflect.TypeFor[T]())
}

// Of returns the Type describing rt.
//
// Type arguments of generic instantiations are recovered from the name the Go
// runtime assigns to the instantiation, so only their raw identities are
// available (arguments of arguments are parsed the same way).
func Of(rt reflect.Type) Type {
	if rt == nil {
		return Type{}
	}
	if rt.PkgPath() == "" || rt.Name() == "" {
		return Type{Raw: rt.String()}
	}
	t, err := ParseType(rt.PkgPath() + "." + rt.Name())
	if err != nil {
		return Type{Raw: rt.PkgPath() + "." + rt.Name()}
	}
	return t
}

// IsParameterized reports whether t carries type arguments.
func (t Type) IsParameterized() bool {
	return len(t.Args) > 0
}

// String renders t in the form accepted by ParseType.
func (t Type) String() string {
	if len(t.Args) == 0 {
		return t.Raw
	}
	var b strings.Builder
	b.WriteString(t.Raw)
	b.WriteByte('[')
	for i, arg := range t.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Equal reports whether t and other have the same raw identity and arguments.
func (t Type) Equal(other Type) bool {
	return t.Raw == other.Raw && slices.EqualFunc(t.Args, other.Args, Type.Equal)
}

// TypeArgumentsOrFail returns the type arguments of t.
//
// Generated factories call this for adapters that need their type arguments.
// A request for such an adapter without arguments means the caller built the
// Type wrong, so it panics instead of declining.
func TypeArgumentsOrFail(t Type) []Type {
	if len(t.Args) == 0 {
		panic(fmt.Sprintf("adapt: %s does not contain type arguments", t.Raw))
	}
	return slices.Clone(t.Args)
}

// ParseType parses a type in the form produced by Type.String, e.g.
// "example.com/pets.Box[example.com/pets.Pet]".
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Type{}, fmt.Errorf("adapt: empty type")
	}
	if isTypeLiteral(s) {
		return Type{Raw: s}, nil
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.ContainsAny(s, "]") {
			return Type{}, fmt.Errorf("adapt: unbalanced brackets in %q", s)
		}
		return Type{Raw: s}, nil
	}
	if open == 0 || !strings.HasSuffix(s, "]") {
		return Type{}, fmt.Errorf("adapt: malformed type %q", s)
	}

	parts, err := splitArgs(s[open+1 : len(s)-1])
	if err != nil {
		return Type{}, fmt.Errorf("adapt: %w in %q", err, s)
	}
	t := Type{Raw: s[:open]}
	for _, part := range parts {
		arg, err := ParseType(part)
		if err != nil {
			return Type{}, err
		}
		t.Args = append(t.Args, arg)
	}
	return t, nil
}

// isTypeLiteral reports whether s starts like an unnamed type literal.
func isTypeLiteral(s string) bool {
	for _, prefix := range []string{"[", "*", "map[", "func(", "chan ", "<-chan ", "struct{", "interface{"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// splitArgs splits a type argument list at its top-level commas.
func splitArgs(s string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)
	for i, c := range s {
		switch c {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	parts = append(parts, s[start:])
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("empty type argument")
		}
	}
	return parts, nil
}
