package factorygen

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Names are the identifiers and file name derived for a designated element.
type Names struct {
	// Type is the unexported struct the factory is declared as.
	Type string
	// Var is the exported singleton holding the factory.
	Var string
	// File is the output file name.
	File string
}

// DeriveNames joins the name components of el with "_" and prefixes them with
// the marker. The result depends only on el's name, so regenerating is
// idempotent.
func DeriveNames(el Element, marker, suffix string) Names {
	joined := strings.Join(strings.Split(el.Name, "."), "_")
	exported := marker + joined
	return Names{
		Type: lowerFirst(exported),
		Var:  exported,
		File: snakeCase(joined) + suffix,
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// snakeCase converts a Go identifier to snake_case, keeping acronyms
// together: "JSONPetFactory" -> "json_pet_factory".
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
