package factorygen

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Config holds generation options.
type Config struct {
	// Marker prefixes the generated identifiers. Must be an exported
	// identifier. Default "AdapterGen".
	Marker string

	// FileSuffix is appended to the snake_case factory name to form the
	// output file name. Default "_adaptergen.go".
	FileSuffix string

	// OutputDir overrides the output directory. Empty writes next to the
	// designated type, which is where Go needs the file; a separate
	// directory is useful for staging and diffing.
	OutputDir string

	// Format names the renderer. Default "go".
	Format string
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Marker:     "AdapterGen",
		FileSuffix: "_adaptergen.go",
		Format:     "go",
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Marker == "" {
		c.Marker = def.Marker
	}
	if c.FileSuffix == "" {
		c.FileSuffix = def.FileSuffix
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	return c
}

// Validate checks the options after defaults have been applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	r, _ := utf8.DecodeRuneInString(c.Marker)
	if !token.IsIdentifier(c.Marker) || !unicode.IsUpper(r) {
		return fmt.Errorf("marker %q must be an exported identifier", c.Marker)
	}
	if strings.ContainsAny(c.FileSuffix, `/\`) {
		return fmt.Errorf("file suffix %q must not contain path separators", c.FileSuffix)
	}
	if !Registered(c.Format) {
		return fmt.Errorf("%w %q (registered: %s)", ErrUnknownRenderer, c.Format, strings.Join(List(), ", "))
	}
	return nil
}
