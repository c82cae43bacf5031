package factorygen

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"golang.org/x/tools/imports"
)

// Renderer turns an artifact description into file content.
//
// Renderers register themselves via Register in an init function; Config.Format
// selects one by name.
type Renderer interface {
	// Name returns the format identifier ("go", "json").
	Name() string

	// Render returns the output file name and content for the artifact.
	Render(a Artifact) (name string, content []byte, err error)
}

// registry maps format names to renderers.
var registry = make(map[string]Renderer)

// Register adds a renderer to the registry.
//
// Panics if a renderer with the same name is already registered.
func Register(r Renderer) {
	name := r.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("factorygen: renderer %q already registered", name))
	}
	registry[name] = r
}

// Get returns the renderer for the given format, or nil.
func Get(name string) Renderer {
	return registry[name]
}

// List returns the registered format names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registered returns true if a renderer is registered for the given format.
func Registered(name string) bool {
	_, ok := registry[name]
	return ok
}

func init() {
	Register(goRenderer{})
	Register(jsonRenderer{})
}

//go:embed templates/*.go.tpl
var templatesFS embed.FS

// templates holds the parsed Go source templates.
var templates *template.Template

func init() {
	var err error
	templates, err = template.ParseFS(templatesFS, "templates/*.go.tpl")
	if err != nil {
		panic(fmt.Sprintf("failed to parse factory templates: %v", err))
	}
}

// goRenderer renders the artifact as a formatted Go source file.
type goRenderer struct{}

func (goRenderer) Name() string { return "go" }

// factoryData contains data for rendering the factory template.
type factoryData struct {
	Source     string
	Package    string
	Imports    []Import
	Extend     bool
	Super      string
	Designated string
	TypeName   string
	VarName    string
	Cases      []factoryCase
}

// factoryCase is one pre-rendered switch case.
type factoryCase struct {
	Key  string
	Expr string
}

func (goRenderer) Render(a Artifact) (string, []byte, error) {
	data := factoryData{
		Source:     sourceComment(a),
		Package:    a.Package,
		Imports:    a.Imports,
		Extend:     a.Shape == ShapeExtend,
		Super:      a.Super,
		Designated: a.Origin.Name,
		TypeName:   a.TypeName,
		VarName:    a.VarName,
	}
	for _, b := range a.Table.Branches {
		data.Cases = append(data.Cases, factoryCase{Key: b.Key, Expr: constructorCall(a, b)})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "factory", data); err != nil {
		return "", nil, fmt.Errorf("executing factory template for %s: %w", a.Origin.Qualified(), err)
	}

	src, err := imports.Process(a.FileName, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return "", nil, fmt.Errorf("formatting factory for %s: %w", a.Origin.Qualified(), err)
	}
	return a.FileName, src, nil
}

// constructorCall renders the construction expression of a branch:
// [qualifier.]Constructor[[any, ...]](args...).
func constructorCall(a Artifact, b Branch) string {
	var sb strings.Builder
	if q := a.Qualifier(b.ConstructorPkg); q != "" {
		sb.WriteString(q)
		sb.WriteByte('.')
	}
	sb.WriteString(b.Constructor)

	if n := len(b.TypeParameters); n > 0 {
		placeholders := make([]string, n)
		for i := range placeholders {
			placeholders[i] = "any"
		}
		sb.WriteString("[" + strings.Join(placeholders, ", ") + "]")
	}

	args := make([]string, 0, len(b.Args))
	for _, arg := range b.Args {
		switch arg {
		case ArgContext:
			args = append(args, "ctx")
		case ArgTypeArguments:
			args = append(args, "adapt.TypeArgumentsOrFail(t)")
		}
	}
	sb.WriteString("(" + strings.Join(args, ", ") + ")")
	return sb.String()
}

// sourceComment names the originating file relative to the output.
func sourceComment(a Artifact) string {
	if a.Origin.Pos.Filename == "" {
		return ""
	}
	if a.Origin.Dir != "" {
		if rel, err := filepath.Rel(a.Origin.Dir, a.Origin.Pos.Filename); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(a.Origin.Pos.Filename)
}

// jsonRenderer dumps the artifact description for tooling and debugging.
type jsonRenderer struct{}

func (jsonRenderer) Name() string { return "json" }

func (jsonRenderer) Render(a Artifact) (string, []byte, error) {
	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encoding artifact for %s: %w", a.Origin.Qualified(), err)
	}
	name := strings.TrimSuffix(a.FileName, filepath.Ext(a.FileName)) + ".json"
	return name, append(out, '\n'), nil
}
