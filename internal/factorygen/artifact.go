package factorygen

import (
	"fmt"
	"go/token"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pthm/adaptergen/pkg/descriptor"
)

// Designation is the validated factory declaration together with its shape.
type Designation struct {
	Element Element `json:"element"`
	Shape   Shape   `json:"shape"`

	// Unbacked are the methods an extending factory would promote from its
	// embedded interface without an implementation.
	Unbacked []string `json:"unbacked,omitempty"`
}

// Designate resolves el's shape and, for the extend shape, the methods the
// generated factory could not implement.
func Designate(oracle TypeOracle, el Element) Designation {
	d := Designation{Element: el, Shape: ResolveShape(oracle, el)}
	if d.Shape == ShapeExtend {
		d.Unbacked = oracle.ExtraMethods(el, FactoryCapability)
	}
	return d
}

// Import is a package imported by the generated file.
type Import struct {
	Alias string `json:"alias,omitempty"`
	Path  string `json:"path"`
}

// Artifact describes the generated factory independently of output syntax.
type Artifact struct {
	Package  string `json:"package"`
	PkgPath  string `json:"pkg_path"`
	TypeName string `json:"type_name"`
	VarName  string `json:"var_name"`
	FileName string `json:"file_name"`
	Shape    Shape  `json:"shape"`

	// Super is the designated type the factory embeds (ShapeExtend only).
	Super string `json:"super,omitempty"`

	Origin  Element       `json:"origin"`
	Imports []Import      `json:"imports"`
	Table   DispatchTable `json:"table"`
}

// Qualifier returns the identifier used to refer to pkgPath from the
// generated file, or "" for the artifact's own package.
func (a Artifact) Qualifier(pkgPath string) string {
	if pkgPath == a.PkgPath {
		return ""
	}
	for _, imp := range a.Imports {
		if imp.Path == pkgPath {
			if imp.Alias != "" {
				return imp.Alias
			}
			return path.Base(imp.Path)
		}
	}
	return ""
}

// BuildArtifact validates the designation and assembles the artifact from the
// descriptor store. Failures are ProcessingErrors against the designated
// element.
func BuildArtifact(d Designation, store descriptor.Store, cfg Config) (Artifact, error) {
	cfg = cfg.withDefaults()
	el := d.Element
	if el.Kind != KindType {
		return Artifact{}, processingErrorf(el, ErrNotType, "%s is a %s", el.Qualified(), el.Kind)
	}
	if el.TypeParams > 0 {
		return Artifact{}, processingErrorf(el, ErrGenericFactory, "%s has %d type parameters", el.Qualified(), el.TypeParams)
	}

	if d.Shape == ShapeExtend && len(d.Unbacked) > 0 {
		return Artifact{}, processingErrorf(el, ErrUnbackedMethods, "%s declares %s beyond adapt.Factory",
			el.Qualified(), strings.Join(d.Unbacked, ", "))
	}

	table, err := BuildDispatchTable(store)
	if err != nil {
		return Artifact{}, processingError(el, err)
	}

	names := DeriveNames(el, cfg.Marker, cfg.FileSuffix)
	a := Artifact{
		Package:  el.PkgName,
		PkgPath:  el.PkgPath,
		TypeName: names.Type,
		VarName:  names.Var,
		FileName: names.File,
		Shape:    d.Shape,
		Origin:   el,
		Table:    table,
	}

	outside, err := outsidePackage(el, cfg.OutputDir)
	if err != nil {
		return Artifact{}, processingError(el, err)
	}
	if outside == "" {
		a.Imports = assignImports(el.PkgPath, table)
		if d.Shape == ShapeExtend {
			a.Super = el.Name
		}
		return a, nil
	}

	// The file lives in its own package: everything it names from the
	// designated package must be exported and qualified.
	a.Package = outside
	a.PkgPath = ""
	var extra []string
	if d.Shape == ShapeExtend {
		if !token.IsExported(el.Name) {
			return Artifact{}, processingErrorf(el, ErrUnexported, "%s is referenced from package %s", el.Qualified(), outside)
		}
		extra = append(extra, el.PkgPath)
	}
	for _, b := range table.Branches {
		if !token.IsExported(b.Constructor) {
			return Artifact{}, processingErrorf(el, ErrUnexported, "constructor %s.%s is referenced from package %s",
				b.ConstructorPkg, b.Constructor, outside)
		}
	}
	a.Imports = assignImports("", table, extra...)
	if d.Shape == ShapeExtend {
		a.Super = a.Qualifier(el.PkgPath) + "." + el.Name
	}
	return a, nil
}

// outsidePackage returns the package name of a factory written to outputDir
// when that is not the designated package's directory, or "" otherwise.
func outsidePackage(el Element, outputDir string) (string, error) {
	if outputDir == "" {
		return "", nil
	}
	dir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if el.Dir != "" && dir == filepath.Clean(el.Dir) {
		return "", nil
	}
	return sanitizeAlias(filepath.Base(dir)), nil
}

// Identifiers the generated Create method declares; an import alias equal to
// one of them would be shadowed.
var reservedIdents = map[string]bool{
	"adapt":      true,
	"t":          true,
	"qualifiers": true,
	"ctx":        true,
}

// assignImports returns the runtime package followed by every other adapter
// package and the extra paths, aliased by sanitized last path element.
// Aliases are assigned in path order so they are stable across runs.
func assignImports(self string, table DispatchTable, extra ...string) []Import {
	imports := []Import{{Path: AdaptPackage}}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p == self || p == AdaptPackage || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}
	for _, b := range table.Branches {
		add(b.ConstructorPkg)
	}
	for _, p := range extra {
		add(p)
	}
	sort.Strings(paths)

	used := make(map[string]bool)
	for _, p := range paths {
		base := sanitizeAlias(path.Base(p))
		alias := base
		for n := 2; used[alias] || reservedIdents[alias]; n++ {
			alias = fmt.Sprintf("%s%d", base, n)
		}
		used[alias] = true
		imports = append(imports, Import{Alias: alias, Path: p})
	}
	return imports
}

// sanitizeAlias turns a path element into a valid package identifier.
func sanitizeAlias(elem string) string {
	var b strings.Builder
	for _, c := range elem {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	s := b.String()
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "pkg" + s
	}
	if token.IsKeyword(s) {
		s += "pkg"
	}
	return s
}
