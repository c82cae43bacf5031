package scan

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/adaptergen/internal/diag"
	"github.com/pthm/adaptergen/internal/factorygen"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

const petsPkg = "github.com/pthm/adaptergen/internal/scan/testdata/pets"

func loadFixture(t *testing.T, dir string, patterns ...string) *Program {
	t.Helper()
	prog, err := Load(context.Background(), Options{Dir: filepath.Join("testdata", dir), Patterns: patterns})
	require.NoError(t, err)
	return prog
}

func TestLoad_UnknownPattern(t *testing.T) {
	_, err := Load(context.Background(), Options{Dir: "testdata/pets", Patterns: []string{"./does-not-exist"}})
	require.Error(t, err)
	assert.True(t, IsLoadErr(err))
}

func TestDesignated_Pets(t *testing.T) {
	prog := loadFixture(t, "pets", ".", "./models")

	els := prog.Designated()
	require.Len(t, els, 1)
	el := els[0]
	assert.Equal(t, petsPkg, el.PkgPath)
	assert.Equal(t, "pets", el.PkgName)
	assert.Equal(t, "PetFactory", el.Name)
	assert.Equal(t, factorygen.KindType, el.Kind)
	assert.Equal(t, "factory.go", filepath.Base(el.Pos.Filename))
	assert.Equal(t, 8, el.Pos.Line)

	abs, err := filepath.Abs("testdata/pets")
	require.NoError(t, err)
	assert.Equal(t, abs, el.Dir)
}

func TestDesignated_Multi(t *testing.T) {
	prog := loadFixture(t, "multi", ".")

	var got []string
	var kinds []factorygen.ElementKind
	for _, el := range prog.Designated() {
		got = append(got, el.Name)
		kinds = append(kinds, el.Kind)
	}
	assert.Equal(t, []string{"First", "Second", "NewFactory", "Instance"}, got)
	assert.Equal(t, []factorygen.ElementKind{factorygen.KindType, factorygen.KindType, factorygen.KindFunc, factorygen.KindValue}, kinds)
}

func TestAdapters(t *testing.T) {
	prog := loadFixture(t, "pets", ".", "./models")

	var diags diag.Collector
	adapters := prog.Adapters(&diags)

	for i := range adapters {
		assert.NotEmpty(t, adapters[i].Origin)
		adapters[i].Origin = ""
	}
	want := []descriptor.AdapterDescriptor{
		{
			TargetType:      petsPkg + ".Pet",
			GeneratedName:   petsPkg + ".PetAdapter",
			RequiresContext: true,
		},
		{
			TargetType:            petsPkg + ".Box",
			GeneratedName:         petsPkg + ".BoxAdapter",
			Constructor:           "MakeBoxAdapter",
			TypeParameters:        []string{"T"},
			RequiresTypeArguments: true,
		},
		{
			TargetType:    petsPkg + "/models.Owner",
			GeneratedName: petsPkg + ".OwnerAdapter",
		},
	}
	if diff := cmp.Diff(want, adapters); diff != "" {
		t.Errorf("adapters mismatch (-want +got):\n%s", diff)
	}

	ds := diags.Diagnostics()
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "BrokenAdapter")
	assert.Contains(t, ds[0].Message, `unknown adapter option "retries"`)
}

func TestOracle(t *testing.T) {
	prog := loadFixture(t, "pets", ".", "./models")
	factory := prog.Designated()[0]

	assert.True(t, prog.ConformsTo(factory, factorygen.FactoryCapability))
	assert.True(t, prog.IsAbstract(factory))

	adapter := factory
	adapter.Name = "PetAdapter"
	assert.False(t, prog.ConformsTo(adapter, factorygen.FactoryCapability))
	assert.True(t, prog.ConformsTo(adapter, factorygen.AdaptPackage+".Adapter"))
	assert.False(t, prog.IsAbstract(adapter))

	missing := factory
	missing.Name = "Missing"
	assert.False(t, prog.ConformsTo(missing, factorygen.FactoryCapability))
	assert.False(t, prog.IsAbstract(missing))

	assert.False(t, prog.ConformsTo(factory, "example.com/unknown.Factory"))

	assert.Empty(t, prog.ExtraMethods(factory, factorygen.FactoryCapability))
	assert.Empty(t, prog.ExtraMethods(adapter, factorygen.FactoryCapability))
}

func TestOracle_ExtraMethods(t *testing.T) {
	prog := loadFixture(t, "kennel", ".")
	factory := prog.Designated()[0]

	assert.Equal(t, []string{"Adopt", "Breeds"}, prog.ExtraMethods(factory, factorygen.FactoryCapability))
	assert.Equal(t, []string{"Adopt", "Breeds", "Create"}, prog.ExtraMethods(factory, "example.com/unknown.Factory"))
}

func TestOracle_ConcreteFactoryImplements(t *testing.T) {
	prog := loadFixture(t, "multi", ".")
	first := prog.Designated()[0]

	assert.False(t, prog.IsAbstract(first))
	assert.Equal(t, factorygen.ShapeImplement, factorygen.ResolveShape(prog, first))
}

func TestHarvest(t *testing.T) {
	prog := loadFixture(t, "pets", ".", "./models")

	manifest := filepath.Join(t.TempDir(), "adapters.yaml")
	writeFile(t, manifest, `adapters:
  - target_type: example.com/zoo.Lion
    generated_name: example.com/zoo.LionAdapter
`)

	store, err := prog.Harvest([]string{manifest}, &diag.Collector{})
	require.NoError(t, err)
	assert.Equal(t, 4, store.Len())

	lion, ok := store.Get("example.com/zoo.LionAdapter")
	require.True(t, ok)
	assert.Equal(t, manifest, lion.Origin)
}

func TestHarvest_DuplicateAcrossSources(t *testing.T) {
	prog := loadFixture(t, "pets", ".", "./models")

	manifest := filepath.Join(t.TempDir(), "adapters.json")
	writeFile(t, manifest, `{"adapters":[{"target_type":"`+petsPkg+`.Pet","generated_name":"`+petsPkg+`.PetAdapter"}]}`)

	_, err := prog.Harvest([]string{manifest}, &diag.Collector{})
	require.Error(t, err)
	assert.True(t, descriptor.IsDuplicateAdapterErr(err))
	assert.True(t, IsLoadErr(err))
}

func TestRound_GeneratesPetFactory(t *testing.T) {
	prog := loadFixture(t, "pets", ".", "./models")
	var diags diag.Collector

	store, err := prog.Harvest(nil, &diags)
	require.NoError(t, err)

	filer := factorygen.NewMemFiler()
	step, err := factorygen.NewStep(factorygen.Config{}, prog, filer, &diags)
	require.NoError(t, err)
	require.NoError(t, step.Process(prog.Round(1, store)))

	files := filer.Files()
	require.Len(t, files, 1)
	src := string(files[0].Content)
	assert.Equal(t, "pet_factory_adaptergen.go", files[0].Name)
	assert.Contains(t, src, "var AdapterGenPetFactory PetFactory = adapterGenPetFactory{}")
	assert.Contains(t, src, `case "`+petsPkg+`.Box":`)
	assert.Contains(t, src, "return MakeBoxAdapter[any](adapt.TypeArgumentsOrFail(t))")
	assert.Contains(t, src, "return NewOwnerAdapter()")
	assert.Contains(t, src, "return NewPetAdapter(ctx)")

	// The only diagnostic is the malformed adapter directive.
	assert.Equal(t, 1, diags.ErrorCount())
}

func TestRound_RejectsUnbackedFactoryMethods(t *testing.T) {
	prog := loadFixture(t, "kennel", ".")
	var diags diag.Collector

	store, err := prog.Harvest(nil, &diags)
	require.NoError(t, err)

	filer := factorygen.NewMemFiler()
	step, err := factorygen.NewStep(factorygen.Config{}, prog, filer, &diags)
	require.NoError(t, err)
	require.NoError(t, step.Process(prog.Round(1, store)))

	assert.Empty(t, filer.Files())
	ds := diags.Diagnostics()
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "declares Adopt, Breeds beyond adapt.Factory")
	assert.Equal(t, "factory.go", filepath.Base(ds[0].Pos.Filename))
}

func TestParseDirective(t *testing.T) {
	d, ok := findDirective(adapterName, commentGroup("// Doc line.", "//adaptergen:adapter target=Pet ctor=Make context typeargs"))
	require.True(t, ok)

	args, err := d.adapterArgs()
	require.NoError(t, err)
	assert.Equal(t, adapterArgs{target: "Pet", ctor: "Make", context: true, typeArgs: true}, args)

	_, ok = findDirective(factoryName, commentGroup("// adaptergen:factory"))
	assert.False(t, ok, "a space after the slashes is a plain comment")

	_, ok = findDirective(factoryName, commentGroup("//adaptergen:factoryish"))
	assert.False(t, ok)
}

func TestAdapterArgs_Errors(t *testing.T) {
	tests := map[string]string{
		"//adaptergen:adapter":                        "requires target",
		"//adaptergen:adapter target=Pet ctor=1x":     "not an identifier",
		"//adaptergen:adapter target=Pet context=yes": "unknown adapter option",
	}
	for line, want := range tests {
		d, ok := findDirective(adapterName, commentGroup(line))
		require.True(t, ok, line)
		_, err := d.adapterArgs()
		require.Error(t, err, line)
		assert.Contains(t, err.Error(), want)
	}
}
