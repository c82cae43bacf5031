package factorygen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pthm/adaptergen/internal/diag"
	"github.com/pthm/adaptergen/pkg/descriptor"
)

func newTestStep(t *testing.T, filer Filer, cfg Config, oracle TypeOracle) (*Step, *diag.Collector) {
	t.Helper()
	var diags diag.Collector
	step, err := NewStep(cfg, oracle, filer, &diags)
	require.NoError(t, err)
	return step, &diags
}

func TestStep_NoDesignation(t *testing.T) {
	filer := NewMemFiler()
	step, diags := newTestStep(t, filer, Config{}, staticOracle{})

	require.NoError(t, step.Process(Round{Number: 1, Descriptors: petStore(t)}))
	assert.Empty(t, diags.Diagnostics())
	assert.Empty(t, filer.Files())
}

func TestStep_MultipleDesignations(t *testing.T) {
	filer := NewMemFiler()
	step, diags := newTestStep(t, filer, Config{}, staticOracle{})

	first := typeElement("PetFactory", 10)
	second := typeElement("OwnerFactory", 20)
	third := typeElement("ToyFactory", 30)

	require.NoError(t, step.Process(Round{Designated: []Element{first, second, third}}))

	ds := diags.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.SeverityError, ds[0].Severity)
	assert.Equal(t, first.Pos, ds[0].Pos)
	assert.Contains(t, ds[0].Message, "Multiple types found with directive //adaptergen:factory")
	assert.Contains(t, ds[0].Message, "example.com/pets.OwnerFactory")
	assert.Empty(t, filer.Files())
}

func TestStep_GeneratesImplement(t *testing.T) {
	filer := NewMemFiler()
	step, diags := newTestStep(t, filer, Config{}, staticOracle{})
	el := typeElement("PetFactory", 10)

	require.NoError(t, step.Process(Round{Designated: []Element{el}, Descriptors: petStore(t)}))
	assert.Empty(t, diags.Diagnostics())

	f, ok := filer.File("/src/pets/pet_factory_adaptergen.go")
	require.True(t, ok, "generated file missing; have %v", filer.Files())
	assert.Equal(t, []string{"/src/pets/factory.go"}, f.Origins)
	assert.Contains(t, string(f.Content), "var AdapterGenPetFactory adapt.Factory = adapterGenPetFactory{}")
}

func TestStep_GeneratesExtend(t *testing.T) {
	el := typeElement("PetFactory", 10)
	oracle := staticOracle{
		conforms: map[string]bool{el.Qualified(): true},
		abstract: map[string]bool{el.Qualified(): true},
	}
	filer := NewMemFiler()
	step, _ := newTestStep(t, filer, Config{}, oracle)

	require.NoError(t, step.Process(Round{Designated: []Element{el}}))

	files := filer.Files()
	require.Len(t, files, 1)
	assert.Contains(t, string(files[0].Content), "var AdapterGenPetFactory PetFactory = adapterGenPetFactory{}")
}

func TestStep_OutputDir(t *testing.T) {
	el := typeElement("PetFactory", 10)
	oracle := staticOracle{
		conforms: map[string]bool{el.Qualified(): true},
		abstract: map[string]bool{el.Qualified(): true},
	}
	filer := NewMemFiler()
	step, diags := newTestStep(t, filer, Config{OutputDir: "/tmp/staging"}, oracle)

	require.NoError(t, step.Process(Round{Designated: []Element{el}, Descriptors: petStore(t)}))
	assert.Empty(t, diags.Diagnostics())

	f, ok := filer.File("/tmp/staging/pet_factory_adaptergen.go")
	require.True(t, ok)
	src := string(f.Content)
	assert.Contains(t, src, "package staging\n")
	assert.Contains(t, src, `pets "example.com/pets"`)
	assert.Contains(t, src, "type adapterGenPetFactory struct {\n\tpets.PetFactory\n}")
	assert.Contains(t, src, "var AdapterGenPetFactory pets.PetFactory = adapterGenPetFactory{}")
	assert.Contains(t, src, "return pets.NewBoxAdapter[any](ctx, adapt.TypeArgumentsOrFail(t))")
	assert.Contains(t, src, "return pets.NewOwnerAdapter()")
	assert.Contains(t, src, "return pets.NewPetAdapter(ctx)")
}

func TestStep_ExtendWithUnbackedMethods(t *testing.T) {
	el := typeElement("PetFactory", 10)
	oracle := staticOracle{
		conforms: map[string]bool{el.Qualified(): true},
		abstract: map[string]bool{el.Qualified(): true},
		extra:    map[string][]string{el.Qualified(): {"Species"}},
	}
	filer := NewMemFiler()
	step, diags := newTestStep(t, filer, Config{}, oracle)

	require.NoError(t, step.Process(Round{Designated: []Element{el}, Descriptors: petStore(t)}))

	ds := diags.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, el.Pos, ds[0].Pos)
	assert.Contains(t, ds[0].Message, "must not declare methods beyond adapt.Factory")
	assert.Empty(t, filer.Files())
}

func TestStep_ProcessingErrorsBecomeDiagnostics(t *testing.T) {
	fn := typeElement("NewFactory", 12)
	fn.Kind = KindFunc

	a := petsDescriptor("Pet")
	b := petsDescriptor("Pet")
	b.GeneratedName = "example.com/pets.OtherPetAdapter"

	tests := []struct {
		name  string
		el    Element
		store descriptor.Store
		want  string
	}{
		{"directive on function", fn, descriptor.Store{}, "must be placed on a type declaration"},
		{"duplicate target", typeElement("PetFactory", 10), mustStore(t, a, b), "duplicate target type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filer := NewMemFiler()
			step, diags := newTestStep(t, filer, Config{}, staticOracle{})

			require.NoError(t, step.Process(Round{Designated: []Element{tt.el}, Descriptors: tt.store}))

			ds := diags.Diagnostics()
			require.Len(t, ds, 1)
			assert.Equal(t, tt.el.Pos, ds[0].Pos)
			assert.True(t, strings.HasPrefix(ds[0].Message, "adaptergen: "), ds[0].Message)
			assert.Contains(t, ds[0].Message, tt.want)
			assert.Empty(t, filer.Files())
		})
	}
}

func TestStep_WriteFailureIsReturned(t *testing.T) {
	step, diags := newTestStep(t, failingFiler{}, Config{}, staticOracle{})

	err := step.Process(Round{Designated: []Element{typeElement("PetFactory", 10)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing factory for example.com/pets.PetFactory")
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, diags.Diagnostics())
}

func TestStep_Deterministic(t *testing.T) {
	el := typeElement("PetFactory", 10)

	var outputs [][]byte
	for range 2 {
		filer := NewMemFiler()
		step, _ := newTestStep(t, filer, Config{}, staticOracle{})
		require.NoError(t, step.Process(Round{Designated: []Element{el}, Descriptors: petStore(t)}))
		outputs = append(outputs, filer.Files()[0].Content)
	}
	assert.True(t, bytes.Equal(outputs[0], outputs[1]))
}

func TestStep_LogsGeneratedFactory(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var diags diag.Collector
	step, err := NewStep(Config{}, staticOracle{}, NewMemFiler(), &diags, WithLogger(zap.New(core)))
	require.NoError(t, err)

	require.NoError(t, step.Process(Round{Number: 2, Designated: []Element{typeElement("PetFactory", 10)}, Descriptors: petStore(t)}))

	entries := logs.FilterMessage("generated factory").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "example.com/pets.PetFactory", fields["factory"])
	assert.Equal(t, int64(3), fields["adapters"])
	assert.Equal(t, int64(2), fields["round"])
}

func TestNewStep_RejectsUnknownFormat(t *testing.T) {
	_, err := NewStep(Config{Format: "kotlin"}, staticOracle{}, NewMemFiler(), &diag.Collector{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRenderer)
}
