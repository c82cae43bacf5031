package adapt_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/adaptergen/adapt"
)

type stubAdapter struct{ name string }

func (s *stubAdapter) Encode(any) ([]byte, error) { return []byte(`"` + s.name + `"`), nil }
func (s *stubAdapter) Decode([]byte) (any, error) { return s.name, nil }

// rawFactory answers unqualified requests for a single raw type.
func rawFactory(raw string, calls *atomic.Int32) adapt.Factory {
	return adapt.FactoryFunc(func(t adapt.Type, qualifiers []string, _ *adapt.Context) adapt.Adapter {
		if calls != nil {
			calls.Add(1)
		}
		if len(qualifiers) > 0 || t.Raw != raw {
			return nil
		}
		return &stubAdapter{name: raw}
	})
}

func TestContext_ChainOrder(t *testing.T) {
	first := rawFactory("a", nil)
	second := rawFactory("b", nil)
	shadow := adapt.FactoryFunc(func(t adapt.Type, _ []string, _ *adapt.Context) adapt.Adapter {
		return &stubAdapter{name: "shadow"}
	})

	ctx := adapt.NewContext(first, second, shadow)

	a, err := ctx.Adapter(adapt.Named("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", a.(*stubAdapter).name)

	b, err := ctx.Adapter(adapt.Named("b"))
	require.NoError(t, err)
	assert.Equal(t, "b", b.(*stubAdapter).name)

	c, err := ctx.Adapter(adapt.Named("c"))
	require.NoError(t, err)
	assert.Equal(t, "shadow", c.(*stubAdapter).name, "declined requests fall through to later factories")
}

func TestContext_NoAdapter(t *testing.T) {
	ctx := adapt.NewContext(rawFactory("a", nil))

	_, err := ctx.Adapter(adapt.Named("b"))
	require.Error(t, err)
	assert.True(t, adapt.IsNoAdapterErr(err))
	assert.Contains(t, err.Error(), "b")

	_, err = ctx.Adapter(adapt.Named("a"), "Lenient")
	require.Error(t, err)
	assert.True(t, adapt.IsNoAdapterErr(err))
	assert.Contains(t, err.Error(), "Lenient")
}

func TestContext_Caches(t *testing.T) {
	var calls atomic.Int32
	ctx := adapt.NewContext(rawFactory("a", &calls))

	first, err := ctx.Adapter(adapt.Named("a"))
	require.NoError(t, err)
	second, err := ctx.Adapter(adapt.Named("a"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestContext_CacheKeyIncludesArgsAndQualifiers(t *testing.T) {
	var calls atomic.Int32
	everything := adapt.FactoryFunc(func(t adapt.Type, _ []string, _ *adapt.Context) adapt.Adapter {
		calls.Add(1)
		return &stubAdapter{name: t.String()}
	})
	ctx := adapt.NewContext(everything)

	_, _ = ctx.Adapter(adapt.Named("box", adapt.Named("int")))
	_, _ = ctx.Adapter(adapt.Named("box", adapt.Named("string")))
	_, _ = ctx.Adapter(adapt.Named("box", adapt.Named("int")), "X", "Y")
	_, _ = ctx.Adapter(adapt.Named("box", adapt.Named("int")), "Y", "X")

	assert.Equal(t, int32(3), calls.Load())
}

func TestContext_NestedLookupDuringCreate(t *testing.T) {
	inner := rawFactory("inner", nil)
	outer := adapt.FactoryFunc(func(t adapt.Type, _ []string, ctx *adapt.Context) adapt.Adapter {
		if t.Raw != "outer" {
			return nil
		}
		nested, err := ctx.Adapter(adapt.Named("inner"))
		if err != nil {
			return nil
		}
		return &stubAdapter{name: "outer(" + nested.(*stubAdapter).name + ")"}
	})

	ctx := adapt.NewContext(outer, inner)
	a, err := ctx.Adapter(adapt.Named("outer"))
	require.NoError(t, err)
	assert.Equal(t, "outer(inner)", a.(*stubAdapter).name)
}

func TestContext_With(t *testing.T) {
	base := adapt.NewContext(rawFactory("a", nil))
	extended := base.With(rawFactory("b", nil))

	assert.Len(t, base.Factories(), 1)
	assert.Len(t, extended.Factories(), 2)

	_, err := base.Adapter(adapt.Named("b"))
	assert.True(t, adapt.IsNoAdapterErr(err))

	_, err = extended.Adapter(adapt.Named("b"))
	assert.NoError(t, err)
}

func TestContext_ConcurrentUse(t *testing.T) {
	ctx := adapt.NewContext(rawFactory("a", nil))

	var wg sync.WaitGroup
	results := make([]adapt.Adapter, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := ctx.Adapter(adapt.Named("a"))
			if err == nil {
				results[i] = a
			}
		}(i)
	}
	wg.Wait()

	for _, a := range results {
		assert.Same(t, results[0], a)
	}
}
