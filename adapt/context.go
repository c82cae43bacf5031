package adapt

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Context is the shared deserialization context handed to factories and to
// adapters that need to look up adapters for nested types.
//
// Factories are consulted in order; the first non-nil adapter wins and is
// cached per type and qualifier set. A Context is safe for concurrent use.
type Context struct {
	factories []Factory

	mu    sync.Mutex
	cache map[string]Adapter
}

// NewContext returns a Context consulting factories in the given order.
func NewContext(factories ...Factory) *Context {
	return &Context{
		factories: slices.Clone(factories),
		cache:     make(map[string]Adapter),
	}
}

// With returns a new Context that consults c's factories followed by the
// given ones. The new Context starts with an empty cache.
func (c *Context) With(factories ...Factory) *Context {
	return NewContext(append(slices.Clone(c.factories), factories...)...)
}

// Factories returns the factory chain in consultation order.
func (c *Context) Factories() []Factory {
	return slices.Clone(c.factories)
}

// Adapter returns the adapter for t, asking each factory in turn.
//
// Factories are called without holding the cache lock so an adapter
// constructor may itself call Adapter for nested types.
func (c *Context) Adapter(t Type, qualifiers ...string) (Adapter, error) {
	key := cacheKey(t, qualifiers)

	c.mu.Lock()
	if a, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return a, nil
	}
	c.mu.Unlock()

	for _, f := range c.factories {
		a := f.Create(t, qualifiers, c)
		if a == nil {
			continue
		}

		c.mu.Lock()
		if existing, ok := c.cache[key]; ok {
			a = existing
		} else {
			c.cache[key] = a
		}
		c.mu.Unlock()
		return a, nil
	}

	if len(qualifiers) > 0 {
		return nil, fmt.Errorf("%w for %s annotated with %s", ErrNoAdapter, t, strings.Join(qualifiers, ", "))
	}
	return nil, fmt.Errorf("%w for %s", ErrNoAdapter, t)
}

// cacheKey identifies a request independently of qualifier order.
func cacheKey(t Type, qualifiers []string) string {
	if len(qualifiers) == 0 {
		return t.String()
	}
	q := slices.Clone(qualifiers)
	slices.Sort(q)
	return t.String() + "@" + strings.Join(q, "@")
}
