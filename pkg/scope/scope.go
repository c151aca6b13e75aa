// Package scope provides the execution context loop bodies read their
// bindings from.
//
// A Context is a plain mutable namespace. Bind installs one binding and
// returns the function that undoes it; callers defer that function so the
// namespace is restored however the body exits.
package scope

import (
	"maps"
	"slices"

	"github.com/arthur-debert/ningen/pkg/values"
)

// Context is a mutable name to value namespace. It is not safe for
// concurrent use.
type Context struct {
	vars map[string]any
}

// New creates an empty context
func New() *Context {
	return &Context{vars: make(map[string]any)}
}

// NewFrom creates a context holding a copy of vars
func NewFrom(vars map[string]any) *Context {
	c := New()
	maps.Copy(c.vars, vars)
	return c
}

// Get returns the value of name.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// GetString returns the value of name when it is a string.
func (c *Context) GetString(name string) (string, bool) {
	v, ok := c.vars[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether name exists.
func (c *Context) Has(name string) bool {
	_, ok := c.vars[name]
	return ok
}

// Set assigns value to name.
func (c *Context) Set(name string, value any) {
	c.vars[name] = value
}

// Delete removes name.
func (c *Context) Delete(name string) {
	delete(c.vars, name)
}

// Names returns the defined names, sorted.
func (c *Context) Names() []string {
	return slices.Sorted(maps.Keys(c.vars))
}

// Snapshot returns a copy of the namespace.
func (c *Context) Snapshot() map[string]any {
	return maps.Clone(c.vars)
}

// prior is what a name held before a Bind
type prior struct {
	name    string
	value   any
	existed bool
}

// Bind assigns every name of b and returns a function restoring each of
// those names to its previous value, or removing it if it did not exist.
// The returned function must be called exactly once.
func (c *Context) Bind(b values.Binding) (restore func()) {
	saved := make([]prior, 0, b.Len())
	for _, name := range b.Names() {
		old, existed := c.vars[name]
		saved = append(saved, prior{name: name, value: old, existed: existed})
		v, _ := b.Get(name)
		c.vars[name] = v
	}

	return func() {
		for _, p := range saved {
			if p.existed {
				c.vars[p.name] = p.value
			} else {
				delete(c.vars, p.name)
			}
		}
	}
}
