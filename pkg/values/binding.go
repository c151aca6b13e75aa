package values

import "strings"

// Binding is one concrete assignment of a value to every name of a
// NamedValues, in the set's name order.
type Binding struct {
	names  []string
	values map[string]string
}

// NewBinding builds a binding from parallel name and value slices.
func NewBinding(names []string, vals []string) Binding {
	b := Binding{
		names:  make([]string, 0, len(names)),
		values: make(map[string]string, len(names)),
	}
	for i, name := range names {
		if _, exists := b.values[name]; !exists {
			b.names = append(b.names, name)
		}
		b.values[name] = vals[i]
	}
	return b
}

// Names returns the bound names in order.
func (b Binding) Names() []string {
	return b.names
}

// Get returns the value bound to name.
func (b Binding) Get(name string) (string, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Has reports whether name is bound.
func (b Binding) Has(name string) bool {
	_, ok := b.values[name]
	return ok
}

// Len returns the number of bound names.
func (b Binding) Len() int {
	return len(b.names)
}

// Map returns a copy of the binding as a plain map.
func (b Binding) Map() map[string]string {
	out := make(map[string]string, len(b.names))
	for _, name := range b.names {
		out[name] = b.values[name]
	}
	return out
}

// Values returns the bound values in name order.
func (b Binding) Values() []string {
	out := make([]string, len(b.names))
	for i, name := range b.names {
		out[i] = b.values[name]
	}
	return out
}

// NamedValues turns the binding into a set with one candidate per name.
func (b Binding) NamedValues() *NamedValues {
	nv := NewNamedValues()
	for _, name := range b.names {
		nv.Add(name, b.values[name])
	}
	return nv
}

// String renders the binding as "name=value" pairs.
func (b Binding) String() string {
	parts := make([]string, len(b.names))
	for i, name := range b.names {
		parts[i] = name + "=" + b.values[name]
	}
	return strings.Join(parts, " ")
}
