package values

import (
	"strings"

	"github.com/arthur-debert/ningen/pkg/errors"
)

// NamedValues is an ordered mapping of name to candidate values.
type NamedValues struct {
	names  []string
	values map[string][]string
}

// NewNamedValues creates an empty set
func NewNamedValues() *NamedValues {
	return &NamedValues{values: make(map[string][]string)}
}

// Add sets name to the given items. A name that is already present keeps its
// position and has its values replaced.
func (nv *NamedValues) Add(name string, items ...string) *NamedValues {
	return nv.Put(name, List(items...))
}

// Put sets name to the items of v.
func (nv *NamedValues) Put(name string, v Value) *NamedValues {
	if nv.values == nil {
		nv.values = make(map[string][]string)
	}
	if _, exists := nv.values[name]; !exists {
		nv.names = append(nv.names, name)
	}
	nv.values[name] = v.Items()
	return nv
}

// FromPairs builds a set from alternating name, value arguments. Each value
// goes through Of, so it may be a string, a []string or a Value.
func FromPairs(kv ...any) (*NamedValues, error) {
	if len(kv)%2 != 0 {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"odd number of arguments (%d), expected name/value pairs", len(kv))
	}

	nv := NewNamedValues()
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"argument %d is %T, expected a name", i, kv[i])
		}
		if nv.Has(name) {
			return nil, errors.Newf(errors.ErrInvalidInput, "duplicate name %q", name).
				WithDetail("name", name)
		}
		v, err := Of(kv[i+1])
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrValueType, "value of %q", name).
				WithDetail("name", name)
		}
		nv.Put(name, v)
	}
	return nv, nil
}

// ParseAssignments parses "name=a,b" entries. Entries for a name seen before
// append to its values. An entry with nothing after "=" binds the empty
// string.
func ParseAssignments(assignments []string) (*NamedValues, error) {
	nv := NewNamedValues()
	for _, assignment := range assignments {
		name, rest, ok := strings.Cut(assignment, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"invalid assignment %q, expected name=value[,value...]", assignment).
				WithDetail("assignment", assignment)
		}
		items := strings.Split(rest, ",")
		if existing, found := nv.Get(name); found {
			items = append(append([]string{}, existing...), items...)
		}
		nv.Add(name, items...)
	}
	return nv, nil
}

// Names returns the names in insertion order.
func (nv *NamedValues) Names() []string {
	if nv == nil {
		return nil
	}
	return nv.names
}

// Get returns the candidate values for name.
func (nv *NamedValues) Get(name string) ([]string, bool) {
	if nv == nil {
		return nil, false
	}
	items, ok := nv.values[name]
	return items, ok
}

// Has reports whether name is present.
func (nv *NamedValues) Has(name string) bool {
	_, ok := nv.Get(name)
	return ok
}

// Len returns the number of names.
func (nv *NamedValues) Len() int {
	if nv == nil {
		return 0
	}
	return len(nv.names)
}

// Clone returns a copy whose name order can be extended independently.
func (nv *NamedValues) Clone() *NamedValues {
	out := NewNamedValues()
	for _, name := range nv.Names() {
		items, _ := nv.Get(name)
		out.Put(name, List(items...))
	}
	return out
}

// Merge returns a new set with the names of nv followed by the names of
// other. Names of other replace the values of names already in nv.
func (nv *NamedValues) Merge(other *NamedValues) *NamedValues {
	out := nv.Clone()
	for _, name := range other.Names() {
		items, _ := other.Get(name)
		out.Put(name, List(items...))
	}
	return out
}
