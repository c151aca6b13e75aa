package values

import (
	"fmt"

	"github.com/arthur-debert/ningen/pkg/errors"
)

// Value is a scalar string or an ordered list of strings.
// The zero value is None, meaning "not supplied".
type Value struct {
	items  []string
	set    bool
	scalar bool
}

// None is the absent value.
var None = Value{}

// Scalar wraps a single string.
func Scalar(s string) Value {
	return Value{items: []string{s}, set: true, scalar: true}
}

// List wraps an ordered list of strings. The slice is kept, not copied.
func List(items ...string) Value {
	return Value{items: items, set: true}
}

// IsNone reports whether the value was not supplied at all.
func (v Value) IsNone() bool {
	return !v.set
}

// IsScalar reports whether the value was supplied as a single string.
func (v Value) IsScalar() bool {
	return v.scalar
}

// Items returns the value as a sequence. Lists are returned as given.
func (v Value) Items() []string {
	return v.items
}

// Len returns the number of items in the value.
func (v Value) Len() int {
	return len(v.items)
}

// String implements fmt.Stringer
func (v Value) String() string {
	switch {
	case !v.set:
		return "<none>"
	case v.scalar:
		return v.items[0]
	default:
		return fmt.Sprintf("%q", v.items)
	}
}

// Of converts dynamic input into a Value. Accepted inputs are a string, a
// []string, a []any holding only strings, a Value and nil (None).
func Of(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return None, nil
	case Value:
		return t, nil
	case string:
		return Scalar(t), nil
	case []string:
		return List(t...), nil
	case []any:
		items := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return None, errors.Newf(errors.ErrValueType,
					"item %d is %T, expected a string", i, item).
					WithDetail("index", i)
			}
			items = append(items, s)
		}
		return List(items...), nil
	default:
		return None, errors.Newf(errors.ErrValueType,
			"value of type %T is neither a string nor a list of strings", v)
	}
}
