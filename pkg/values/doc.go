// Package values holds the value model shared by the matcher, the
// combinatorial driver and the template expander.
//
// A Value is either a single string or an ordered list of strings. Callers
// resolve dynamic input into a Value once, at the API boundary, with Of; the
// rest of the module only ever sees the typed form.
//
// A NamedValues is an ordered mapping from a name to the list of candidate
// values for that name. Its order is the order in which names were added and
// it drives the enumeration order of every combination built from it.
//
// A Binding is one concrete name to value assignment drawn from a
// NamedValues.
package values
