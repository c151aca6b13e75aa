// Package filter decides which combinations a loop keeps.
//
// A filter is an expr-lang boolean expression evaluated once per
// combination, before the combination is bound. Its environment is the
// execution context with the combination's binding on top, so
//
//	mode == "debug" || compiler != "clang"
//
// drops the release builds made with clang. Names the expression uses but
// the environment lacks evaluate to nil.
package filter

import (
	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled combination filter
type Filter struct {
	source  string
	program *vm.Program
}

// Compile compiles a filter expression.
func Compile(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilter, "invalid filter %q", source).
			WithDetail("filter", source)
	}
	return &Filter{source: source, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	return f.source
}

// Accept evaluates the filter for binding b over env. env is not modified.
func (f *Filter) Accept(env map[string]any, b values.Binding) (bool, error) {
	scoped := make(map[string]any, len(env)+b.Len())
	for k, v := range env {
		scoped[k] = v
	}
	for _, name := range b.Names() {
		v, _ := b.Get(name)
		scoped[name] = v
	}

	out, err := expr.Run(f.program, scoped)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFilter, "filter %q failed for %s", f.source, b).
			WithDetail("filter", f.source)
	}

	accepted, ok := out.(bool)
	if !ok {
		return false, errors.Newf(errors.ErrFilter,
			"filter %q returned %T, expected a boolean", f.source, out).
			WithDetail("filter", f.source)
	}
	return accepted, nil
}
