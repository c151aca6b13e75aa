package loop

import (
	"iter"

	"github.com/arthur-debert/ningen/pkg/capture"
	"github.com/arthur-debert/ningen/pkg/combine"
	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/filesystem"
	"github.com/arthur-debert/ningen/pkg/filter"
	"github.com/arthur-debert/ningen/pkg/format"
	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/arthur-debert/ningen/pkg/scope"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Iteration is what the loop body receives for one combination
type Iteration struct {
	// Path is the matched path. It is empty in values-only mode.
	Path string
	// Matched is false in values-only mode.
	Matched bool
	// Binding holds the captured parts followed by the supplied values.
	Binding values.Binding
	// Context is the execution context with Binding applied.
	Context *scope.Context
}

// Looper runs loops against one filesystem and one execution context
type Looper struct {
	matcher *capture.Matcher
	ctx     *scope.Context
	filter  *filter.Filter
	logger  zerolog.Logger
}

// Option configures a Looper
type Option func(*Looper) error

// WithGlobber enumerates capture patterns through g.
func WithGlobber(g filesystem.Globber) Option {
	return func(l *Looper) error {
		l.matcher = capture.NewMatcher(g)
		return nil
	}
}

// WithRoot resolves relative capture patterns under root on the OS
// filesystem.
func WithRoot(root string) Option {
	return WithGlobber(filesystem.NewOS(root))
}

// WithAfero enumerates capture patterns in an afero filesystem.
func WithAfero(afs afero.Fs) Option {
	return WithGlobber(filesystem.NewAfero(afs))
}

// WithContext binds into ctx instead of a fresh context.
func WithContext(ctx *scope.Context) Option {
	return func(l *Looper) error {
		if ctx == nil {
			return errors.New(errors.ErrInvalidInput, "nil execution context")
		}
		l.ctx = ctx
		return nil
	}
}

// WithFilter skips the combinations for which the expression is false. An
// empty expression keeps every combination.
func WithFilter(expression string) Option {
	return func(l *Looper) error {
		if expression == "" {
			l.filter = nil
			return nil
		}
		f, err := filter.Compile(expression)
		if err != nil {
			return err
		}
		l.filter = f
		return nil
	}
}

// New creates a Looper. Without options it matches against the current
// directory and binds into a fresh context.
func New(opts ...Option) (*Looper, error) {
	l := &Looper{
		logger: logging.GetLogger("loop"),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	if l.matcher == nil {
		l.matcher = capture.NewMatcher(filesystem.NewOS("."))
	}
	if l.ctx == nil {
		l.ctx = scope.New()
	}
	return l, nil
}

// Context returns the execution context loops bind into.
func (l *Looper) Context() *scope.Context {
	return l.ctx
}

// Foreach returns the loop over every combination of the captures of
// pattern and the values of named.
//
// pattern is a single capture pattern or a list of them; the captures of a
// list are concatenated in pattern order. With values.None the loop runs
// once per combination of named alone and yields no path, and with neither a
// pattern nor named values it runs zero times. An empty pattern list also
// runs zero times.
//
// Validation errors are yielded once, before any combination: a malformed
// pattern, a name of named that is also a captured part, or a name without
// values. A filter error stops the loop after it is yielded.
//
// The context holds the combination's binding while the loop body runs and
// is restored when the body finishes the iteration, breaks out or panics.
func (l *Looper) Foreach(pattern values.Value, named *values.NamedValues) iter.Seq2[Iteration, error] {
	return func(yield func(Iteration, error) bool) {
		done := logging.LogOperationStart(l.logger, "foreach")
		defer done()

		captures, err := l.captures(pattern, named)
		if err != nil {
			yield(Iteration{}, err)
			return
		}

		for _, c := range captures {
			var merged *values.NamedValues
			if c.Matched {
				merged = c.Parts.NamedValues().Merge(named)
			} else {
				merged = named.Clone()
			}

			combinations, err := combine.Combinations(merged)
			if err != nil {
				yield(Iteration{}, err)
				return
			}

			for b := range combinations {
				keep, err := l.accept(b)
				if err != nil {
					yield(Iteration{}, err)
					return
				}
				if !keep {
					l.logger.Trace().Str("binding", b.String()).Msg("Combination filtered out")
					continue
				}
				if !l.step(c.Path, c.Matched, b, yield) {
					return
				}
			}
		}
	}
}

// step binds b, yields one iteration and restores the context on the way
// out, including when yield panics.
func (l *Looper) step(path string, matched bool, b values.Binding, yield func(Iteration, error) bool) bool {
	restore := l.ctx.Bind(b)
	defer restore()

	l.logger.Trace().
		Str("path", path).
		Str("binding", b.String()).
		Msg("Running iteration")

	return yield(Iteration{Path: path, Matched: matched, Binding: b, Context: l.ctx}, nil)
}

// match is a capture, or the single pathless entry of values-only mode
type match struct {
	Path    string
	Matched bool
	Parts   values.Binding
}

// captures resolves pattern into matches and validates named against them
// before anything runs.
func (l *Looper) captures(pattern values.Value, named *values.NamedValues) ([]match, error) {
	if _, err := combine.Combinations(named); err != nil {
		return nil, err
	}

	if pattern.IsNone() {
		if named.Len() == 0 {
			return nil, nil
		}
		return []match{{}}, nil
	}

	patterns := pattern.Items()
	if len(patterns) == 0 {
		return nil, nil
	}

	found, err := l.matcher.MatchAll(patterns)
	if err != nil {
		return nil, err
	}

	matches := make([]match, 0, len(found))
	for _, c := range found {
		for _, name := range named.Names() {
			if c.Parts.Has(name) {
				return nil, errors.Newf(errors.ErrNamingCollision,
					"value %q overrides a part captured by %q", name, c.Pattern.String()).
					WithDetail("name", name).
					WithDetail("pattern", c.Pattern.String())
			}
		}
		matches = append(matches, match{Path: c.Path, Matched: true, Parts: c.Parts})
	}

	l.logger.Debug().
		Strs("patterns", patterns).
		Int("captures", len(matches)).
		Msg("Resolved captures")

	return matches, nil
}

// accept applies the filter, if any, to b over the current context
func (l *Looper) accept(b values.Binding) (bool, error) {
	if l.filter == nil {
		return true, nil
	}
	return l.filter.Accept(l.ctx.Snapshot(), b)
}

// Each calls fn once per iteration of Foreach. An error from fn stops the
// loop and is returned after the context is restored.
func (l *Looper) Each(pattern values.Value, named *values.NamedValues, fn func(Iteration) error) error {
	for it, err := range l.Foreach(pattern, named) {
		if err != nil {
			return err
		}
		if err := fn(it); err != nil {
			return err
		}
	}
	return nil
}

// Expand formats every template with every combination of named. Results
// are ordered by combination first and template second. Empty templates or
// an empty named set give an empty result, and any failure discards the
// partial result.
func (l *Looper) Expand(templates values.Value, named *values.NamedValues) ([]string, error) {
	items := templates.Items()
	results := []string{}
	if len(items) == 0 || named.Len() == 0 {
		return results, nil
	}

	combinations, err := combine.Combinations(named)
	if err != nil {
		return nil, err
	}

	for b := range combinations {
		keep, err := l.accept(b)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		for _, template := range items {
			s, err := format.Format(template, b)
			if err != nil {
				return nil, err
			}
			results = append(results, s)
		}
	}

	l.logger.Debug().
		Int("templates", len(items)).
		Int("results", len(results)).
		Msg("Expanded templates")

	return results, nil
}

// defaultOptions configure the Looper behind the package-level functions
var defaultOptions []Option

// Foreach runs Looper.Foreach against the current directory with a fresh
// context. A failure to build the Looper is yielded as the only error.
func Foreach(pattern values.Value, named *values.NamedValues) iter.Seq2[Iteration, error] {
	l, err := New(defaultOptions...)
	if err != nil {
		return func(yield func(Iteration, error) bool) {
			yield(Iteration{}, err)
		}
	}
	return l.Foreach(pattern, named)
}

// Expand runs Looper.Expand without a filter.
func Expand(templates values.Value, named *values.NamedValues) ([]string, error) {
	l, err := New(defaultOptions...)
	if err != nil {
		return nil, err
	}
	return l.Expand(templates, named)
}
