package plan

import (
	stderrors "errors"
	"strings"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/format"
	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/arthur-debert/ningen/pkg/loop"
	"github.com/arthur-debert/ningen/pkg/values"
)

// Item is one unit of work generated by a rule
type Item struct {
	Rule    string
	Path    string
	Binding values.Binding
	Inputs  []string
	Outputs []string
	Command string
}

// Generate runs every rule of p and returns the items in rule order. opts
// configure the loop of each rule; a rule's where clause is added as its
// filter.
func Generate(p *Plan, opts ...loop.Option) ([]Item, error) {
	logger := logging.GetLogger("plan")
	done := logging.LogOperationStart(logger, "generate")
	defer done()

	var items []Item
	for _, r := range p.Rules {
		generated, err := r.generate(p.Values, opts)
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("rule", r.Name).
			Int("items", len(generated)).
			Msg("Rule generated")
		items = append(items, generated...)
	}
	return items, nil
}

func (r Rule) generate(shared *values.NamedValues, opts []loop.Option) ([]Item, error) {
	l, err := loop.New(append(opts[:len(opts):len(opts)], loop.WithFilter(r.Where))...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPlanInvalid, "rule %q has an invalid where clause", r.Name).
			WithDetail("rule", r.Name)
	}

	named := shared.Merge(r.Values)

	var items []Item
	err = l.Each(r.Patterns, named, func(it loop.Iteration) error {
		item, err := r.item(it)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, withRule(err, r.Name)
	}
	return items, nil
}

// withRule names the failing rule on err. Errors outside the NingenError
// family are wrapped as internal errors so the detail is not lost.
func withRule(err error, rule string) error {
	var ne *errors.NingenError
	if stderrors.As(err, &ne) {
		ne.WithDetail("rule", rule)
		return err
	}
	return errors.Wrapf(err, errors.ErrInternal, "rule %q failed", rule).
		WithDetail("rule", rule)
}

// item expands the rule's templates for one iteration
func (r Rule) item(it loop.Iteration) (Item, error) {
	lookup := func(name string) (string, bool) {
		if v, ok := it.Binding.Get(name); ok {
			return v, true
		}
		if name == "path" && it.Matched {
			return it.Path, true
		}
		return "", false
	}

	inputs, err := expandAll(r.Inputs, lookup)
	if err != nil {
		return Item{}, err
	}
	outputs, err := expandAll(r.Outputs, lookup)
	if err != nil {
		return Item{}, err
	}

	var command string
	if r.Command != "" {
		command, err = format.FormatFunc(r.Command, func(name string) (string, bool) {
			if v, ok := lookup(name); ok {
				return v, true
			}
			switch name {
			case "inputs":
				return strings.Join(inputs, " "), true
			case "outputs":
				return strings.Join(outputs, " "), true
			}
			return "", false
		})
		if err != nil {
			return Item{}, err
		}
	}

	return Item{
		Rule:    r.Name,
		Path:    it.Path,
		Binding: it.Binding,
		Inputs:  inputs,
		Outputs: outputs,
		Command: command,
	}, nil
}

func expandAll(templates values.Value, lookup format.Lookup) ([]string, error) {
	out := make([]string, 0, templates.Len())
	for _, t := range templates.Items() {
		s, err := format.FormatFunc(t, lookup)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
