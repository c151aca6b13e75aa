// Package plan loads build plans and turns them into work items.
//
// A plan is a YAML file listing rules. Each rule is one foreach loop: its
// capture patterns and values drive the combinations, and every combination
// becomes an Item with the rule's inputs, outputs and command expanded.
//
//	values:
//	  mode: [debug, release]
//	rules:
//	  - name: compile
//	    pattern: src/{*name}.cc
//	    values:
//	      compiler: [gcc, clang]
//	    where: mode == "debug" || compiler == "gcc"
//	    inputs: [src/{name}.cc, src/{name}.h]
//	    outputs: obj/{mode}/{compiler}/{name}.o
//	    command: "{compiler} -c {path} -o {outputs}"
//
// Mapping order is significant: values are combined in the order they are
// written, plan values first and rule values after them. Besides the bound
// names, templates may use {path} for the matched path and, in commands
// only, {inputs} and {outputs} for the space separated expansions.
package plan

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Plan is a parsed build plan
type Plan struct {
	// Values are shared by every rule.
	Values *values.NamedValues
	Rules  []Rule
}

// Rule describes one loop of a plan
type Rule struct {
	Name string
	// Patterns is values.None for a values-only rule.
	Patterns values.Value
	Values   *values.NamedValues
	Where    string
	Inputs   values.Value
	Outputs  values.Value
	Command  string
}

// planFile mirrors the YAML layout
type planFile struct {
	Values namedField `yaml:"values"`
	Rules  []ruleFile `yaml:"rules"`
}

type ruleFile struct {
	Name     string     `yaml:"name"`
	Pattern  valueField `yaml:"pattern"`
	Patterns valueField `yaml:"patterns"`
	Values   namedField `yaml:"values"`
	Where    string     `yaml:"where"`
	Inputs   valueField `yaml:"inputs"`
	Outputs  valueField `yaml:"outputs"`
	Command  string     `yaml:"command"`
}

// valueField decodes a string or a list of strings
type valueField struct {
	values.Value
}

func (f *valueField) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeValue(node)
	if err != nil {
		return err
	}
	f.Value = v
	return nil
}

// namedField decodes a mapping of name to value, keeping document order
type namedField struct {
	*values.NamedValues
}

func (f *namedField) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: values must be a mapping of name to value", node.Line)
	}

	nv := values.NewNamedValues()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if nv.Has(key.Value) {
			return fmt.Errorf("line %d: duplicate value %q", key.Line, key.Value)
		}
		v, err := decodeValue(val)
		if err != nil {
			return fmt.Errorf("value %q: %w", key.Value, err)
		}
		nv.Put(key.Value, v)
	}
	f.NamedValues = nv
	return nil
}

func decodeValue(node *yaml.Node) (values.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return values.None, nil
		}
		return values.Scalar(node.Value), nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return values.None, fmt.Errorf("line %d: list items must be strings", item.Line)
			}
			items = append(items, item.Value)
		}
		return values.List(items...), nil
	default:
		return values.None, fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// Load reads and parses the plan at path.
func Load(fs afero.Fs, path string) (*Plan, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPlanLoad, "cannot read plan %s", path).
			WithDetail("path", path)
	}

	p, err := Parse(data)
	if err != nil {
		if ne, ok := err.(*errors.NingenError); ok {
			ne.WithDetail("path", path)
		}
		return nil, err
	}
	return p, nil
}

// Parse parses a plan document.
func Parse(data []byte) (*Plan, error) {
	var raw planFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrPlanLoad, "cannot parse plan")
	}

	p := &Plan{Values: orEmpty(raw.Values.NamedValues)}
	seen := make(map[string]bool, len(raw.Rules))
	for i, r := range raw.Rules {
		rule, err := r.rule()
		if err != nil {
			return nil, err.WithDetail("index", i)
		}
		if seen[rule.Name] {
			return nil, errors.Newf(errors.ErrPlanInvalid, "duplicate rule %q", rule.Name).
				WithDetail("rule", rule.Name)
		}
		seen[rule.Name] = true
		p.Rules = append(p.Rules, rule)
	}
	return p, nil
}

func (r ruleFile) rule() (Rule, *errors.NingenError) {
	invalid := func(format string, args ...any) *errors.NingenError {
		return errors.Newf(errors.ErrPlanInvalid, format, args...).WithDetail("rule", r.Name)
	}

	if r.Name == "" {
		return Rule{}, invalid("rule without a name")
	}
	if !r.Pattern.IsNone() && !r.Patterns.IsNone() {
		return Rule{}, invalid("rule %q sets both pattern and patterns", r.Name)
	}

	patterns := r.Pattern.Value
	if patterns.IsNone() {
		patterns = r.Patterns.Value
	}

	return Rule{
		Name:     r.Name,
		Patterns: patterns,
		Values:   orEmpty(r.Values.NamedValues),
		Where:    r.Where,
		Inputs:   r.Inputs.Value,
		Outputs:  r.Outputs.Value,
		Command:  r.Command,
	}, nil
}

func orEmpty(nv *values.NamedValues) *values.NamedValues {
	if nv == nil {
		return values.NewNamedValues()
	}
	return nv
}

// Rule returns the rule called name.
func (p *Plan) Rule(name string) (Rule, bool) {
	for _, r := range p.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}
