package plan_test

import (
	"testing"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/loop"
	"github.com/arthur-debert/ningen/pkg/plan"
	"github.com/arthur-debert/ningen/pkg/testutil"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildPlan = `
values:
  mode: [debug, release]
rules:
  - name: compile
    pattern: src/{*name}.cc
    values:
      compiler: [gcc, clang]
    where: mode == "debug" || compiler == "gcc"
    inputs: [src/{name}.cc]
    outputs: obj/{mode}/{compiler}/{name}.o
    command: "{compiler} -c {path} -o {outputs}"
  - name: link
    values:
      target: app
    inputs: obj/{mode}/*.o
    outputs: bin/{mode}/{target}
    command: ld -o {outputs} {inputs}
`

func TestParse(t *testing.T) {
	p, err := plan.Parse([]byte(buildPlan))
	require.NoError(t, err)

	assert.Equal(t, []string{"mode"}, p.Values.Names())
	require.Len(t, p.Rules, 2)

	compile := p.Rules[0]
	assert.Equal(t, "compile", compile.Name)
	assert.Equal(t, []string{"src/{*name}.cc"}, compile.Patterns.Items())
	assert.Equal(t, []string{"compiler"}, compile.Values.Names())
	assert.Equal(t, `mode == "debug" || compiler == "gcc"`, compile.Where)
	assert.Equal(t, []string{"obj/{mode}/{compiler}/{name}.o"}, compile.Outputs.Items())

	link, ok := p.Rule("link")
	require.True(t, ok)
	assert.True(t, link.Patterns.IsNone())

	_, ok = p.Rule("missing")
	assert.False(t, ok)
}

func TestParse_KeepsValueOrder(t *testing.T) {
	p, err := plan.Parse([]byte(`
values:
  zeta: z
  alpha: [a1, a2]
  mid: m
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Values.Names())

	items, ok := p.Values.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"a1", "a2"}, items)
}

func TestParse_Empty(t *testing.T) {
	p, err := plan.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, p.Rules)
	assert.Zero(t, p.Values.Len())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.ErrorCode
	}{
		{"syntax", "rules: [", errors.ErrPlanLoad},
		{"unknown_field", "rulez: []", errors.ErrPlanLoad},
		{"values_not_a_mapping", "values: [a, b]", errors.ErrPlanLoad},
		{"nested_list", "values:\n  a: [[x]]", errors.ErrPlanLoad},
		{"duplicate_value", "values:\n  a: x\n  a: y", errors.ErrPlanLoad},
		{"rule_without_name", "rules:\n  - pattern: x", errors.ErrPlanInvalid},
		{"pattern_and_patterns", "rules:\n  - name: r\n    pattern: a\n    patterns: [b]", errors.ErrPlanInvalid},
		{"duplicate_rule", "rules:\n  - name: r\n  - name: r", errors.ErrPlanInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestLoad(t *testing.T) {
	fs := testutil.MemFS(t, map[string]string{"ningen.yaml": buildPlan})

	p, err := plan.Load(fs, "ningen.yaml")
	require.NoError(t, err)
	assert.Len(t, p.Rules, 2)

	_, err = plan.Load(fs, "missing.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlanLoad))
	assert.Equal(t, "missing.yaml", errors.GetErrorDetails(err)["path"])
}

func TestGenerate(t *testing.T) {
	fs := testutil.MemFS(t, map[string]string{
		"src/app.cc":  "",
		"src/util.cc": "",
		"README.md":   "",
	})
	p, err := plan.Parse([]byte(buildPlan))
	require.NoError(t, err)

	items, err := plan.Generate(p, loop.WithAfero(fs))
	require.NoError(t, err)

	var commands []string
	for _, item := range items {
		commands = append(commands, item.Command)
	}
	assert.Equal(t, []string{
		"gcc -c src/app.cc -o obj/debug/gcc/app.o",
		"clang -c src/app.cc -o obj/debug/clang/app.o",
		"gcc -c src/app.cc -o obj/release/gcc/app.o",
		"gcc -c src/util.cc -o obj/debug/gcc/util.o",
		"clang -c src/util.cc -o obj/debug/clang/util.o",
		"gcc -c src/util.cc -o obj/release/gcc/util.o",
		"ld -o bin/debug/app obj/debug/*.o",
		"ld -o bin/release/app obj/release/*.o",
	}, commands)

	first := items[0]
	assert.Equal(t, "compile", first.Rule)
	assert.Equal(t, "src/app.cc", first.Path)
	assert.Equal(t, []string{"src/app.cc"}, first.Inputs)
	assert.Equal(t, []string{"name", "mode", "compiler"}, first.Binding.Names())

	last := items[len(items)-1]
	assert.Equal(t, "link", last.Rule)
	assert.Empty(t, last.Path)
	assert.Equal(t, []string{"bin/release/app"}, last.Outputs)
}

func TestGenerate_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/app.cc", nil, 0644))

	tests := []struct {
		name string
		doc  string
		code errors.ErrorCode
	}{
		{
			name: "bad_where",
			doc:  "rules:\n  - name: r\n    values: {a: x}\n    where: 'a =='",
			code: errors.ErrPlanInvalid,
		},
		{
			name: "unknown_template_name",
			doc:  "rules:\n  - name: r\n    values: {a: x}\n    outputs: '{b}'",
			code: errors.ErrTemplateSubstitution,
		},
		{
			name: "shared_value_collides_with_capture",
			doc:  "values: {name: x}\nrules:\n  - name: r\n    pattern: 'src/{*name}.cc'",
			code: errors.ErrNamingCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := plan.Parse([]byte(tt.doc))
			require.NoError(t, err)

			_, err = plan.Generate(p, loop.WithAfero(fs))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
			assert.Equal(t, "r", errors.GetErrorDetails(err)["rule"])
		})
	}
}

func TestGenerate_NoValuesNoPattern(t *testing.T) {
	p := &plan.Plan{
		Values: values.NewNamedValues(),
		Rules:  []plan.Rule{{Name: "noop", Command: "true"}},
	}
	items, err := plan.Generate(p)
	require.NoError(t, err)
	assert.Empty(t, items)
}
