// Test Type: Unit Test
// Description: Tests for foreach/expand - combinations, binding and restoration

package loop_test

import (
	stderrors "errors"
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/filesystem"
	"github.com/arthur-debert/ningen/pkg/loop"
	"github.com/arthur-debert/ningen/pkg/scope"
	"github.com/arthur-debert/ningen/pkg/testutil"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLooper(t *testing.T, ctx *scope.Context, files ...string) *loop.Looper {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, f := range files {
		fsys[f] = &fstest.MapFile{}
	}
	opts := []loop.Option{loop.WithGlobber(filesystem.NewFS(fsys))}
	if ctx != nil {
		opts = append(opts, loop.WithContext(ctx))
	}
	l, err := loop.New(opts...)
	require.NoError(t, err)
	return l
}

// row records what the body saw in the context for names
func row(it loop.Iteration, names ...string) []string {
	out := []string{it.Path}
	for _, name := range names {
		v, _ := it.Context.GetString(name)
		out = append(out, v)
	}
	return out
}

func TestForeach_Capture(t *testing.T) {
	l := newLooper(t, nil, "foo.cc", "bar.cc", "baz.h")

	var rows [][]string
	for it, err := range l.Foreach(values.Scalar("{*name}.cc"), nil) {
		require.NoError(t, err)
		assert.True(t, it.Matched)
		rows = append(rows, row(it, "name"))
	}

	assert.ElementsMatch(t, [][]string{{"foo.cc", "foo"}, {"bar.cc", "bar"}}, rows)
	assert.False(t, l.Context().Has("name"))
}

func TestForeach_CaptureWithValues(t *testing.T) {
	l := newLooper(t, nil, "foo.cc", "bar.cc")
	named := values.NewNamedValues().Add("baz", "1", "2")

	var rows [][]string
	for it, err := range l.Foreach(values.Scalar("{*name}.cc"), named) {
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "baz"}, it.Binding.Names())
		rows = append(rows, row(it, "name", "baz"))
	}

	assert.Equal(t, [][]string{
		{"bar.cc", "bar", "1"},
		{"bar.cc", "bar", "2"},
		{"foo.cc", "foo", "1"},
		{"foo.cc", "foo", "2"},
	}, rows)
}

func TestForeach_ValuesOnly(t *testing.T) {
	l := newLooper(t, nil)
	named := values.NewNamedValues().
		Add("a", "1", "2").
		Add("b", "x", "y")

	var rows [][]string
	for it, err := range l.Foreach(values.None, named) {
		require.NoError(t, err)
		assert.False(t, it.Matched)
		rows = append(rows, row(it, "a", "b"))
	}

	assert.Equal(t, [][]string{
		{"", "1", "x"},
		{"", "1", "y"},
		{"", "2", "x"},
		{"", "2", "y"},
	}, rows)
}

func TestForeach_NothingToDo(t *testing.T) {
	l := newLooper(t, nil, "foo.cc")

	tests := []struct {
		name    string
		pattern values.Value
		named   *values.NamedValues
	}{
		{"no_pattern_no_values", values.None, nil},
		{"empty_pattern_list", values.List(), values.NewNamedValues().Add("a", "1")},
		{"no_matches", values.Scalar("{*name}.h"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := 0
			for _, err := range l.Foreach(tt.pattern, tt.named) {
				require.NoError(t, err)
				count++
			}
			assert.Zero(t, count)
		})
	}
}

func TestForeach_MultiplePatterns(t *testing.T) {
	l := newLooper(t, nil, "foo.cc", "foo.h")

	var paths []string
	for it, err := range l.Foreach(values.List("{*name}.h", "{*name}.cc", "foo.{*ext}"), nil) {
		require.NoError(t, err)
		paths = append(paths, it.Path)
	}
	assert.Equal(t, []string{"foo.h", "foo.cc", "foo.cc", "foo.h"}, paths)
}

func TestForeach_Errors(t *testing.T) {
	l := newLooper(t, nil, "foo.cc", "bar.cc")

	t.Run("naming_collision_before_anything_runs", func(t *testing.T) {
		named := values.NewNamedValues().Add("name", "x")

		var errs []error
		count := 0
		for _, err := range l.Foreach(values.Scalar("{*name}.cc"), named) {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			count++
		}

		assert.Zero(t, count)
		require.Len(t, errs, 1)
		assert.True(t, errors.IsErrorCode(errs[0], errors.ErrNamingCollision))
		assert.Equal(t, "name", errors.GetErrorDetails(errs[0])["name"])
	})

	t.Run("collision_in_a_later_pattern", func(t *testing.T) {
		named := values.NewNamedValues().Add("ext", "x")

		count := 0
		var last error
		for _, err := range l.Foreach(values.List("{*name}.cc", "foo.{*ext}"), named) {
			if err != nil {
				last = err
				continue
			}
			count++
		}
		assert.Zero(t, count)
		assert.True(t, errors.IsErrorCode(last, errors.ErrNamingCollision))
	})

	t.Run("malformed_pattern", func(t *testing.T) {
		err := l.Each(values.Scalar("{*a}{*b}.cc"), nil, func(loop.Iteration) error { return nil })
		assert.True(t, errors.IsErrorCode(err, errors.ErrPattern))
	})

	t.Run("empty_values", func(t *testing.T) {
		named := values.NewNamedValues().Add("mode")
		err := l.Each(values.Scalar("{*name}.cc"), named, func(loop.Iteration) error { return nil })
		assert.True(t, errors.IsErrorCode(err, errors.ErrEmptyValues))
	})
}

func TestForeach_Restoration(t *testing.T) {
	outer := func() *scope.Context {
		ctx := scope.New()
		ctx.Set("name", "outer")
		ctx.Set("unrelated", 42)
		return ctx
	}
	assertRestored := func(t *testing.T, ctx *scope.Context) {
		t.Helper()
		name, _ := ctx.Get("name")
		assert.Equal(t, "outer", name)
		assert.False(t, ctx.Has("mode"))
		assert.Equal(t, []string{"name", "unrelated"}, ctx.Names())
	}
	named := values.NewNamedValues().Add("mode", "debug", "release")

	t.Run("normal_completion", func(t *testing.T) {
		ctx := outer()
		l := newLooper(t, ctx, "foo.cc", "bar.cc")
		for it, err := range l.Foreach(values.Scalar("{*name}.cc"), named) {
			require.NoError(t, err)
			name, _ := ctx.GetString("name")
			assert.Equal(t, it.Path, name+".cc")
			assert.True(t, ctx.Has("mode"))
		}
		assertRestored(t, ctx)
	})

	t.Run("break", func(t *testing.T) {
		ctx := outer()
		l := newLooper(t, ctx, "foo.cc", "bar.cc")
		for range l.Foreach(values.Scalar("{*name}.cc"), named) {
			break
		}
		assertRestored(t, ctx)
	})

	t.Run("error_from_body", func(t *testing.T) {
		ctx := outer()
		l := newLooper(t, ctx, "foo.cc", "bar.cc")
		boom := stderrors.New("boom")

		calls := 0
		err := l.Each(values.Scalar("{*name}.cc"), named, func(loop.Iteration) error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
		assertRestored(t, ctx)
	})

	t.Run("panic_in_body", func(t *testing.T) {
		ctx := outer()
		l := newLooper(t, ctx, "foo.cc", "bar.cc")

		assert.PanicsWithValue(t, "boom", func() {
			for range l.Foreach(values.Scalar("{*name}.cc"), named) {
				panic("boom")
			}
		})
		assertRestored(t, ctx)
	})

	t.Run("body_changes_survive", func(t *testing.T) {
		ctx := outer()
		l := newLooper(t, ctx, "foo.cc")
		for range l.Foreach(values.Scalar("{*name}.cc"), nil) {
			ctx.Set("seen", true)
		}
		assert.True(t, ctx.Has("seen"))
	})
}

func TestForeach_Filter(t *testing.T) {
	fsys := fstest.MapFS{"foo.cc": &fstest.MapFile{}, "bar.cc": &fstest.MapFile{}}
	l, err := loop.New(
		loop.WithGlobber(filesystem.NewFS(fsys)),
		loop.WithFilter(`name != "bar" && mode == "debug"`),
	)
	require.NoError(t, err)

	named := values.NewNamedValues().Add("mode", "debug", "release")
	var rows [][]string
	for it, err := range l.Foreach(values.Scalar("{*name}.cc"), named) {
		require.NoError(t, err)
		rows = append(rows, row(it, "name", "mode"))
	}
	assert.Equal(t, [][]string{{"foo.cc", "foo", "debug"}}, rows)

	_, err = loop.New(loop.WithFilter(`mode ==`))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilter))
}

func TestForeach_RealFilesystem(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"foo.cc": "",
		"bar.cc": "",
	})
	testutil.Chdir(t, root)

	var names []string
	for it, err := range loop.Foreach(values.Scalar("{*name}.cc"), nil) {
		require.NoError(t, err)
		name, _ := it.Context.GetString("name")
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"foo", "bar"}, names)
}

func TestForeach_Afero(t *testing.T) {
	afs := testutil.MemFS(t, map[string]string{"src/app.cc": "", "src/lib.cc": ""})
	l, err := loop.New(loop.WithAfero(afs))
	require.NoError(t, err)

	err = l.Each(values.Scalar("src/{*name}.cc"), nil, func(it loop.Iteration) error {
		name, _ := it.Binding.Get("name")
		assert.Equal(t, "src/"+name+".cc", it.Path)
		return nil
	})
	require.NoError(t, err)
}

func TestNew_NilContext(t *testing.T) {
	_, err := loop.New(loop.WithContext(nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name      string
		templates values.Value
		named     *values.NamedValues
		want      []string
	}{
		{
			name:      "one_value",
			templates: values.Scalar("src/{name}.cc"),
			named:     values.NewNamedValues().Add("name", "foo"),
			want:      []string{"src/foo.cc"},
		},
		{
			name:      "list_of_values",
			templates: values.Scalar("src/{name}.cc"),
			named:     values.NewNamedValues().Add("name", "foo", "bar"),
			want:      []string{"src/foo.cc", "src/bar.cc"},
		},
		{
			name:      "two_names",
			templates: values.Scalar("obj/{mode}/{name}.o"),
			named: values.NewNamedValues().
				Add("mode", "debug", "release").
				Add("name", "foo", "bar"),
			want: []string{"obj/debug/foo.o", "obj/debug/bar.o", "obj/release/foo.o", "obj/release/bar.o"},
		},
		{
			name:      "combination_order_follows_names",
			templates: values.Scalar("{foo}.{bar}"),
			named: values.NewNamedValues().
				Add("foo", "a", "b").
				Add("bar", "1", "2"),
			want: []string{"a.1", "a.2", "b.1", "b.2"},
		},
		{
			name:      "templates_inner",
			templates: values.List("{name}.cc", "{name}.h"),
			named:     values.NewNamedValues().Add("name", "foo", "bar"),
			want:      []string{"foo.cc", "foo.h", "bar.cc", "bar.h"},
		},
		{
			name:      "literal_braces",
			templates: values.List("echo {{x}}", "awk '{{print $1}}' {x}"),
			named:     values.NewNamedValues().Add("x", "1"),
			want:      []string{"echo {x}", "awk '{print $1}' 1"},
		},
		{
			name:      "no_values",
			templates: values.Scalar("x"),
			named:     nil,
			want:      []string{},
		},
		{
			name:      "no_templates",
			templates: values.List(),
			named:     values.NewNamedValues().Add("name", "foo"),
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loop.Expand(tt.templates, tt.named)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	t.Run("unknown_name_discards_partial_result", func(t *testing.T) {
		got, err := loop.Expand(values.List("{name}", "{other}"), values.NewNamedValues().Add("name", "foo"))
		assert.Nil(t, got)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateSubstitution))
	})

	t.Run("stray_close_brace", func(t *testing.T) {
		got, err := loop.Expand(values.Scalar("a}b"), values.NewNamedValues().Add("x", "1"))
		assert.Nil(t, got)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateSubstitution))
	})

	t.Run("empty_values", func(t *testing.T) {
		_, err := loop.Expand(values.Scalar("{name}"), values.NewNamedValues().Add("name"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrEmptyValues))
	})
}

func TestExpand_Filter(t *testing.T) {
	l, err := loop.New(loop.WithFilter(`!(os == "windows" && arch == "arm64")`))
	require.NoError(t, err)

	got, err := l.Expand(values.Scalar("{os}-{arch}"), values.NewNamedValues().
		Add("os", "linux", "windows").
		Add("arch", "amd64", "arm64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"linux-amd64", "linux-arm64", "windows-amd64"}, got)
}
