// Test Type: Unit Test
// Description: Tests for the matcher - enumerating and capturing filesystem paths

package capture_test

import (
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/ningen/pkg/capture"
	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/filesystem"
	"github.com/arthur-debert/ningen/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memMatcher(files ...string) *capture.Matcher {
	fsys := fstest.MapFS{}
	for _, f := range files {
		fsys[f] = &fstest.MapFile{}
	}
	return capture.NewMatcher(filesystem.NewFS(fsys))
}

func paths(captures []capture.Capture) []string {
	out := make([]string, len(captures))
	for i, c := range captures {
		out[i] = c.Path
	}
	return out
}

func TestMatcher_Match(t *testing.T) {
	t.Run("captures_name_per_file", func(t *testing.T) {
		m := memMatcher("foo.cc", "bar.cc", "baz.h")

		captures, err := m.Match("{*name}.cc")
		require.NoError(t, err)
		require.Len(t, captures, 2)

		assert.Equal(t, "bar.cc", captures[0].Path)
		name, _ := captures[0].Parts.Get("name")
		assert.Equal(t, "bar", name)

		assert.Equal(t, "foo.cc", captures[1].Path)
		name, _ = captures[1].Parts.Get("name")
		assert.Equal(t, "foo", name)
	})

	t.Run("nested_directories", func(t *testing.T) {
		m := memMatcher("src/net/http.cc", "src/net/tcp.cc", "src/fs/io.cc", "src/main.cc")

		captures, err := m.Match("src/{*module}/{*name}.cc")
		require.NoError(t, err)
		assert.Equal(t, []string{"src/fs/io.cc", "src/net/http.cc", "src/net/tcp.cc"}, paths(captures))
		assert.Equal(t, map[string]string{"module": "fs", "name": "io"}, captures[0].Parts.Map())
	})

	t.Run("multi_segment_requires_a_segment", func(t *testing.T) {
		m := memMatcher("lib/BUILD", "lib/a/BUILD", "lib/a/b/BUILD")

		captures, err := m.Match("lib/{**dir}/BUILD")
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/a/BUILD", "lib/a/b/BUILD"}, paths(captures))
		dir, _ := captures[1].Parts.Get("dir")
		assert.Equal(t, "a/b", dir)
	})

	t.Run("literal_pattern_is_an_existence_check", func(t *testing.T) {
		m := memMatcher("Makefile")

		captures, err := m.Match("Makefile")
		require.NoError(t, err)
		require.Len(t, captures, 1)
		assert.Equal(t, 0, captures[0].Parts.Len())

		captures, err = m.Match("GNUmakefile")
		require.NoError(t, err)
		assert.Empty(t, captures)
	})

	t.Run("no_matches", func(t *testing.T) {
		captures, err := memMatcher("foo.h").Match("{*name}.cc")
		require.NoError(t, err)
		assert.Empty(t, captures)
	})

	t.Run("malformed_pattern", func(t *testing.T) {
		_, err := memMatcher().Match("{*a}{*b}")
		assert.True(t, errors.IsErrorCode(err, errors.ErrPattern))
	})

	t.Run("round_trip", func(t *testing.T) {
		m := memMatcher("a.x.cc", "b-c.cc", "d.cc")
		captures, err := m.Match("{*name}.cc")
		require.NoError(t, err)
		for _, c := range captures {
			again, ok := c.Pattern.Extract(c.Path)
			require.True(t, ok)
			assert.Equal(t, c.Parts.Map(), again.Map())
		}
	})
}

func TestMatcher_MatchAll(t *testing.T) {
	m := memMatcher("foo.cc", "foo.h", "bar.cc")

	t.Run("union_in_pattern_order", func(t *testing.T) {
		captures, err := m.MatchAll([]string{"{*name}.h", "{*name}.cc"})
		require.NoError(t, err)
		assert.Equal(t, []string{"foo.h", "bar.cc", "foo.cc"}, paths(captures))
	})

	t.Run("duplicates_are_kept", func(t *testing.T) {
		captures, err := m.MatchAll([]string{"foo.{*ext}", "{*name}.cc"})
		require.NoError(t, err)
		assert.Equal(t, []string{"foo.cc", "foo.h", "bar.cc", "foo.cc"}, paths(captures))
	})

	t.Run("malformed_pattern_fails_before_matching", func(t *testing.T) {
		_, err := m.MatchAll([]string{"{*name}.cc", "{*bad"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrPattern))
	})
}

func TestMatcher_OS(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"foo.cc":     "",
		"bar.cc":     "",
		"src/baz.cc": "",
	})

	m := capture.NewMatcher(filesystem.NewOS(root))
	captures, err := m.Match("{*name}.cc")
	require.NoError(t, err)
	assert.Equal(t, []string{"bar.cc", "foo.cc"}, paths(captures))

	captures, err = m.Match("src/{*name}.cc")
	require.NoError(t, err)
	require.Len(t, captures, 1)
	assert.Equal(t, "src/baz.cc", captures[0].Path)
}
