package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helpFS() fstest.MapFS {
	return fstest.MapFS{
		"patterns.md":     {Data: []byte("# Patterns\n\nCapture syntax")},
		"option-where.md": {Data: []byte("# --where\n\nFilter expressions")},
		"notes.txt":       {Data: []byte("plain notes")},
		"nested/plans.md": {Data: []byte("# Plans")},
		"ignore.json":     {Data: []byte("{}")},
	}
}

func TestTopicManager_Scan(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
		content  string
	}{
		{"patterns", true, "# Patterns\n\nCapture syntax"},
		{"notes", true, "plain notes"},
		{"plans", true, "# Plans"},
		{"ignore", false, ""},
	}

	tm := New(helpFS(), Options{})
	require.NoError(t, tm.Scan())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.name)
			assert.Equal(t, tt.expected, exists)
			if exists {
				assert.Equal(t, tt.content, topic.Content)
			}
		})
	}

	t.Run("custom_extensions", func(t *testing.T) {
		tm := New(helpFS(), Options{Extensions: []string{".json"}})
		require.NoError(t, tm.Scan())
		assert.Equal(t, []string{"ignore"}, tm.ListTopics())
	})
}

func TestTopicManager_GetTopic(t *testing.T) {
	tm := New(helpFS(), Options{})
	require.NoError(t, tm.Scan())

	for _, name := range []string{"where", "--where", "-where", "option-where"} {
		t.Run(name, func(t *testing.T) {
			topic, exists := tm.GetTopic(name)
			require.True(t, exists)
			assert.Equal(t, "option-where", topic.Name)
		})
	}

	_, exists := tm.GetTopic("missing")
	assert.False(t, exists)
}

func TestTopicManager_WriteList(t *testing.T) {
	tm := New(helpFS(), Options{})
	require.NoError(t, tm.Scan())

	var buf bytes.Buffer
	tm.WriteList(&buf, "ningen")
	out := buf.String()

	assert.Contains(t, out, "General topics:\n  notes\n  patterns\n  plans\n")
	assert.Contains(t, out, "Option topics:\n  --where\n")
	assert.Contains(t, out, "Use 'ningen help <topic>'")

	buf.Reset()
	New(fstest.MapFS{}, Options{}).WriteList(&buf, "ningen")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

func TestInitialize(t *testing.T) {
	root := &cobra.Command{Use: "ningen"}
	root.AddCommand(&cobra.Command{Use: "expand", Short: "Expand templates", Run: func(*cobra.Command, []string) {}})

	_, err := Initialize(root, helpFS(), Options{})
	require.NoError(t, err)

	run := func(args ...string) string {
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	t.Run("topic", func(t *testing.T) {
		assert.Equal(t, "plain notes", run("help", "notes"))
	})

	t.Run("topic_list", func(t *testing.T) {
		assert.Contains(t, run("help", "topics"), "patterns")
	})

	t.Run("command_help", func(t *testing.T) {
		assert.Contains(t, run("help", "expand"), "Expand templates")
	})
}

func TestGlamourRenderer(t *testing.T) {
	r := NewGlamourRenderer(false)
	assert.Equal(t, "notty", r.Style)

	assert.Equal(t, "plain", r.Render("plain", ".txt"))

	out := r.Render("# Title\n\nSome *text*.", ".md")
	assert.Contains(t, out, "Title")
	assert.True(t, strings.Contains(out, "text"))
	assert.NotContains(t, out, "\x1b[")
}
