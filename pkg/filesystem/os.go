package filesystem

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// osGlobber implements Globber on the OS filesystem
type osGlobber struct {
	root string
}

// NewOS creates a Globber on the OS filesystem. Relative patterns resolve
// under root and results keep the pattern's relative form; absolute patterns
// are used as given.
func NewOS(root string) Globber {
	if root == "" {
		root = "."
	}
	return &osGlobber{root: root}
}

func (o *osGlobber) Glob(pattern string) ([]string, error) {
	// Split off the literal directory prefix so the walk starts as deep as
	// possible and absolute or "../" patterns work with os.DirFS.
	pattern = filepath.ToSlash(pattern)
	base, rest := doublestar.SplitPattern(pattern)
	base = unescape(base)

	// Results are rebuilt from the pattern's own prefix text so "./" and
	// other spellings survive and still match the pattern that produced them.
	prefix := ""
	if strings.HasSuffix(pattern, rest) {
		prefix = unescape(pattern[:len(pattern)-len(rest)])
	}

	dir := base
	if !path.IsAbs(base) && !filepath.IsAbs(base) {
		dir = filepath.Join(o.root, filepath.FromSlash(base))
	}

	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(dir), rest)
	if err != nil {
		return nil, err
	}

	for i, match := range matches {
		matches[i] = joinPrefix(prefix, match)
	}
	sort.Strings(matches)
	return matches, nil
}

// joinPrefix prepends the literal pattern prefix to a match relative to it
func joinPrefix(prefix, match string) string {
	if match == "." {
		switch prefix {
		case "":
			return "."
		case "/":
			return "/"
		}
		return strings.TrimSuffix(prefix, "/")
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + match
}

// unescape drops glob escapes from a literal path prefix
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
