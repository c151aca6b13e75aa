package filesystem

import (
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Globber enumerates the paths matching a glob pattern.
//
// Patterns use doublestar syntax: "*" matches within one path segment, "**"
// matches zero or more segments and "\" escapes a meta character. Results
// use "/" separators and are sorted.
type Globber interface {
	Glob(pattern string) ([]string, error)
}

// fsGlobber implements Globber over an io/fs filesystem
type fsGlobber struct {
	fsys fs.FS
}

// NewFS creates a Globber over fsys. Patterns are relative to the root of
// fsys.
func NewFS(fsys fs.FS) Globber {
	return &fsGlobber{fsys: fsys}
}

func (g *fsGlobber) Glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(g.fsys, pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
