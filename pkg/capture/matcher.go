package capture

import (
	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/filesystem"
	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/rs/zerolog"
)

// Capture is one filesystem match of a capture pattern
type Capture struct {
	// Path is the matched path as enumerated, "/" separated.
	Path string
	// Parts maps each named placeholder to the substring it consumed.
	Parts values.Binding
	// Pattern is the pattern that produced the match.
	Pattern *Pattern
}

// Matcher matches capture patterns against a filesystem
type Matcher struct {
	globber filesystem.Globber
	logger  zerolog.Logger
}

// NewMatcher creates a matcher enumerating through globber
func NewMatcher(globber filesystem.Globber) *Matcher {
	return &Matcher{
		globber: globber,
		logger:  logging.GetLogger("capture.matcher"),
	}
}

// Match parses pattern and returns one Capture per matching entry, sorted
// by path.
func (m *Matcher) Match(pattern string) ([]Capture, error) {
	p, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	return m.MatchPattern(p)
}

// MatchPattern is Match for an already compiled pattern.
func (m *Matcher) MatchPattern(p *Pattern) ([]Capture, error) {
	m.logger.Debug().
		Str("pattern", p.String()).
		Str("glob", p.Glob()).
		Msg("Matching pattern")

	paths, err := m.globber.Glob(p.Glob())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to enumerate paths for pattern %q", p.String()).
			WithDetail("pattern", p.String())
	}

	captures := make([]Capture, 0, len(paths))
	for _, path := range paths {
		parts, ok := p.Extract(path)
		if !ok {
			m.logger.Trace().
				Str("pattern", p.String()).
				Str("path", path).
				Msg("Path rejected by capture pattern")
			continue
		}
		captures = append(captures, Capture{Path: path, Parts: parts, Pattern: p})
	}

	m.logger.Debug().
		Str("pattern", p.String()).
		Int("candidates", len(paths)).
		Int("captures", len(captures)).
		Msg("Pattern matched")

	return captures, nil
}

// MatchAll matches every pattern in order and concatenates the results.
// Paths matched by more than one pattern appear once per pattern.
func (m *Matcher) MatchAll(patterns []string) ([]Capture, error) {
	compiled := make([]*Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		p, err := Parse(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, p)
	}

	var all []Capture
	for _, p := range compiled {
		captures, err := m.MatchPattern(p)
		if err != nil {
			return nil, err
		}
		all = append(all, captures...)
	}
	return all, nil
}
