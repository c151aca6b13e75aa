package capture

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/values"
)

// tokenKind identifies one piece of a parsed pattern
type tokenKind uint8

const (
	tokenLiteral tokenKind = iota
	// tokenSegment is `{*name}`, a run inside one path segment.
	tokenSegment
	// tokenSegments is `{**name}`, one or more whole segments.
	tokenSegments
)

type token struct {
	kind   tokenKind
	text   string // literal text
	name   string // placeholder name, empty when anonymous
	offset int    // offset in source, for error messages
}

// Pattern is a compiled capture pattern.
type Pattern struct {
	source string
	tokens []token
	names  []string
	glob   string
	re     *regexp.Regexp
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse compiles a capture pattern.
func Parse(pattern string) (*Pattern, error) {
	if pattern == "" {
		return nil, patternError(pattern, "empty pattern")
	}

	tokens, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}

	p := &Pattern{source: pattern, tokens: tokens}
	if err := p.validate(); err != nil {
		return nil, err
	}

	p.glob = p.buildGlob()
	re, err := regexp.Compile(p.buildRegexp())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPattern, "cannot compile pattern %q", pattern).
			WithDetail("pattern", pattern)
	}
	p.re = re

	return p, nil
}

// MustParse is like Parse but panics on a malformed pattern.
func MustParse(pattern string) *Pattern {
	p, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern source.
func (p *Pattern) String() string {
	return p.source
}

// Names returns the placeholder names in pattern order.
func (p *Pattern) Names() []string {
	return p.names
}

// HasPlaceholders reports whether the pattern has any wildcard. A pattern
// without one is a plain existence check.
func (p *Pattern) HasPlaceholders() bool {
	for _, t := range p.tokens {
		if t.kind != tokenLiteral {
			return true
		}
	}
	return false
}

// Glob returns the enumeration form of the pattern.
func (p *Pattern) Glob() string {
	return p.glob
}

// Regexp returns the extraction form of the pattern.
func (p *Pattern) Regexp() string {
	return p.re.String()
}

// Matches reports whether path matches the pattern.
func (p *Pattern) Matches(path string) bool {
	return p.re.MatchString(path)
}

// Extract returns the substrings bound to each named placeholder by path.
func (p *Pattern) Extract(path string) (values.Binding, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return values.Binding{}, false
	}

	parts := make([]string, len(p.names))
	for i, name := range p.names {
		parts[i] = m[p.re.SubexpIndex(name)]
	}
	return values.NewBinding(p.names, parts), true
}

// tokenize splits the source into literal and placeholder tokens
func tokenize(source string) ([]token, error) {
	var (
		tokens []token
		lit    strings.Builder
		start  int
	)

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: lit.String(), offset: start})
			lit.Reset()
		}
	}

	for i := 0; i < len(source); {
		c := source[i]
		if lit.Len() == 0 {
			start = i
		}

		switch c {
		case '{':
			if i+1 < len(source) && source[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(source[i+1:], '}')
			if end < 0 {
				return nil, patternError(source, "unterminated placeholder").WithDetail("offset", i)
			}
			flush()
			t, err := parsePlaceholder(source, source[i+1:i+1+end], i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
			i += end + 2

		case '}':
			if i+1 < len(source) && source[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, patternError(source, "unmatched '}'").WithDetail("offset", i)

		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()

	return tokens, nil
}

// parsePlaceholder parses the body of `{...}`
func parsePlaceholder(source, body string, offset int) (token, error) {
	t := token{offset: offset}
	switch {
	case strings.HasPrefix(body, "**"):
		t.kind = tokenSegments
		t.name = body[2:]
	case strings.HasPrefix(body, "*"):
		t.kind = tokenSegment
		t.name = body[1:]
	default:
		return t, patternError(source, "placeholder {"+body+"} must start with '*' or '**'").
			WithDetail("offset", offset)
	}

	if t.name != "" && !identifierRE.MatchString(t.name) {
		return t, patternError(source, "invalid placeholder name "+`"`+t.name+`"`).
			WithDetail("offset", offset).
			WithDetail("name", t.name)
	}
	return t, nil
}

// validate enforces the structural rules that keep extraction unambiguous
func (p *Pattern) validate() error {
	seen := make(map[string]bool)

	for i, t := range p.tokens {
		if t.kind == tokenLiteral {
			continue
		}

		if i > 0 && p.tokens[i-1].kind != tokenLiteral {
			return patternError(p.source, "placeholders must be separated by literal text").
				WithDetail("offset", t.offset)
		}

		if t.kind == tokenSegments {
			before := i == 0 || strings.HasSuffix(p.tokens[i-1].text, "/")
			after := i == len(p.tokens)-1 || strings.HasPrefix(p.tokens[i+1].text, "/")
			if !before || !after {
				return patternError(p.source, "{**"+t.name+"} must span whole path segments").
					WithDetail("offset", t.offset)
			}
		}

		if t.name == "" {
			continue
		}
		if seen[t.name] {
			return patternError(p.source, "duplicate placeholder name "+`"`+t.name+`"`).
				WithDetail("offset", t.offset).
				WithDetail("name", t.name)
		}
		seen[t.name] = true
		p.names = append(p.names, t.name)
	}

	return nil
}

func (p *Pattern) buildGlob() string {
	var b strings.Builder
	for _, t := range p.tokens {
		switch t.kind {
		case tokenLiteral:
			b.WriteString(escapeGlob(t.text))
		case tokenSegment:
			b.WriteString("*")
		case tokenSegments:
			b.WriteString("**")
		}
	}
	return b.String()
}

func (p *Pattern) buildRegexp() string {
	var b strings.Builder
	b.WriteString("^")
	for _, t := range p.tokens {
		var body string
		switch t.kind {
		case tokenLiteral:
			b.WriteString(regexp.QuoteMeta(t.text))
			continue
		case tokenSegment:
			body = `[^/]+`
		case tokenSegments:
			body = `[^/]+(?:/[^/]+)*`
		}
		if t.name == "" {
			b.WriteString("(?:" + body + ")")
		} else {
			b.WriteString("(?P<" + t.name + ">" + body + ")")
		}
	}
	b.WriteString("$")
	return b.String()
}

// escapeGlob escapes glob meta characters in literal text
func escapeGlob(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func patternError(pattern, message string) *errors.NingenError {
	return errors.Newf(errors.ErrPattern, "%s in pattern %q", message, pattern).
		WithDetail("pattern", pattern)
}
