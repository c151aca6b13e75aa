// Package format substitutes `{name}` tokens in templates.
//
// `{{` and `}}` stand for literal braces. A `}` that neither closes a token
// nor is doubled is an error, as is a `{` inside a token.
package format

import (
	"io"
	"strings"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{"
	endTag   = "}"

	// reserved tag names for escaped braces
	openBrace  = "\x00open"
	closeBrace = "\x00close"
)

// Lookup resolves a token name.
type Lookup func(name string) (string, bool)

// Format replaces every `{name}` in template with the value bound to name.
func Format(template string, b values.Binding) (string, error) {
	return FormatFunc(template, b.Get)
}

// FormatMap is Format with a plain map.
func FormatMap(template string, vars map[string]string) (string, error) {
	return FormatFunc(template, func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	})
}

// FormatFunc replaces every `{name}` in template with lookup(name). A name
// lookup cannot resolve, a `{` without its `}` or a stray `}` is an error.
func FormatFunc(template string, lookup Lookup) (string, error) {
	source, err := escapeBraces(template)
	if err != nil {
		return "", err
	}

	t, err := fasttemplate.NewTemplate(source, startTag, endTag)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateSubstitution,
			"malformed template %q", template).
			WithDetail("template", template)
	}

	var (
		out     strings.Builder
		missing string
	)
	_, err = t.ExecuteFunc(&out, func(w io.Writer, tag string) (int, error) {
		switch tag {
		case openBrace:
			return io.WriteString(w, startTag)
		case closeBrace:
			return io.WriteString(w, endTag)
		}
		v, ok := lookup(tag)
		if !ok {
			missing = tag
			return 0, errors.Newf(errors.ErrTemplateSubstitution, "unknown name %q", tag)
		}
		return w.Write([]byte(v))
	})
	if err != nil {
		return "", errors.Newf(errors.ErrTemplateSubstitution,
			"template %q references unknown name %q", template, missing).
			WithDetail("template", template).
			WithDetail("name", missing)
	}
	return out.String(), nil
}

// escapeBraces rewrites doubled braces outside tokens into the reserved
// brace tags and rejects braces that are neither doubled nor balanced.
func escapeBraces(template string) (string, error) {
	var (
		b     strings.Builder
		inTag bool
	)
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case inTag && c == '}':
			inTag = false
			b.WriteByte(c)
		case inTag && c == '{':
			return "", braceError(template, i, "unexpected '{' inside a token")
		case inTag:
			b.WriteByte(c)
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteString(startTag + openBrace + endTag)
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteString(startTag + closeBrace + endTag)
			i++
		case c == '{':
			inTag = true
			b.WriteByte(c)
		case c == '}':
			return "", braceError(template, i, "single '}' must be written as '}}'")
		default:
			b.WriteByte(c)
		}
	}
	if inTag {
		return "", braceError(template, len(template), "unterminated token")
	}
	return b.String(), nil
}

func braceError(template string, offset int, message string) *errors.NingenError {
	return errors.Newf(errors.ErrTemplateSubstitution,
		"malformed template %q: %s", template, message).
		WithDetail("template", template).
		WithDetail("offset", offset)
}

// Names returns the token names referenced by template, in order of first
// appearance.
func Names(template string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	_, err := FormatFunc(template, func(name string) (string, bool) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return "", true
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
