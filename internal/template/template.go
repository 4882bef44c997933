// Package template renders `{name}` placeholders against a named value set.
//
// The syntax is deliberately small:
//
//	{name}    substituted with the value of name
//	\{ \} \\  a literal brace or backslash
//
// Any other backslash is kept as is, so shell snippets survive untouched.
// Rendering never runs anything; it only looks values up.
package template

import (
	"fmt"
	"strings"

	"github.com/noahmayr/vjj/internal/errors"
)

// Values supplies placeholder values. A false second return means the value
// is absent, which fails the render.
type Values interface {
	Value(name string) (string, bool)
}

// Map is a Values backed by a plain map.
type Map map[string]string

// Value implements Values.
func (m Map) Value(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

type segment struct {
	text        string
	placeholder bool
}

// Template is a parsed template.
type Template struct {
	source   string
	segments []segment
}

// Parse parses source into a Template.
func Parse(source string) (*Template, error) {
	t := &Template{source: source}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch c {
		case '\\':
			if i+1 < len(source) && strings.IndexByte(`{}\`, source[i+1]) >= 0 {
				lit.WriteByte(source[i+1])
				i++
				continue
			}
			lit.WriteByte(c)
		case '{':
			end := strings.IndexByte(source[i+1:], '}')
			if end < 0 {
				return nil, parseError(source, "unterminated placeholder at offset %d", i)
			}
			name := strings.TrimSpace(source[i+1 : i+1+end])
			if name == "" {
				return nil, parseError(source, "empty placeholder at offset %d", i)
			}
			if strings.ContainsAny(name, `{\`) {
				return nil, parseError(source, "invalid placeholder %q at offset %d", name, i)
			}
			flush()
			t.segments = append(t.segments, segment{text: name, placeholder: true})
			i += end + 1
		case '}':
			return nil, parseError(source, "unmatched '}' at offset %d", i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

// Render substitutes every placeholder from values.
func (t *Template) Render(values Values) (string, error) {
	var out strings.Builder
	for _, seg := range t.segments {
		if !seg.placeholder {
			out.WriteString(seg.text)
			continue
		}
		v, ok := values.Value(seg.text)
		if !ok {
			return "", errors.NewTemplateError(
				fmt.Sprintf("missing value for %q", seg.text), t.source, errors.TemplateRender, nil)
		}
		out.WriteString(v)
	}
	return out.String(), nil
}

// Names lists the placeholders in order of appearance.
func (t *Template) Names() []string {
	var names []string
	for _, seg := range t.segments {
		if seg.placeholder {
			names = append(names, seg.text)
		}
	}
	return names
}

// Source returns the unparsed template text.
func (t *Template) Source() string {
	return t.source
}

// Render parses and renders source in one step.
func Render(source string, values Values) (string, error) {
	t, err := Parse(source)
	if err != nil {
		return "", err
	}
	return t.Render(values)
}

func parseError(source, format string, args ...interface{}) error {
	return errors.NewTemplateError(fmt.Sprintf(format, args...), source, errors.TemplateParse, nil)
}
