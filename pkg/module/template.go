package module

import (
	"errors"
	"regexp"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/templates"
)

// placeholderPattern matches, in one pass so positions stay ordered:
// "{{ name", "{% if name" / "{% elif not name", and
// "{% for a, b in name" (loop variables in group 3, iterable in group 4).
var placeholderPattern = regexp.MustCompile(
	`\{\{-?\s*([A-Za-z_]\w*)` +
		`|\{%-?\s*(?:el)?if\s+(?:not\s+)?([A-Za-z_]\w*)` +
		`|\{%-?\s*for\s+([A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*)\s+in\s+([A-Za-z_]\w*)`,
)

// Template is a read-only module template body.
type Template struct {
	name string
	text string
}

// NewTemplate wraps text. name is only used in error messages.
func NewTemplate(name, text string) (Template, error) {
	if text == "" {
		return Template{}, errors.New("module: template text is empty")
	}
	return Template{name: name, text: text}, nil
}

// DefaultTemplate returns the embedded module template.
func DefaultTemplate() (Template, error) {
	text, err := templates.Source(templates.Module)
	if err != nil {
		return Template{}, err
	}
	return NewTemplate(templates.Module, text)
}

// Name returns the template identifier.
func (t Template) Name() string {
	return t.name
}

// Text returns the raw template body.
func (t Template) Text() string {
	return t.text
}

// Placeholders returns the names the body reads from its context, in order
// of first appearance. Both "{{ name }}" expressions and the subjects of
// if/elif/for tags count; loop variables and forloop do not.
func (t Template) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(t.text, -1)
	seen := map[string]struct{}{"forloop": {}}
	out := make([]string, 0, len(matches))
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, m := range matches {
		add(m[1])
		add(m[2])
		add(m[4])
		if m[3] != "" {
			for _, local := range strings.Split(m[3], ",") {
				seen[strings.TrimSpace(local)] = struct{}{}
			}
		}
	}
	return out
}

// Required lists the names the body uses, in template order, followed by
// any contract key the body does not reference.
func (t Template) Required() []string {
	out := t.Placeholders()
	seen := make(map[string]struct{}, len(out))
	for _, name := range out {
		seen[name] = struct{}{}
	}
	for _, name := range RequiredPlaceholders {
		if _, ok := seen[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out
}
