package wrapper

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// DocWidth is the column limit used when wrapping docstring text.
const DocWidth = 70

var markup = bluemonday.StrictPolicy()

// cleanText strips HTML markup that occasionally shows up in the vendor
// doxygen blocks and restores the entities bluemonday escapes.
func cleanText(s string) string {
	s = html.UnescapeString(markup.Sanitize(s))
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"""`, `\"\"\"`)
	return strings.Join(strings.Fields(s), " ")
}

// Docstring renders the indented triple quoted docstring of f.
func Docstring(f Function) string {
	main := cleanText(f.Doc.Main)
	if main == "" {
		main = "Wrapper for " + f.CName + "."
	}

	var lines []string
	lines = append(lines, Wrap(main, DocWidth, "")...)

	var visible, hidden []Param
	for _, p := range f.Params {
		if p.InDef {
			visible = append(visible, p)
		} else {
			hidden = append(hidden, p)
		}
	}
	lines = appendParamSection(lines, "Parameters", visible, f)
	lines = appendParamSection(lines, "C Parameters", hidden, f)

	if ret := cleanText(f.Doc.Return); ret != "" && f.Returns != "None" {
		lines = append(lines, "", "Returns", "-------", f.Returns)
		lines = append(lines, Wrap(ret, DocWidth, "    ")...)
	}

	lines[0] = `"""` + lines[0]
	lines = append(lines, `"""`)

	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}

func appendParamSection(lines []string, title string, params []Param, f Function) []string {
	if len(params) == 0 {
		return lines
	}
	lines = append(lines, "", title, strings.Repeat("-", len(title)))
	for _, p := range params {
		name := p.Name
		if title == "C Parameters" {
			name = p.CName
		}
		lines = append(lines, name)
		if text, ok := f.Doc.Param(p.CName); ok {
			if text = cleanText(text); text != "" {
				lines = append(lines, Wrap(text, DocWidth, "    ")...)
			}
		}
	}
	return lines
}

// Wrap greedily fills words into lines of at most width columns, each
// starting with indent. A word longer than the available room gets its own
// line.
func Wrap(text string, width int, indent string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range words {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() == 0 {
			line.WriteString(indent)
			line.WriteString(word)
			continue
		}
		line.WriteByte(' ')
		line.WriteString(word)
	}
	return append(lines, line.String())
}
