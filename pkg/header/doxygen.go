package header

import "strings"

// Doc is the structured form of a doxygen comment block.
type Doc struct {
	Main   string     `json:"main"`
	Params []ParamDoc `json:"params,omitempty"`
	Return string     `json:"return,omitempty"`
}

// ParamDoc documents one parameter, in declaration order.
type ParamDoc struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Param returns the documentation for the named parameter.
func (d Doc) Param(name string) (string, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p.Text, true
		}
	}
	return "", false
}

// MentionsStatusOK reports whether the block documents an RP_OK return.
func MentionsStatusOK(raw string) bool {
	return strings.Contains(raw, "RP_OK")
}

// ParseDoc parses a raw "/** ... */" block. Text before the first @tag is the
// main description; @param and @return are split out and any other tag
// (@brief, @note, ...) is folded into the main text.
func ParseDoc(raw string) Doc {
	lines := commentLines(raw)
	if len(lines) == 0 {
		return Doc{}
	}

	var (
		main   []string
		blocks []string
	)
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "@"):
			blocks = append(blocks, line)
		case len(blocks) > 0:
			blocks[len(blocks)-1] += " " + line
		default:
			main = append(main, line)
		}
	}

	doc := Doc{}
	for _, block := range blocks {
		tag, rest := splitWord(block)
		if i := strings.Index(tag, "["); i > 0 {
			tag = tag[:i]
		}
		switch tag {
		case "@param":
			name, text := splitWord(stripDirection(rest))
			if name == "" {
				continue
			}
			doc.Params = append(doc.Params, ParamDoc{Name: name, Text: text})
		case "@return", "@returns", "@retval":
			doc.Return = joinText(doc.Return, rest)
		case "@brief":
			main = append([]string{rest}, main...)
		default:
			main = append(main, rest)
		}
	}
	doc.Main = joinText(main...)
	return doc
}

func commentLines(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimPrefix(raw, "/*!")
	raw = strings.TrimSuffix(raw, "*/")

	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "*")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func stripDirection(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		if end := strings.Index(s, "]"); end > 0 {
			return strings.TrimSpace(s[end+1:])
		}
	}
	return s
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx+1:])
}

func joinText(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}
