package parser

import "strings"

type statement struct {
	text string
	doc  string
	line int
}

// scanStatements splits C source into top level statements terminated by ';'.
// Doxygen blocks ("/**" or "/*!") attach to the statement that follows them;
// brace bodies (struct, enum, inline functions) are skipped and extern "C"
// wrappers are transparent.
func scanStatements(src string) []statement {
	var (
		out        []statement
		buf        strings.Builder
		pendingDoc string
		startLine  int
		line       = 1
	)

	reset := func() {
		buf.Reset()
		pendingDoc = ""
		startLine = 0
	}
	emit := func() {
		text := strings.Join(strings.Fields(buf.String()), " ")
		if text != "" {
			out = append(out, statement{text: text, doc: pendingDoc, line: startLine})
		}
		reset()
	}
	write := func(c byte) {
		if startLine == 0 && !isSpace(c) {
			startLine = line
		}
		buf.WriteByte(c)
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\n':
			line++
			buf.WriteByte(' ')

		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				end = len(src) - i - 2
			}
			comment := src[i : min(len(src), i+2+end+2)]
			line += strings.Count(comment, "\n")
			if isDoxygen(comment) && strings.TrimSpace(buf.String()) == "" {
				pendingDoc = comment
			}
			i += len(comment) - 1
			buf.WriteByte(' ')

		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				i = len(src)
				continue
			}
			i += end - 1

		case c == '{':
			head := strings.TrimSpace(buf.String())
			if strings.HasPrefix(head, "extern") && strings.Contains(head, `"C"`) {
				reset()
				continue
			}
			skipped, lines := skipBlock(src[i:])
			line += lines
			i += skipped - 1
			if isAggregate(head) {
				buf.WriteString(" {} ")
				continue
			}
			// function definition: the body closes the statement
			reset()

		case c == '}':
			// closing an extern "C" wrapper
			reset()

		case c == ';':
			emit()

		default:
			write(c)
		}
	}
	return out
}

// skipBlock returns the length of the balanced {...} block at the start of
// src and the number of newlines inside it.
func skipBlock(src string) (int, int) {
	depth := 0
	lines := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, lines
			}
		case '\n':
			lines++
		}
	}
	return len(src), lines
}

func isDoxygen(comment string) bool {
	return strings.HasPrefix(comment, "/**") || strings.HasPrefix(comment, "/*!")
}

func isAggregate(head string) bool {
	for _, kw := range []string{"typedef", "struct", "enum", "union"} {
		if strings.HasPrefix(head, kw) {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
