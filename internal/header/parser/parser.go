package parser

import (
	"context"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/header"
)

// Parser implements header.Parser for the plain C subset used by the rp
// headers: prototypes, doxygen blocks, typedefs and preprocessor noise.
type Parser struct {
	opts header.ParserOptions
}

var _ header.Parser = (*Parser)(nil)

// New constructs a parser using the supplied options.
func New(options header.ParserOptions) *Parser {
	return &Parser{opts: options}
}

// Parse extracts the function prototypes declared in doc, in source order.
// Declarations that cannot be parsed fail the parse in strict mode and are
// recorded in File.Unparsed otherwise.
func (p *Parser) Parse(ctx context.Context, doc header.Document) (header.File, error) {
	if err := ctx.Err(); err != nil {
		return header.File{}, err
	}

	file := header.File{Name: doc.Name()}
	src := stripPreprocessor(string(doc.Raw()))

	for _, stmt := range scanStatements(src) {
		if !looksLikePrototype(stmt.text) {
			continue
		}
		fn, err := parsePrototype(stmt.text)
		if err != nil {
			name := declaredName(stmt.text)
			if p.opts.Prefix != "" && !strings.HasPrefix(name, p.opts.Prefix) {
				continue
			}
			perr := header.ParseError{File: file.Name, Line: stmt.line, Function: name, Msg: err.Error()}
			if p.opts.Strict {
				return header.File{}, &perr
			}
			file.Unparsed = append(file.Unparsed, perr)
			continue
		}
		if p.opts.Prefix != "" && !strings.HasPrefix(fn.Name, p.opts.Prefix) {
			continue
		}
		fn.Doxygen = stmt.doc
		fn.Line = stmt.line
		file.Functions = append(file.Functions, fn)
	}
	return file, nil
}

// stripPreprocessor blanks every directive line (#ifdef, #include, ...)
// while keeping line numbers stable. Continuation lines of multi-line
// #define macros are blanked as well.
func stripPreprocessor(src string) string {
	lines := strings.Split(src, "\n")
	continued := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if continued || strings.HasPrefix(trimmed, "#") {
			continued = strings.HasSuffix(trimmed, "\\")
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func looksLikePrototype(stmt string) bool {
	if !strings.Contains(stmt, "(") {
		return false
	}
	first, _, _ := strings.Cut(strings.TrimSpace(stmt), " ")
	switch first {
	case "typedef", "struct", "enum", "union":
		return false
	}
	return true
}
