package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-rpwrap/pkg/header"
)

var errNotPrototype = errors.New("not a function prototype")

// parsePrototype parses "ret name(type a, type *b)" (whitespace already
// collapsed, trailing ';' removed).
func parsePrototype(stmt string) (header.Function, error) {
	open := strings.IndexByte(stmt, '(')
	closeIdx := strings.LastIndexByte(stmt, ')')
	if open <= 0 || closeIdx < open {
		return header.Function{}, errNotPrototype
	}
	if rest := strings.TrimSpace(stmt[closeIdx+1:]); rest != "" {
		return header.Function{}, fmt.Errorf("unexpected %q after parameter list", rest)
	}

	retType, name, err := splitDeclarator(stmt[:open])
	if err != nil {
		return header.Function{}, err
	}
	if name == "" {
		return header.Function{}, errNotPrototype
	}

	params, err := parseParams(stmt[open+1 : closeIdx])
	if err != nil {
		return header.Function{}, err
	}

	return header.Function{
		Name:   name,
		Return: retType,
		Params: params,
	}, nil
}

func parseParams(list string) ([]header.Param, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return nil, nil
	}
	if strings.ContainsAny(list, "()") {
		return nil, errors.New("function pointer parameters are not supported")
	}

	parts := strings.Split(list, ",")
	params := make([]header.Param, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "..." {
			return nil, errors.New("variadic functions are not supported")
		}
		array := false
		if idx := strings.IndexByte(part, '['); idx >= 0 {
			array = true
			part = strings.TrimSpace(part[:idx])
		}
		typ, name, err := splitDeclarator(part)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		if array {
			if typ.Pointer {
				return nil, fmt.Errorf("parameter %d: array of pointers is not supported", i+1)
			}
			typ.Pointer = true
		}
		params = append(params, header.Param{Name: name, Type: typ})
	}
	return params, nil
}

// declaredName returns the identifier in front of the parameter list, or ""
// when the statement has none.
func declaredName(stmt string) string {
	open := strings.IndexByte(stmt, '(')
	if open <= 0 {
		return ""
	}
	fields := strings.Fields(strings.ReplaceAll(stmt[:open], "*", " "))
	if len(fields) < 2 {
		return ""
	}
	if name := fields[len(fields)-1]; isIdentifier(name) {
		return name
	}
	return ""
}

// splitDeclarator separates "const uint32_t *size" into its type and name.
// A declarator holding a single type token ("int") has no name.
func splitDeclarator(decl string) (header.Type, string, error) {
	stars := strings.Count(decl, "*")
	if stars > 1 {
		return header.Type{}, "", errors.New("pointer to pointer is not supported")
	}
	pointer := stars == 1
	fields := strings.Fields(strings.ReplaceAll(decl, "*", " "))

	var (
		typ    header.Type
		tokens []string
	)
	for _, tok := range fields {
		switch tok {
		case "const":
			typ.Const = true
		case "extern", "static", "inline", "volatile", "struct", "enum":
		default:
			if !isIdentifier(tok) {
				return header.Type{}, "", fmt.Errorf("unexpected token %q", tok)
			}
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return header.Type{}, "", errors.New("missing type")
	}

	name := ""
	if len(tokens) > 1 && !isBuiltinTypeWord(tokens[len(tokens)-1]) {
		name = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	typ.Name = strings.Join(tokens, " ")
	typ.Pointer = pointer
	return typ, name, nil
}

func isBuiltinTypeWord(tok string) bool {
	switch tok {
	case "int", "char", "short", "long", "float", "double", "signed", "unsigned", "void", "bool":
		return true
	}
	return false
}

func isIdentifier(tok string) bool {
	for i, r := range tok {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return tok != ""
}
