package header

import "strings"

// File is the parsed form of one header.
type File struct {
	Name      string       `json:"name"`
	Functions []Function   `json:"functions"`
	Unparsed  []ParseError `json:"unparsed,omitempty"`
}

// Function is a C function prototype together with its doxygen block.
type Function struct {
	Name    string  `json:"name"`
	Return  Type    `json:"return"`
	Params  []Param `json:"params"`
	Doxygen string  `json:"doxygen,omitempty"`
	Line    int     `json:"line"`
}

// Param is a single function parameter.
type Param struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Type is a C type reduced to its base name plus qualifiers.
type Type struct {
	Name    string `json:"name"`
	Pointer bool   `json:"pointer,omitempty"`
	Const   bool   `json:"const,omitempty"`
}

// String renders the type roughly as it appears in C.
func (t Type) String() string {
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	b.WriteString(t.Name)
	if t.Pointer {
		b.WriteString("*")
	}
	return b.String()
}

// Lookup returns the function called name.
func (f File) Lookup(name string) (Function, bool) {
	for _, fn := range f.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}
