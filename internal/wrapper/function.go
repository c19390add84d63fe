package wrapper

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/header"
)

// Kind classifies a C function by its name.
type Kind string

const (
	KindGetter Kind = "getter"
	KindSetter Kind = "setter"
	KindCall   Kind = "call"
)

// Param is one C parameter together with how it appears on the Python side.
type Param struct {
	CName   string `json:"c_name"`
	Name    string `json:"name"`
	CType   string `json:"c_type"`
	Pointer bool   `json:"pointer,omitempty"`
	PyType  string `json:"py_type"`
	Enum    bool   `json:"enum,omitempty"`

	// CallValue replaces the argument passed to rp (buffer size constant,
	// preallocated buffer).
	CallValue string `json:"call_value,omitempty"`
	// InDef is false for parameters the wrapper supplies itself.
	InDef bool `json:"in_def"`
	// InCall is false for output pointers the binding returns instead.
	InCall bool `json:"in_call"`
}

// DefParam renders "name: type".
func (p Param) DefParam() string {
	return p.Name + ": " + p.PyType
}

// CallArg renders the expression passed to rp.
func (p Param) CallArg() string {
	switch {
	case p.CallValue != "":
		return p.CallValue
	case p.Enum:
		return p.Name + ".value"
	default:
		return p.Name
	}
}

// DebugArg renders the expression reported in RPPError. Pointers are shown
// by name only.
func (p Param) DebugArg() string {
	if p.CallValue == "" && p.Pointer {
		return "'<" + p.Name + ">'"
	}
	return p.CallArg()
}

// Function is the Python wrapper derived from one C prototype.
type Function struct {
	CName      string     `json:"c_name"`
	Name       string     `json:"name"`
	Kind       Kind       `json:"kind"`
	StatusCode bool       `json:"status_code"`
	Params     []Param    `json:"params"`
	Returns    string     `json:"returns"`
	Pre        []string   `json:"pre,omitempty"`
	Post       string     `json:"post"`
	HasValue   bool       `json:"has_value"`
	Doc        header.Doc `json:"doc"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// DefParams renders the Python signature parameters.
func (f Function) DefParams() string {
	var parts []string
	for _, p := range f.Params {
		if p.InDef {
			parts = append(parts, p.DefParam())
		}
	}
	return strings.Join(parts, ", ")
}

// CallArgs renders the arguments passed to rp.
func (f Function) CallArgs() string {
	var parts []string
	for _, p := range f.Params {
		if p.InCall {
			parts = append(parts, p.CallArg())
		}
	}
	return strings.Join(parts, ", ")
}

// DebugArgs renders the tuple literal handed to _to_debug.
func (f Function) DebugArgs() string {
	var parts []string
	for _, p := range f.Params {
		if p.InCall {
			parts = append(parts, p.DebugArg())
		}
	}
	switch len(parts) {
	case 0:
		return "()"
	case 1:
		return "(" + parts[0] + ",)"
	default:
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

// Call renders the rp invocation with its assignment targets.
func (f Function) Call() string {
	call := fmt.Sprintf("rp.%s(%s)", f.CName, f.CallArgs())
	switch {
	case f.StatusCode && f.HasValue:
		return "__status_code, __value = " + call
	case f.StatusCode:
		return "__status_code = " + call
	case f.HasValue:
		return "__value = " + call
	default:
		return call
	}
}

// Visible returns the parameter names that appear in the Python signature.
func (f Function) Visible() map[string]bool {
	out := make(map[string]bool, len(f.Params))
	for _, p := range f.Params {
		if p.InDef {
			out[p.CName] = true
		}
	}
	return out
}
