package render

import (
	"github.com/goliatone/go-rpwrap/internal/wrapper"
)

// Bundle is everything the renderers need to stamp out one package.
type Bundle struct {
	// Package is the Python package name; module qualnames are
	// "<Package>.<module>".
	Package string

	// CommitID identifies the rp sources the headers were taken from.
	CommitID string

	// Modules holds the derived wrappers, one entry per header, in output
	// order.
	Modules []wrapper.Module

	// Constants is the hand-written constants.py copied into the package.
	Constants []byte
}

// QualName returns the dotted name of a module inside the package.
func (b Bundle) QualName(module string) string {
	if b.Package == "" {
		return module
	}
	return b.Package + "." + module
}

// ModuleNames lists the module names in order.
func (b Bundle) ModuleNames() []string {
	names := make([]string, 0, len(b.Modules))
	for _, mod := range b.Modules {
		names = append(names, mod.Name)
	}
	return names
}
