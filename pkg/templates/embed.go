// Package templates bundles the pongo2 templates used to stamp out the
// Python wrapper package.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed *.tpl
var embeddedTemplates embed.FS

// Template names, without the .tpl extension.
const (
	Module   = "module.py"
	Function = "function.py"
	Errors   = "error.py"
	Package  = "init.py"
)

// FS exposes the embedded template bundle.
func FS() fs.FS {
	return embeddedTemplates
}

// Source returns the raw text of the named embedded template.
func Source(name string) (string, error) {
	data, err := fs.ReadFile(embeddedTemplates, name+".tpl")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
