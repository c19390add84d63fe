// Package template defines the renderer-agnostic template contract used by the
// module and function generators. The pongo2 backed implementation lives in
// the gotemplate subpackage.
package template
