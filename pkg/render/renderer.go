package render

import (
	"context"
)

// Renderer turns a Bundle into one or more files of the generated package
// (wrapper modules, error.py, constants.py, __init__.py).
type Renderer interface {
	Name() string
	Render(ctx context.Context, bundle Bundle, options RenderOptions) ([]Output, error)
}

// Output is a single rendered file. Path is relative to the package root.
type Output struct {
	Path string
	Text string
}
