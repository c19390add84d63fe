package python

import (
	"context"
	"fmt"

	"github.com/goliatone/go-rpwrap/pkg/render"
	rendertemplate "github.com/goliatone/go-rpwrap/pkg/render/template"
	"github.com/goliatone/go-rpwrap/pkg/templates"
)

// Package renders __init__.py re-exporting the generated modules.
type Package struct {
	templates rendertemplate.TemplateRenderer
}

func (r *Package) Name() string {
	return NamePackage
}

func (r *Package) Render(_ context.Context, bundle render.Bundle, _ render.RenderOptions) ([]render.Output, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("python renderer: template renderer is nil")
	}

	exports := []string{"constants", "error"}
	exports = append(exports, bundle.ModuleNames()...)

	text, err := r.templates.RenderTemplate(templates.Package, map[string]any{
		"qualname": bundle.Package,
		"exports":  exports,
	})
	if err != nil {
		return nil, fmt.Errorf("python renderer: render __init__.py: %w", err)
	}
	return []render.Output{{Path: "__init__.py", Text: text}}, nil
}
