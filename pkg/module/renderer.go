package module

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-rpwrap/pkg/render/template"
)

// RenderedModule is the text produced from one template and one mapping.
type RenderedModule struct {
	Name     string
	Template string
	Values   map[string]string
	Text     string
}

// Renderer substitutes placeholder mappings into a Template.
type Renderer struct {
	engine   template.TemplateRenderer
	template Template
}

// NewRenderer binds engine to tpl.
func NewRenderer(engine template.TemplateRenderer, tpl Template) (*Renderer, error) {
	if engine == nil {
		return nil, errors.New("module: template engine is required")
	}
	if tpl.text == "" {
		return nil, errors.New("module: template is required")
	}
	return &Renderer{engine: engine, template: tpl}, nil
}

// Template returns the bound template.
func (r *Renderer) Template() Template {
	return r.template
}

// Validate reports the first required placeholder missing from values.
func (r *Renderer) Validate(values map[string]string) error {
	for _, name := range r.template.Required() {
		if _, ok := values[name]; !ok {
			return &MissingPlaceholderError{Template: r.template.name, Name: name}
		}
	}
	return nil
}

// Render validates values and substitutes them into the template. On a
// missing placeholder nothing is rendered.
func (r *Renderer) Render(ctx context.Context, name string, values map[string]string) (RenderedModule, error) {
	if err := ctx.Err(); err != nil {
		return RenderedModule{}, err
	}
	if err := r.Validate(values); err != nil {
		return RenderedModule{}, err
	}

	data := make(map[string]any, len(values))
	for key, value := range values {
		data[key] = value
	}

	text, err := r.engine.RenderString(r.template.text, data)
	if err != nil {
		return RenderedModule{}, fmt.Errorf("module: render %s: %w", name, err)
	}

	copied := make(map[string]string, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return RenderedModule{
		Name:     name,
		Template: r.template.name,
		Values:   copied,
		Text:     text,
	}, nil
}

// RenderPlaceholders is Render for the typed mapping.
func (r *Renderer) RenderPlaceholders(ctx context.Context, name string, p Placeholders) (RenderedModule, error) {
	return r.Render(ctx, name, p.Values())
}
