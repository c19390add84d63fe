package wrapper

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/render/template"
	"github.com/goliatone/go-rpwrap/pkg/templates"
)

// Renderer turns derived functions into Python source through the function
// template.
type Renderer struct {
	engine   template.TemplateRenderer
	template string
}

// NewRenderer wires a template engine. An empty name selects the embedded
// function template.
func NewRenderer(engine template.TemplateRenderer, name string) *Renderer {
	if strings.TrimSpace(name) == "" {
		name = templates.Function
	}
	return &Renderer{engine: engine, template: name}
}

// Data returns the template context for f.
func Data(f Function) map[string]any {
	pre := make([]string, len(f.Pre))
	for i, line := range f.Pre {
		pre[i] = "    " + line
	}
	return map[string]any{
		"name":       f.Name,
		"params":     f.DefParams(),
		"returns":    f.Returns,
		"docstring":  Docstring(f),
		"pre":        strings.Join(pre, "\n"),
		"call":       f.Call(),
		"status":     f.StatusCode,
		"cname":      f.CName,
		"debug_args": f.DebugArgs(),
		"post":       f.Post,
	}
}

// Function renders a single wrapper.
func (r *Renderer) Function(f Function) (string, error) {
	if r == nil || r.engine == nil {
		return "", fmt.Errorf("wrapper: renderer requires a template engine")
	}
	out, err := r.engine.RenderTemplate(r.template, Data(f))
	if err != nil {
		return "", fmt.Errorf("wrapper: render %s: %w", f.CName, err)
	}
	return out, nil
}

// Content renders every function of mod, in order. The result is the
// "content" placeholder of the module template.
func (r *Renderer) Content(mod Module) (string, error) {
	var b strings.Builder
	for _, f := range mod.Functions {
		out, err := r.Function(f)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
