package python

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-rpwrap/internal/wrapper"
	"github.com/goliatone/go-rpwrap/pkg/module"
	"github.com/goliatone/go-rpwrap/pkg/render"
	"github.com/goliatone/go-rpwrap/pkg/templates"
)

// Modules renders one wrapper module per header.
type Modules struct {
	functions *wrapper.Renderer
	modules   *module.Renderer
	logger    *slog.Logger
}

// NewModules constructs the module renderer.
func NewModules(options ...Option) (*Modules, error) {
	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}
	return newModules(cfg)
}

func newModules(cfg config) (*Modules, error) {
	tpl := cfg.moduleTemplate
	if tpl == nil {
		loaded, err := moduleTemplateFrom(cfg.moduleSources()...)
		if err != nil {
			return nil, fmt.Errorf("python renderer: load module template: %w", err)
		}
		tpl = &loaded
	}
	modules, err := module.NewRenderer(cfg.templateRenderer, *tpl)
	if err != nil {
		return nil, err
	}
	return &Modules{
		functions: wrapper.NewRenderer(cfg.templateRenderer, ""),
		modules:   modules,
		logger:    cfg.logger,
	}, nil
}

// moduleTemplateFrom reads the module template from the first source that
// carries it, falling back to the embedded one.
func moduleTemplateFrom(sources ...fs.FS) (module.Template, error) {
	name := templates.Module + ".tpl"
	for _, files := range sources {
		data, err := fs.ReadFile(files, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return module.Template{}, err
		}
		return module.NewTemplate(name, string(data))
	}
	return module.DefaultTemplate()
}

func (r *Modules) Name() string {
	return NameModules
}

// Render produces "<module>.py" for every selected module. The first
// failure aborts the run and nothing is returned.
func (r *Modules) Render(ctx context.Context, bundle render.Bundle, options render.RenderOptions) ([]render.Output, error) {
	var outputs []render.Output
	for _, mod := range bundle.Modules {
		if !options.Selected(mod.Name) {
			continue
		}
		rendered, err := r.Module(ctx, bundle, mod, options)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, render.Output{Path: mod.Name + ".py", Text: rendered.Text})
	}
	return outputs, nil
}

// Module renders a single module and returns the mapping it used.
func (r *Modules) Module(ctx context.Context, bundle render.Bundle, mod wrapper.Module, options render.RenderOptions) (module.RenderedModule, error) {
	content, err := r.functions.Content(mod)
	if err != nil {
		return module.RenderedModule{}, err
	}

	values := make(map[string]string, len(options.Placeholders)+len(module.RequiredPlaceholders))
	for key, value := range options.Placeholders {
		values[key] = value
	}
	placeholders := module.NewPlaceholders(
		bundle.QualName(mod.Name),
		module.SkippedMessage(mod.Skipped),
		mod.Header,
		bundle.CommitID,
		content,
	)
	for key, value := range placeholders.Values() {
		values[key] = value
	}

	rendered, err := r.modules.Render(ctx, mod.Name, values)
	if err != nil {
		return module.RenderedModule{}, fmt.Errorf("python renderer: module %s: %w", mod.Name, err)
	}
	r.logger.Debug("rendered module", "module", mod.Name, "functions", len(mod.Functions), "skipped", len(mod.Skipped))
	return rendered, nil
}
