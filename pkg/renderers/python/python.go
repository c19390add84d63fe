// Package python holds the renderers that produce the files of the
// generated Python package.
package python

import (
	"fmt"
	"log/slog"

	gotemplatepkg "github.com/goliatone/go-template"
	"github.com/goliatone/go-template/templatehooks"

	"github.com/goliatone/go-rpwrap/pkg/render"
	rendertemplate "github.com/goliatone/go-rpwrap/pkg/render/template"
	gotemplate "github.com/goliatone/go-rpwrap/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rpwrap/pkg/templates"
)

// Renderer names.
const (
	NameModules   = "modules"
	NameErrors    = "errors"
	NameConstants = "constants"
	NamePackage   = "package"
)

func newConfig(options []Option) (config, error) {
	cfg := config{templateFS: templates.FS(), logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = templates.FS()
	}
	if cfg.templateRenderer == nil {
		engine, err := newEngine(cfg)
		if err != nil {
			return config{}, err
		}
		cfg.templateRenderer = engine
	}
	return cfg, nil
}

func newEngine(cfg config) (rendertemplate.TemplateRenderer, error) {
	engine, err := gotemplate.New(
		gotemplate.WithBaseDir(cfg.templatesDir),
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithGlobalData(cfg.globals),
		gotemplate.WithPostHooks(trimTrailingWhitespace()),
	)
	if err != nil {
		return nil, fmt.Errorf("python renderer: configure template renderer: %w", err)
	}
	return engine, nil
}

// trimTrailingWhitespace strips trailing blanks from named templates.
// Inline renders, such as the module template, are left untouched.
func trimTrailingWhitespace() gotemplatepkg.PostHook {
	trim := templatehooks.NewCommonHooks().RemoveTrailingWhitespaceHook()
	return func(ctx *gotemplatepkg.HookContext) (string, error) {
		if ctx.TemplateName == "" {
			return ctx.Output, nil
		}
		return trim(ctx)
	}
}

// NewAll constructs the four standard renderers sharing one configuration.
func NewAll(options ...Option) ([]render.Renderer, error) {
	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}
	modules, err := newModules(cfg)
	if err != nil {
		return nil, err
	}
	return []render.Renderer{
		modules,
		&Errors{templates: cfg.templateRenderer},
		&Constants{},
		&Package{templates: cfg.templateRenderer},
	}, nil
}

// Register adds the standard renderers to registry.
func Register(registry *render.Registry, options ...Option) error {
	renderers, err := NewAll(options...)
	if err != nil {
		return err
	}
	for _, r := range renderers {
		if err := registry.Register(r); err != nil {
			return err
		}
	}
	return nil
}
