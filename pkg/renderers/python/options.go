package python

import (
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/module"
	rendertemplate "github.com/goliatone/go-rpwrap/pkg/render/template"
)

// Option configures the Python renderers.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	globals          map[string]any
	templateRenderer rendertemplate.TemplateRenderer
	moduleTemplate   *module.Template
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Files found
// there shadow the bundled templates one by one.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithGlobals exposes values to every template as globals, for example the
// extra placeholders of the configuration.
func WithGlobals(values map[string]string) Option {
	return func(cfg *config) {
		if len(values) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(values))
		}
		for key, value := range values {
			cfg.globals[key] = value
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithModuleTemplate replaces the module template used by the modules
// renderer.
func WithModuleTemplate(tpl module.Template) Option {
	return func(cfg *config) {
		cfg.moduleTemplate = &tpl
	}
}

// WithLogger sets the logger used for per-module progress.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// moduleSources lists where the module template is looked up, the templates
// directory first.
func (cfg config) moduleSources() []fs.FS {
	var sources []fs.FS
	if cfg.templatesDir != "" {
		sources = append(sources, os.DirFS(cfg.templatesDir))
	}
	if cfg.templateFS != nil {
		sources = append(sources, cfg.templateFS)
	}
	return sources
}
