package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	internalLoader "github.com/goliatone/go-rpwrap/internal/header/loader"
	internalParser "github.com/goliatone/go-rpwrap/internal/header/parser"
	"github.com/goliatone/go-rpwrap/internal/wrapper"
	"github.com/goliatone/go-rpwrap/pkg/config"
	"github.com/goliatone/go-rpwrap/pkg/header"
	"github.com/goliatone/go-rpwrap/pkg/render"
	"github.com/goliatone/go-rpwrap/pkg/renderers/python"
)

const defaultHTTPTimeout = 30 * time.Second

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom header loader.
func WithLoader(loader header.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom header parser.
func WithParser(parser header.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a renderer registry. Without one, the standard
// Python renderers are registered per run using the request configuration.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRunID fixes the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(o *Orchestrator) {
		o.runID = id
	}
}

// Orchestrator coordinates the header → wrapper → renderer pipeline.
type Orchestrator struct {
	loader   header.Loader
	parser   header.Parser
	registry *render.Registry
	logger   *slog.Logger
	runID    string
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.parser == nil {
		o.parser = internalParser.New(header.NewParserOptions())
	}
	return o
}

// Request describes one generation run.
type Request struct {
	Config config.Config

	// Only restricts generation to the named modules. The auxiliary files
	// are still produced.
	Only []string
}

// Result carries everything a run produced.
type Result struct {
	RunID     string           `json:"run_id"`
	CommitID  string           `json:"commit_id"`
	Modules   []wrapper.Module `json:"modules"`
	Artifacts []Artifact       `json:"artifacts"`
}

// Artifact returns the artifact written to path.
func (r Result) Artifact(path string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Path == path {
			return a, true
		}
	}
	return Artifact{}, false
}

// Generate runs the pipeline. Any failure, including a missing template
// placeholder, aborts the run and no artifacts are returned.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cfg := req.Config
	commitID, err := cfg.ResolveCommitID()
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	runID := o.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := o.logger.With("run_id", runID, "commit_id", commitID)

	bundle := render.Bundle{Package: cfg.Package, CommitID: commitID}
	builder := wrapper.NewBuilder(wrapper.Options{
		Enums:      cfg.Enums,
		Skip:       cfg.Skip,
		BufferSize: cfg.BufferSizeConstant,
		Logger:     logger,
	})

	only := render.RenderOptions{Only: req.Only}
	for _, m := range cfg.Modules {
		if !only.Selected(m.Name) {
			continue
		}
		mod, err := o.buildModule(ctx, cfg, m, commitID, builder)
		if err != nil {
			return Result{}, err
		}
		logger.Info("converted module", "module", mod.Name, "header", mod.Header,
			"functions", len(mod.Functions), "skipped", len(mod.Skipped))
		bundle.Modules = append(bundle.Modules, mod)
	}

	if path := cfg.ConstantsPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("orchestrator: read constants: %w", err)
		}
		bundle.Constants = data
	}

	registry, err := o.registryFor(cfg, logger)
	if err != nil {
		return Result{}, err
	}

	result := Result{RunID: runID, CommitID: commitID, Modules: bundle.Modules}
	options := render.RenderOptions{Placeholders: cfg.Placeholders}
	for _, renderer := range registry.All() {
		outputs, err := renderer.Render(ctx, bundle, options)
		if err != nil {
			return Result{}, fmt.Errorf("orchestrator: renderer %s: %w", renderer.Name(), err)
		}
		for _, out := range outputs {
			result.Artifacts = append(result.Artifacts, newArtifact(renderer.Name(), out.Path, out.Text))
		}
	}
	logger.Info("generation finished", "artifacts", len(result.Artifacts))
	return result, nil
}

// Inspect loads and converts a single module without rendering it.
func (o *Orchestrator) Inspect(ctx context.Context, cfg config.Config, name string) (wrapper.Module, error) {
	m, ok := cfg.Lookup(name)
	if !ok {
		return wrapper.Module{}, fmt.Errorf("orchestrator: module %q not configured", name)
	}
	commitID, err := cfg.ResolveCommitID()
	if err != nil && cfg.HeaderURL != "" {
		return wrapper.Module{}, fmt.Errorf("orchestrator: %w", err)
	}
	builder := wrapper.NewBuilder(wrapper.Options{
		Enums:      cfg.Enums,
		Skip:       cfg.Skip,
		BufferSize: cfg.BufferSizeConstant,
		Logger:     o.logger,
	})
	return o.buildModule(ctx, cfg, m, commitID, builder)
}

func (o *Orchestrator) buildModule(ctx context.Context, cfg config.Config, m config.Module, commitID string, builder *wrapper.Builder) (wrapper.Module, error) {
	src, err := cfg.HeaderSource(m, commitID)
	if err != nil {
		return wrapper.Module{}, fmt.Errorf("orchestrator: module %s: %w", m.Name, err)
	}
	doc, err := o.loaderFor(cfg).Load(ctx, src)
	if err != nil {
		return wrapper.Module{}, fmt.Errorf("orchestrator: load %s: %w", m.Header, err)
	}
	file, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return wrapper.Module{}, fmt.Errorf("orchestrator: parse %s: %w", m.Header, err)
	}
	// Remote sources are named after the URL; keep the configured header
	// name for the module docstring.
	file.Name = m.Header

	mod, err := builder.Build(m.Name, file)
	if err != nil {
		return wrapper.Module{}, fmt.Errorf("orchestrator: %w", err)
	}
	return mod, nil
}

func (o *Orchestrator) loaderFor(cfg config.Config) header.Loader {
	if o.loader != nil {
		return o.loader
	}
	var opts []header.LoaderOption
	if cfg.HeaderURL != "" {
		opts = append(opts, header.WithHTTPFallback(defaultHTTPTimeout))
	}
	return internalLoader.New(header.NewLoaderOptions(opts...))
}

func (o *Orchestrator) registryFor(cfg config.Config, logger *slog.Logger) (*render.Registry, error) {
	if o.registry != nil {
		return o.registry, nil
	}
	registry := render.NewRegistry()
	options := []python.Option{
		python.WithLogger(logger),
		python.WithTemplatesDir(cfg.TemplatesDir),
		python.WithGlobals(cfg.Placeholders),
	}
	if err := python.Register(registry, options...); err != nil {
		return nil, fmt.Errorf("orchestrator: default renderers: %w", err)
	}
	return registry, nil
}
