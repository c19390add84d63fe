// Package rpwrap generates a Pythonic wrapper package around RedPitaya's rp
// binding from the vendor C headers.
package rpwrap

import (
	"context"

	"github.com/goliatone/go-rpwrap/pkg/config"
	"github.com/goliatone/go-rpwrap/pkg/debugvalue"
	"github.com/goliatone/go-rpwrap/pkg/orchestrator"
)

// Config aliases config.Config for callers of the top-level package.
type Config = config.Config

// Result aliases the orchestrator result.
type Result = orchestrator.Result

// Artifact aliases a single generated file.
type Artifact = orchestrator.Artifact

// DefaultConfig returns the stock RedPitaya layout (acq, acq_axi, gen, rp).
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a YAML or .properties file over the defaults.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate renders every artifact described by cfg without writing them.
func Generate(ctx context.Context, cfg Config, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Config: cfg})
}

// GenerateTo renders cfg and writes the artifacts into cfg.OutputDir,
// running cfg.Formatters on each Python file.
func GenerateTo(ctx context.Context, cfg Config, writerOptions []orchestrator.WriterOption, options ...orchestrator.Option) (Result, []orchestrator.FileReport, error) {
	result, err := Generate(ctx, cfg, options...)
	if err != nil {
		return Result{}, nil, err
	}
	opts := append([]orchestrator.WriterOption{orchestrator.WithFormatters(cfg.Formatters)}, writerOptions...)
	reports, err := orchestrator.NewWriter(cfg.OutputDir, opts...).Write(ctx, result)
	return result, reports, err
}

// Sanitize replaces values that are not plain scalars with type markers, the
// same reduction the generated _to_debug helper applies on the Python side.
func Sanitize(values ...any) []any {
	return debugvalue.Sanitize(values...)
}
