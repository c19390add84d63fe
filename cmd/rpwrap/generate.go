package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/aquasecurity/table"

	"github.com/goliatone/go-rpwrap/pkg/orchestrator"
	"github.com/goliatone/go-rpwrap/pkg/prompt"
)

func runGenerate(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var cf configFlags
	cf.register(fs)
	only := fs.String("only", "", "comma separated module names to generate")
	force := fs.Bool("force", false, "overwrite files edited since the last run")
	interactive := fs.Bool("interactive", false, "ask before overwriting edited files")
	dryRun := fs.Bool("dry-run", false, "report what would change without writing")
	noFormat := fs.Bool("no-format", false, "skip the configured formatter commands")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}

	cfg, err := cf.load(e.logger)
	if err != nil {
		return err
	}
	if *noFormat {
		cfg.Formatters = nil
	}

	orch := orchestrator.New(orchestrator.WithLogger(e.logger))
	result, err := orch.Generate(ctx, orchestrator.Request{Config: cfg, Only: splitList(*only)})
	if err != nil {
		return err
	}

	opts := []orchestrator.WriterOption{
		orchestrator.WithWriterLogger(e.logger),
		orchestrator.WithForce(*force),
		orchestrator.WithDryRun(*dryRun),
		orchestrator.WithFormatters(cfg.Formatters),
	}
	if *interactive {
		opts = append(opts, orchestrator.WithPrompter(prompt.NewOverwrite(prompt.NewSurvey())))
	}
	reports, writeErr := orchestrator.NewWriter(cfg.OutputDir, opts...).Write(ctx, result)

	tbl := table.New(e.stdout)
	tbl.SetBorders(false)
	tbl.SetHeaders("File", "Status", "Digest")
	for _, r := range reports {
		digest := ""
		if a, ok := result.Artifact(r.Path); ok {
			digest = a.Digest
		}
		tbl.AddRow(r.Path, string(r.Status), digest)
	}
	tbl.Render()

	if errors.Is(writeErr, orchestrator.ErrConfirmDeclined) {
		fmt.Fprintln(e.stderr, "edited files were kept; rerun with -force or -interactive to replace them")
	}
	return writeErr
}
