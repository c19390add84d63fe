package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aquasecurity/table"
	"github.com/itchyny/gojq"

	"github.com/goliatone/go-rpwrap/internal/wrapper"
	"github.com/goliatone/go-rpwrap/pkg/config"
	"github.com/goliatone/go-rpwrap/pkg/orchestrator"
)

func runInspect(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var cf configFlags
	cf.register(fs)
	asJSON := fs.Bool("json", false, "print the derived wrappers as JSON")
	query := fs.String("query", "", "gojq expression evaluated over the JSON form")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: expected one module name or header path", errUsage)
	}

	cfg, err := cf.load(e.logger)
	if err != nil {
		return err
	}

	target := fs.Arg(0)
	name := target
	if strings.HasSuffix(target, ".h") {
		name = moduleNameFromHeader(target)
		cfg.SourceDir = filepath.Dir(target)
		cfg.HeaderURL = ""
		cfg.Modules = []config.Module{{Name: name, Header: filepath.Base(target)}}
	}

	orch := orchestrator.New(orchestrator.WithLogger(e.logger))
	mod, err := orch.Inspect(ctx, cfg, name)
	if err != nil {
		return err
	}

	switch {
	case *query != "":
		return runQuery(ctx, e, mod, *query)
	case *asJSON:
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(mod)
	default:
		printModule(e, mod)
		return nil
	}
}

// moduleNameFromHeader maps "rp_acq_axi.h" to "acq_axi" and "rp.h" to "rp".
func moduleNameFromHeader(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".h")
	if trimmed := strings.TrimPrefix(base, "rp_"); trimmed != "" {
		return trimmed
	}
	return base
}

func printModule(e *env, mod wrapper.Module) {
	tbl := table.New(e.stdout)
	tbl.SetColumnMaxWidth(96)
	tbl.SetHeaders("C function", "Python", "Kind", "Status", "Returns")
	for _, f := range mod.Functions {
		status := "no"
		if f.StatusCode {
			status = "yes"
		}
		tbl.AddRow(f.CName, f.Name+"("+f.DefParams()+")", string(f.Kind), status, f.Returns)
	}
	tbl.Render()

	for _, name := range mod.Skipped {
		fmt.Fprintf(e.stdout, "skipped: %s\n", name)
	}
	for _, f := range mod.Functions {
		for _, w := range f.Warnings {
			fmt.Fprintf(e.stdout, "warning: %s: %s\n", f.CName, w)
		}
	}
}

func runQuery(ctx context.Context, e *env, mod wrapper.Module, expr string) error {
	q, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("%w: parse query: %v", errUsage, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return fmt.Errorf("%w: compile query: %v", errUsage, err)
	}

	raw, err := json.Marshal(mod)
	if err != nil {
		return err
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return err
	}

	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := v.(error); ok {
			e.logger.Debug("query failed", debugAttr("value", v))
			return fmt.Errorf("query: %w", err)
		}
		if s, ok := v.(string); ok {
			fmt.Fprintln(e.stdout, s)
			continue
		}
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, string(out))
	}
}
