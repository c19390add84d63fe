package python

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rpwrap/internal/wrapper"
	"github.com/goliatone/go-rpwrap/pkg/header"
	"github.com/goliatone/go-rpwrap/pkg/module"
	"github.com/goliatone/go-rpwrap/pkg/render"
	"github.com/goliatone/go-rpwrap/pkg/testsupport"
)

const statusDoc = `/**
 * Starts the acquisition.
 * @return If the function is successful, the return value is RP_OK.
 */`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBundle(t *testing.T) render.Bundle {
	t.Helper()
	builder := wrapper.NewBuilder(wrapper.Options{Logger: quietLogger()})

	acq, err := builder.Build("acq", header.File{
		Name: "rp_acq.h",
		Functions: []header.Function{
			{Name: "rp_AcqStart", Return: header.Type{Name: "int"}, Doxygen: statusDoc},
			{Name: "rp_deleteBuffer", Return: header.Type{Name: "void"}},
		},
	})
	if err != nil {
		t.Fatalf("build acq: %v", err)
	}
	gen, err := builder.Build("gen", header.File{
		Name: "rp_gen.h",
		Functions: []header.Function{
			{Name: "rp_GenReset", Return: header.Type{Name: "int"}, Doxygen: statusDoc},
		},
	})
	if err != nil {
		t.Fatalf("build gen: %v", err)
	}

	return render.Bundle{
		Package:   "redpipy",
		CommitID:  "abc123",
		Modules:   []wrapper.Module{acq, gen},
		Constants: []byte("ADC_BUFFER_SIZE = 16384\n"),
	}
}

func TestNewAll_Names(t *testing.T) {
	reg := render.NewRegistry()
	if err := Register(reg, WithLogger(quietLogger())); err != nil {
		t.Fatalf("register: %v", err)
	}
	want := []string{NameConstants, NameErrors, NameModules, NamePackage}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Fatalf("renderer names mismatch (-want +got):\n%s", diff)
	}
}

func TestModules_Render(t *testing.T) {
	r, err := NewModules(WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	outputs, err := r.Render(context.Background(), testBundle(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(outputs) != 2 || outputs[0].Path != "acq.py" || outputs[1].Path != "gen.py" {
		t.Fatalf("unexpected outputs %+v", outputs)
	}

	acq := outputs[0].Text
	if !strings.HasPrefix(acq, "\"\"\"\n    redpipy.acq\n    ~~~~~~~~~~~\n") {
		t.Fatalf("unexpected header:\n%s", acq)
	}
	for _, want := range []string{
		"    Skipped functions",
		"    - rp_deleteBuffer",
		"    original file: rp_acq.h",
		"    commit id: abc123",
		"def _to_debug(values=tuple()):",
		"def start() -> None:",
		"__status_code = rp.rp_AcqStart()",
	} {
		if !strings.Contains(acq, want) {
			t.Fatalf("missing %q in:\n%s", want, acq)
		}
	}
	if strings.Contains(outputs[1].Text, "Skipped functions") {
		t.Fatalf("gen module should not list skipped functions")
	}
}

func TestModules_Only(t *testing.T) {
	r, err := NewModules(WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	outputs, err := r.Render(context.Background(), testBundle(t), render.RenderOptions{Only: []string{"gen"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(outputs) != 1 || outputs[0].Path != "gen.py" {
		t.Fatalf("unexpected outputs %+v", outputs)
	}
}

func TestModules_CustomTemplatePlaceholders(t *testing.T) {
	tpl, err := module.NewTemplate("custom", "{{ qualname }} by {{ author }}\n{{ content }}")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	r, err := NewModules(WithModuleTemplate(tpl), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	outputs, err := r.Render(context.Background(), testBundle(t), render.RenderOptions{})
	if !errors.Is(err, module.ErrMissingPlaceholder) {
		t.Fatalf("expected missing placeholder, got %v", err)
	}
	if outputs != nil {
		t.Fatalf("expected no outputs on failure, got %+v", outputs)
	}

	outputs, err = r.Render(context.Background(), testBundle(t), render.RenderOptions{
		Placeholders: map[string]string{"author": "lab", "qualname": "ignored"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(outputs[0].Text, "redpipy.acq by lab\n") {
		t.Fatalf("unexpected text:\n%s", outputs[0].Text)
	}
}

func TestErrors_Render(t *testing.T) {
	renderers, err := NewAll(WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var errs render.Renderer
	for _, r := range renderers {
		if r.Name() == NameErrors {
			errs = r
		}
	}
	outputs, err := errs.Render(context.Background(), testBundle(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := outputs[0].Text
	if outputs[0].Path != "error.py" {
		t.Fatalf("unexpected path %q", outputs[0].Path)
	}
	for _, want := range []string{
		"    redpipy.error\n    ~~~~~~~~~~~~~\n",
		"commit id: abc123",
		`    StatusCode.OK: "Success",`,
		`    StatusCode.BTS: "Buffer too small",`,
		`    StatusCode.NOTS: "Command not supported",`,
		"class RPPError(Exception):",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestConstants_Render(t *testing.T) {
	outputs, err := (&Constants{}).Render(context.Background(), testBundle(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]render.Output{{Path: "constants.py", Text: "ADC_BUFFER_SIZE = 16384\n"}}, outputs); diff != "" {
		t.Fatalf("constants mismatch (-want +got):\n%s", diff)
	}

	outputs, err = (&Constants{}).Render(context.Background(), render.Bundle{}, render.RenderOptions{})
	if err != nil || outputs != nil {
		t.Fatalf("expected no output without constants, got %+v %v", outputs, err)
	}
}

func TestPackage_Render(t *testing.T) {
	renderers, err := NewAll(WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	pkg := renderers[3]
	outputs, err := pkg.Render(context.Background(), testBundle(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := outputs[0].Text
	for _, want := range []string{
		"from . import constants, error, acq, gen",
		`__all__ = ["constants", "error", "acq", "gen"]`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestNewAll_TemplatesDirShadowsBundled(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "init.py.tpl", "# {{ author }}   \nfrom . import {{ exports|join:\", \" }}\n")
	testsupport.WriteFile(t, dir, "module.py.tpl", "{{ qualname }} ({{ author }})\n{{ content }}")

	renderers, err := NewAll(
		WithTemplatesDir(dir),
		WithGlobals(map[string]string{"author": "lab"}),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	byName := make(map[string]render.Renderer, len(renderers))
	for _, r := range renderers {
		byName[r.Name()] = r
	}
	bundle := testBundle(t)
	ctx := context.Background()

	pkg, err := byName[NamePackage].Render(ctx, bundle, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render package: %v", err)
	}
	if want := "# lab\nfrom . import constants, error, acq, gen\n"; pkg[0].Text != want {
		t.Fatalf("package mismatch\nwant: %q\n got: %q", want, pkg[0].Text)
	}

	errs, err := byName[NameErrors].Render(ctx, bundle, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render errors: %v", err)
	}
	if !strings.Contains(errs[0].Text, "class RPPError(Exception):") {
		t.Fatalf("expected bundled error template, got:\n%s", errs[0].Text)
	}

	mods, err := byName[NameModules].Render(ctx, bundle, render.RenderOptions{
		Placeholders: map[string]string{"author": "lab"},
	})
	if err != nil {
		t.Fatalf("render modules: %v", err)
	}
	if !strings.HasPrefix(mods[0].Text, "redpipy.acq (lab)\n\n\ndef start() -> None:") {
		t.Fatalf("unexpected module text:\n%s", mods[0].Text)
	}
}
