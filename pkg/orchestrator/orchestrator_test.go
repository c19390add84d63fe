package orchestrator_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rpwrap/pkg/config"
	"github.com/goliatone/go-rpwrap/pkg/module"
	"github.com/goliatone/go-rpwrap/pkg/orchestrator"
	"github.com/goliatone/go-rpwrap/pkg/render"
	"github.com/goliatone/go-rpwrap/pkg/renderers/python"
	"github.com/goliatone/go-rpwrap/pkg/testsupport"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SourceDir = filepath.Join("testdata", "sources")
	cfg.Modules = []config.Module{
		{Name: "acq", Header: "rp_acq.h"},
		{Name: "gen", Header: "rp_gen.h"},
	}
	cfg.Formatters = nil
	return cfg
}

func artifactPaths(result orchestrator.Result) []string {
	var paths []string
	for _, a := range result.Artifacts {
		paths = append(paths, a.Path)
	}
	return paths
}

func TestOrchestrator_Generate(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithLogger(quietLogger()), orchestrator.WithRunID("run-1"))

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: testConfig()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if result.RunID != "run-1" || result.CommitID != "c0ffee1234" {
		t.Fatalf("unexpected run metadata %q %q", result.RunID, result.CommitID)
	}
	want := []string{"constants.py", "error.py", "acq.py", "gen.py", "__init__.py"}
	if diff := cmp.Diff(want, artifactPaths(result)); diff != "" {
		t.Fatalf("artifact mismatch (-want +got):\n%s", diff)
	}
	for _, a := range result.Artifacts {
		if a.Digest != orchestrator.Digest([]byte(a.Text)) {
			t.Fatalf("%s: digest does not match text", a.Path)
		}
	}

	acq, _ := result.Artifact("acq.py")
	for _, want := range []string{
		"    redpipy.acq\n    ~~~~~~~~~~~\n",
		"    - rp_deleteBuffer",
		"    original file: rp_acq.h",
		"    commit id: c0ffee1234",
		"def set_arm_keep(enable: bool) -> None:",
		"def get_decimation() -> constants.Decimation:",
		"def start() -> None:",
		"def get_data_raw(channel: constants.Channel, pos: int) -> npt.NDArray[np.int16]:",
		"def get_normalized_data_pos(pos: int) -> int:",
		"def get_error(error_code: int) -> str:",
	} {
		if !strings.Contains(acq.Text, want) {
			t.Fatalf("acq.py missing %q:\n%s", want, acq.Text)
		}
	}

	gen, _ := result.Artifact("gen.py")
	for _, want := range []string{
		"def reset() -> None:",
		"def amp(channel: constants.Channel, amplitude: float) -> None:",
		`raise RPPError("rp_GenAmp", _to_debug((channel.value, amplitude)), __status_code)`,
		"def get_freq(channel: constants.Channel) -> float:",
	} {
		if !strings.Contains(gen.Text, want) {
			t.Fatalf("gen.py missing %q:\n%s", want, gen.Text)
		}
	}

	constants, _ := result.Artifact("constants.py")
	raw, err := os.ReadFile(filepath.Join("testdata", "sources", "constants.py"))
	if err != nil {
		t.Fatalf("read constants: %v", err)
	}
	if constants.Text != string(raw) {
		t.Fatalf("constants.py not copied verbatim")
	}

	if len(result.Modules) != 2 || result.Modules[0].Skipped[0] != "rp_deleteBuffer" {
		t.Fatalf("unexpected modules %+v", result.Modules)
	}
}

func TestOrchestrator_GenerateIsDeterministic(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithLogger(quietLogger()))
	first, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: testConfig()})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: testConfig()})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.RunID == second.RunID {
		t.Fatalf("expected distinct run ids")
	}
	for i := range first.Artifacts {
		if first.Artifacts[i].Digest != second.Artifacts[i].Digest {
			t.Fatalf("%s differs between runs", first.Artifacts[i].Path)
		}
	}
}

func TestOrchestrator_Only(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithLogger(quietLogger()))
	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: testConfig(), Only: []string{"gen"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, ok := result.Artifact("acq.py"); ok {
		t.Fatalf("acq.py should not be generated")
	}
	pkg, _ := result.Artifact("__init__.py")
	if !strings.Contains(pkg.Text, "from . import constants, error, gen") {
		t.Fatalf("unexpected __init__.py:\n%s", pkg.Text)
	}
}

func TestOrchestrator_MissingPlaceholderAbortsRun(t *testing.T) {
	tpl, err := module.NewTemplate("custom", "{{ qualname }} {{ author }}\n{{ content }}")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	registry := render.NewRegistry()
	if err := python.Register(registry, python.WithModuleTemplate(tpl), python.WithLogger(quietLogger())); err != nil {
		t.Fatalf("register: %v", err)
	}
	orch := orchestrator.New(orchestrator.WithRegistry(registry), orchestrator.WithLogger(quietLogger()))

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: testConfig()})
	if !errors.Is(err, module.ErrMissingPlaceholder) {
		t.Fatalf("expected ErrMissingPlaceholder, got %v", err)
	}
	var missing *module.MissingPlaceholderError
	if !errors.As(err, &missing) || missing.Name != "author" {
		t.Fatalf("expected author to be reported, got %v", err)
	}
	if len(result.Artifacts) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(result.Artifacts))
	}

	cfg := testConfig()
	cfg.Placeholders = map[string]string{"author": "lab"}
	result, err = orch.Generate(testsupport.Context(), orchestrator.Request{Config: cfg})
	if err != nil {
		t.Fatalf("generate with placeholder: %v", err)
	}
	acq, _ := result.Artifact("acq.py")
	if !strings.HasPrefix(acq.Text, "redpipy.acq lab\n") {
		t.Fatalf("unexpected text:\n%s", acq.Text)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithLogger(quietLogger()))

	cases := map[string]func(*config.Config){
		"missing header":    func(c *config.Config) { c.Modules = append(c.Modules, config.Module{Name: "rp", Header: "rp.h"}) },
		"missing constants": func(c *config.Config) { c.ConstantsFile = "nope.py" },
		"missing commit":    func(c *config.Config) { c.CommitFile = "nope.txt" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: cfg}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestOrchestrator_RemoteHeaders(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		data, err := os.ReadFile(filepath.Join("testdata", "sources", filepath.Base(r.URL.Path)))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.CommitID = "abc"
	cfg.HeaderURL = srv.URL + "/{commit_id}/include/{header}"

	orch := orchestrator.New(orchestrator.WithLogger(quietLogger()))
	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: cfg})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"/abc/include/rp_acq.h", "/abc/include/rp_gen.h"}, requested); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
	acq, _ := result.Artifact("acq.py")
	if !strings.Contains(acq.Text, "original file: rp_acq.h") {
		t.Fatalf("expected header name in docstring:\n%s", acq.Text)
	}
}

func TestOrchestrator_Inspect(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithLogger(quietLogger()))
	mod, err := orch.Inspect(testsupport.Context(), testConfig(), "gen")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var names []string
	for _, f := range mod.Functions {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"reset", "amp", "get_freq"}, names); diff != "" {
		t.Fatalf("functions mismatch (-want +got):\n%s", diff)
	}
	if _, err := orch.Inspect(testsupport.Context(), testConfig(), "nope"); err == nil {
		t.Fatalf("expected unknown module error")
	}
}
