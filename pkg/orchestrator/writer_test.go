package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stubPrompter struct {
	answer bool
	asked  []string
}

func (p *stubPrompter) ConfirmOverwrite(_ context.Context, path string) (bool, error) {
	p.asked = append(p.asked, path)
	return p.answer, nil
}

func quiet() WriterOption {
	return WithWriterLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func resultWith(texts map[string]string) Result {
	r := Result{RunID: "run", CommitID: "abc"}
	for _, path := range []string{"acq.py", "error.py", "sub/notes.txt"} {
		if text, ok := texts[path]; ok {
			r.Artifacts = append(r.Artifacts, newArtifact("test", path, text))
		}
	}
	return r
}

func statuses(reports []FileReport) map[string]Status {
	out := make(map[string]Status, len(reports))
	for _, r := range reports {
		out[r.Path] = r.Status
	}
	return out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestWriter_CreateThenUnchanged(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	result := resultWith(map[string]string{"acq.py": "a = 1\n", "sub/notes.txt": "hi\n"})

	reports, err := NewWriter(dir, quiet()).Write(ctx, result)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := map[string]Status{"acq.py": StatusCreated, "sub/notes.txt": StatusCreated}
	if diff := cmp.Diff(want, statuses(reports)); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
	if got := readFile(t, filepath.Join(dir, "sub", "notes.txt")); got != "hi\n" {
		t.Fatalf("unexpected content %q", got)
	}

	manifest, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if diff := cmp.Diff([]string{"acq.py", "sub/notes.txt"}, manifest.Paths()); diff != "" {
		t.Fatalf("manifest paths mismatch (-want +got):\n%s", diff)
	}
	entry := manifest.Files["acq.py"]
	if entry.Digest != Digest([]byte("a = 1\n")) || entry.RunID != "run" || entry.CommitID != "abc" {
		t.Fatalf("unexpected manifest entry %+v", entry)
	}

	reports, err = NewWriter(dir, quiet()).Write(ctx, result)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	want = map[string]Status{"acq.py": StatusUnchanged, "sub/notes.txt": StatusUnchanged}
	if diff := cmp.Diff(want, statuses(reports)); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_UpdatesGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	if _, err := NewWriter(dir, quiet()).Write(ctx, resultWith(map[string]string{"acq.py": "a = 1\n"})); err != nil {
		t.Fatalf("write: %v", err)
	}

	reports, err := NewWriter(dir, quiet()).Write(ctx, resultWith(map[string]string{"acq.py": "a = 2\n"}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if reports[0].Status != StatusUpdated {
		t.Fatalf("expected updated, got %s", reports[0].Status)
	}
	if got := readFile(t, filepath.Join(dir, "acq.py")); got != "a = 2\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestWriter_HandEdits(t *testing.T) {
	setup := func(t *testing.T) string {
		dir := t.TempDir()
		if _, err := NewWriter(dir, quiet()).Write(context.Background(), resultWith(map[string]string{"acq.py": "a = 1\n", "error.py": "e = 1\n"})); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "acq.py"), []byte("a = 1  # tweaked\n"), 0o644); err != nil {
			t.Fatalf("edit: %v", err)
		}
		return dir
	}
	next := resultWith(map[string]string{"acq.py": "a = 3\n", "error.py": "e = 2\n"})

	t.Run("kept without prompter", func(t *testing.T) {
		dir := setup(t)
		reports, err := NewWriter(dir, quiet()).Write(context.Background(), next)
		if !errors.Is(err, ErrConfirmDeclined) {
			t.Fatalf("expected ErrConfirmDeclined, got %v", err)
		}
		want := map[string]Status{"acq.py": StatusKept, "error.py": StatusUpdated}
		if diff := cmp.Diff(want, statuses(reports)); diff != "" {
			t.Fatalf("status mismatch (-want +got):\n%s", diff)
		}
		if got := readFile(t, filepath.Join(dir, "acq.py")); got != "a = 1  # tweaked\n" {
			t.Fatalf("hand edit lost: %q", got)
		}
		if got := readFile(t, filepath.Join(dir, "error.py")); got != "e = 2\n" {
			t.Fatalf("other files should still be written: %q", got)
		}
	})

	t.Run("force", func(t *testing.T) {
		dir := setup(t)
		if _, err := NewWriter(dir, quiet(), WithForce(true)).Write(context.Background(), next); err != nil {
			t.Fatalf("write: %v", err)
		}
		if got := readFile(t, filepath.Join(dir, "acq.py")); got != "a = 3\n" {
			t.Fatalf("expected overwrite, got %q", got)
		}
	})

	t.Run("prompter confirms", func(t *testing.T) {
		dir := setup(t)
		p := &stubPrompter{answer: true}
		if _, err := NewWriter(dir, quiet(), WithPrompter(p)).Write(context.Background(), next); err != nil {
			t.Fatalf("write: %v", err)
		}
		if diff := cmp.Diff([]string{"acq.py"}, p.asked); diff != "" {
			t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
		}
		if got := readFile(t, filepath.Join(dir, "acq.py")); got != "a = 3\n" {
			t.Fatalf("expected overwrite, got %q", got)
		}
	})

	t.Run("prompter declines", func(t *testing.T) {
		dir := setup(t)
		p := &stubPrompter{answer: false}
		_, err := NewWriter(dir, quiet(), WithPrompter(p)).Write(context.Background(), next)
		if !errors.Is(err, ErrConfirmDeclined) {
			t.Fatalf("expected ErrConfirmDeclined, got %v", err)
		}
	})
}

func TestWriter_DryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	reports, err := NewWriter(dir, quiet(), WithDryRun(true)).Write(context.Background(), resultWith(map[string]string{"acq.py": "a = 1\n"}))
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if reports[0].Status != StatusCreated {
		t.Fatalf("expected created, got %s", reports[0].Status)
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run touched the disk: %v", err)
	}
}

func TestWriter_Formatters(t *testing.T) {
	dir := t.TempDir()
	var calls [][]string
	runner := func(_ context.Context, name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		if name == "broken" {
			return errors.New("exit status 1")
		}
		path := args[len(args)-1]
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = f.WriteString("# formatted\n")
		return err
	}
	w := func() *Writer {
		return NewWriter(dir, quiet(),
			WithFormatters([][]string{{"ruff", "format"}, {"broken"}, {}}),
			WithCommandRunner(runner),
		)
	}
	result := resultWith(map[string]string{"acq.py": "a = 1\n", "sub/notes.txt": "hi\n"})

	if _, err := w().Write(context.Background(), result); err != nil {
		t.Fatalf("write: %v", err)
	}
	acq := filepath.Join(dir, "acq.py")
	want := [][]string{{"ruff", "format", acq}, {"broken", acq}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("formatter calls mismatch (-want +got):\n%s", diff)
	}
	if got := readFile(t, acq); got != "a = 1\n# formatted\n" {
		t.Fatalf("unexpected formatted file %q", got)
	}

	calls = nil
	reports, err := w().Write(context.Background(), result)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if statuses(reports)["acq.py"] != StatusUnchanged || len(calls) != 0 {
		t.Fatalf("formatted file should be unchanged on rerun, got %v with %d calls", reports, len(calls))
	}
}

func TestDigest(t *testing.T) {
	if Digest([]byte("a")) == Digest([]byte("b")) {
		t.Fatalf("digests should differ")
	}
	if Digest([]byte("same")) != Digest([]byte("same")) {
		t.Fatalf("digest not stable")
	}
}
