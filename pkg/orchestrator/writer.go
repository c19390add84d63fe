package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prompter confirms overwriting a file edited since it was generated.
type Prompter interface {
	ConfirmOverwrite(ctx context.Context, path string) (bool, error)
}

// CommandRunner executes a formatter command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Status describes what happened to one artifact.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusKept      Status = "kept"
)

// FileReport is the outcome for one artifact.
type FileReport struct {
	Path   string
	Status Status
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithForce overwrites hand-edited files without asking.
func WithForce(force bool) WriterOption {
	return func(w *Writer) {
		w.force = force
	}
}

// WithDryRun reports what would change without touching the disk.
func WithDryRun(dryRun bool) WriterOption {
	return func(w *Writer) {
		w.dryRun = dryRun
	}
}

// WithPrompter asks before overwriting hand-edited files. Without one (and
// without force) such files are kept.
func WithPrompter(p Prompter) WriterOption {
	return func(w *Writer) {
		w.prompter = p
	}
}

// WithFormatters sets the commands run on every written .py file. The file
// path is appended to each argv.
func WithFormatters(formatters [][]string) WriterOption {
	return func(w *Writer) {
		w.formatters = formatters
	}
}

// WithCommandRunner replaces os/exec for formatter commands.
func WithCommandRunner(run CommandRunner) WriterOption {
	return func(w *Writer) {
		if run != nil {
			w.run = run
		}
	}
}

// WithWriterLogger sets the structured logger.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Writer persists artifacts into an output directory.
type Writer struct {
	dir        string
	force      bool
	dryRun     bool
	prompter   Prompter
	formatters [][]string
	run        CommandRunner
	logger     *slog.Logger
}

// NewWriter constructs a Writer rooted at dir.
func NewWriter(dir string, options ...WriterOption) *Writer {
	w := &Writer{dir: dir, run: execRunner, logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// Write persists result. Files whose rendered text is unchanged are left
// alone. Files edited since the last run are only replaced with force or a
// confirming Prompter; when any are kept, Write returns ErrConfirmDeclined
// after writing everything else. A dry run reports such files as kept
// without failing.
func (w *Writer) Write(ctx context.Context, result Result) ([]FileReport, error) {
	manifest, err := ReadManifest(w.dir)
	if err != nil {
		return nil, err
	}
	if !w.dryRun {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return nil, fmt.Errorf("orchestrator: create output dir: %w", err)
		}
	}

	var (
		reports []FileReport
		kept    []string
	)
	for _, artifact := range result.Artifacts {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		status, err := w.writeOne(ctx, artifact, result, &manifest)
		if err != nil {
			return reports, err
		}
		if status == StatusKept {
			kept = append(kept, artifact.Path)
		}
		w.logger.Info("artifact", "path", artifact.Path, "status", status, "digest", artifact.Digest)
		reports = append(reports, FileReport{Path: artifact.Path, Status: status})
	}

	if !w.dryRun {
		manifest.RunID = result.RunID
		manifest.CommitID = result.CommitID
		if err := writeManifest(w.dir, manifest); err != nil {
			return reports, err
		}
	}
	if len(kept) > 0 && !w.dryRun {
		return reports, fmt.Errorf("%w: %s", ErrConfirmDeclined, strings.Join(kept, ", "))
	}
	return reports, nil
}

func (w *Writer) writeOne(ctx context.Context, artifact Artifact, result Result, manifest *Manifest) (Status, error) {
	path := filepath.Join(w.dir, filepath.FromSlash(artifact.Path))
	entry, known := manifest.Files[artifact.Path]

	status := StatusCreated
	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", fmt.Errorf("orchestrator: read %s: %w", artifact.Path, err)
	default:
		status = StatusUpdated
		onDisk := Digest(existing)
		if onDisk == artifact.Digest || known && onDisk == entry.Digest && entry.Generated == artifact.Digest {
			if !known && !w.dryRun {
				manifest.Files[artifact.Path] = ManifestEntry{
					Digest:    onDisk,
					Generated: artifact.Digest,
					RunID:     result.RunID,
					CommitID:  result.CommitID,
				}
			}
			return StatusUnchanged, nil
		}
		if known && onDisk != entry.Digest {
			ok, err := w.confirm(ctx, artifact.Path)
			if err != nil {
				return "", err
			}
			if !ok {
				return StatusKept, nil
			}
		}
	}

	if w.dryRun {
		return status, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("orchestrator: create dir for %s: %w", artifact.Path, err)
	}
	if err := os.WriteFile(path, []byte(artifact.Text), 0o644); err != nil {
		return "", fmt.Errorf("orchestrator: write %s: %w", artifact.Path, err)
	}

	diskDigest := artifact.Digest
	if strings.HasSuffix(path, ".py") && len(w.formatters) > 0 {
		w.format(ctx, path)
		if formatted, err := os.ReadFile(path); err == nil {
			diskDigest = Digest(formatted)
		}
	}

	manifest.Files[artifact.Path] = ManifestEntry{
		Digest:    diskDigest,
		Generated: artifact.Digest,
		RunID:     result.RunID,
		CommitID:  result.CommitID,
	}
	return status, nil
}

func (w *Writer) confirm(ctx context.Context, path string) (bool, error) {
	if w.force {
		return true, nil
	}
	if w.prompter == nil || w.dryRun {
		return false, nil
	}
	return w.prompter.ConfirmOverwrite(ctx, path)
}

// format runs every formatter on path. Failures are logged, the generated
// file stays as written.
func (w *Writer) format(ctx context.Context, path string) {
	for _, argv := range w.formatters {
		if len(argv) == 0 {
			continue
		}
		args := append(append([]string(nil), argv[1:]...), path)
		if err := w.run(ctx, argv[0], args...); err != nil {
			w.logger.Warn("formatter failed", "command", argv[0], "path", path, "error", err)
		}
	}
}
