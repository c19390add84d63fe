package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ManifestName is the file, inside the output directory, recording what
// the last runs wrote.
const ManifestName = ".rpwrap-manifest.json"

// ManifestEntry records one written file.
type ManifestEntry struct {
	// Digest is the hash of the file as left on disk (after formatters).
	Digest string `json:"digest"`
	// Generated is the hash of the rendered text before formatting.
	Generated string `json:"generated"`
	RunID     string `json:"run_id"`
	CommitID  string `json:"commit_id"`
}

// Manifest maps artifact paths to their last written state.
type Manifest struct {
	RunID    string                   `json:"run_id"`
	CommitID string                   `json:"commit_id"`
	Files    map[string]ManifestEntry `json:"files"`
}

// ReadManifest loads the manifest in dir. A missing file yields an empty
// manifest.
func ReadManifest(dir string) (Manifest, error) {
	m := Manifest{Files: map[string]ManifestEntry{}}
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("orchestrator: read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("orchestrator: decode manifest: %w", err)
	}
	if m.Files == nil {
		m.Files = map[string]ManifestEntry{}
	}
	return m, nil
}

// Paths returns the recorded paths, sorted.
func (m Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for path := range m.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func writeManifest(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return fmt.Errorf("orchestrator: write manifest: %w", err)
	}
	return nil
}
