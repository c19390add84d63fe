package orchestrator

import (
	"strconv"

	"github.com/twmb/murmur3"
)

// Artifact is one generated file.
type Artifact struct {
	// Path is relative to the output directory.
	Path string `json:"path"`
	// Renderer names the renderer that produced the file.
	Renderer string `json:"renderer"`
	Text     string `json:"-"`
	Digest   string `json:"digest"`
}

// Digest returns the murmur3 64-bit hash of data as lower case hex.
func Digest(data []byte) string {
	hasher := murmur3.New64()
	hasher.Write(data)

	return strconv.FormatUint(hasher.Sum64(), 16)
}

func newArtifact(renderer, path, text string) Artifact {
	return Artifact{
		Path:     path,
		Renderer: renderer,
		Text:     text,
		Digest:   Digest([]byte(text)),
	}
}
