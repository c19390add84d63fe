// Package config loads the generator settings from YAML or .properties
// files and fills in the defaults for the stock RedPitaya layout.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/header"
)

// Module pairs a Python module name with the header it is generated from.
type Module struct {
	Name   string `yaml:"name" json:"name"`
	Header string `yaml:"header" json:"header"`
}

// Config holds every generator setting.
type Config struct {
	Package            string            `yaml:"package,omitempty" json:"package,omitempty"`
	SourceDir          string            `yaml:"source_dir,omitempty" json:"source_dir,omitempty"`
	OutputDir          string            `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	TemplatesDir       string            `yaml:"templates_dir,omitempty" json:"templates_dir,omitempty"`
	CommitID           string            `yaml:"commit_id,omitempty" json:"commit_id,omitempty"`
	CommitFile         string            `yaml:"commit_file,omitempty" json:"commit_file,omitempty"`
	ConstantsFile      string            `yaml:"constants_file,omitempty" json:"constants_file,omitempty"`
	BufferSizeConstant string            `yaml:"buffer_size_constant,omitempty" json:"buffer_size_constant,omitempty"`
	HeaderURL          string            `yaml:"header_url,omitempty" json:"header_url,omitempty"`
	Modules            []Module          `yaml:"modules,omitempty" json:"modules,omitempty"`
	Skip               []string          `yaml:"skip,omitempty" json:"skip,omitempty"`
	Enums              map[string]string `yaml:"enums,omitempty" json:"enums,omitempty"`
	Placeholders       map[string]string `yaml:"placeholders,omitempty" json:"placeholders,omitempty"`
	Formatters         [][]string        `yaml:"formatters,omitempty" json:"formatters,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Package:            "redpipy",
		SourceDir:          "sources",
		OutputDir:          "redpipy",
		CommitFile:         "sha.txt",
		ConstantsFile:      "constants.py",
		BufferSizeConstant: "constants.ADC_BUFFER_SIZE",
		Modules: []Module{
			{Name: "acq", Header: "rp_acq.h"},
			{Name: "acq_axi", Header: "rp_acq_axi.h"},
			{Name: "gen", Header: "rp_gen.h"},
			{Name: "rp", Header: "rp.h"},
		},
		Skip: []string{"rp_createBuffer", "rp_deleteBuffer"},
		Formatters: [][]string{
			{"ruff", "format"},
			{"ruff", "check", "--fix"},
		},
	}
}

// Merge returns c with every non-zero field of override applied.
func (c Config) Merge(override Config) Config {
	out := c
	mergeString(&out.Package, override.Package)
	mergeString(&out.SourceDir, override.SourceDir)
	mergeString(&out.OutputDir, override.OutputDir)
	mergeString(&out.TemplatesDir, override.TemplatesDir)
	mergeString(&out.CommitID, override.CommitID)
	mergeString(&out.CommitFile, override.CommitFile)
	mergeString(&out.ConstantsFile, override.ConstantsFile)
	mergeString(&out.BufferSizeConstant, override.BufferSizeConstant)
	mergeString(&out.HeaderURL, override.HeaderURL)
	if override.Modules != nil {
		out.Modules = override.Modules
	}
	if override.Skip != nil {
		out.Skip = override.Skip
	}
	if override.Enums != nil {
		out.Enums = override.Enums
	}
	if override.Placeholders != nil {
		out.Placeholders = override.Placeholders
	}
	if override.Formatters != nil {
		out.Formatters = override.Formatters
	}
	return out
}

func mergeString(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}

// ModuleNames lists the configured module names.
func (c Config) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		names = append(names, m.Name)
	}
	return names
}

// Lookup returns the module called name.
func (c Config) Lookup(name string) (Module, bool) {
	for _, m := range c.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}

// ResolveCommitID returns CommitID, falling back to the first line of
// CommitFile (relative to SourceDir).
func (c Config) ResolveCommitID() (string, error) {
	if id := strings.TrimSpace(c.CommitID); id != "" {
		return id, nil
	}
	if c.CommitFile == "" {
		return "", errors.New("config: commit_id or commit_file is required")
	}
	data, err := os.ReadFile(c.path(c.CommitFile))
	if err != nil {
		return "", fmt.Errorf("config: read commit file: %w", err)
	}
	id := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	if id == "" {
		return "", fmt.Errorf("config: commit file %s is empty", c.CommitFile)
	}
	return id, nil
}

// HeaderSource locates the header of m. With HeaderURL set, headers are
// fetched over HTTP with "{commit_id}" and "{header}" substituted.
func (c Config) HeaderSource(m Module, commitID string) (header.Source, error) {
	if c.HeaderURL == "" {
		return header.SourceFromFile(c.path(m.Header)), nil
	}
	url := strings.NewReplacer("{commit_id}", commitID, "{header}", m.Header).Replace(c.HeaderURL)
	return header.SourceFromURL(url)
}

// ConstantsPath returns the constants file location, or "" when disabled.
func (c Config) ConstantsPath() string {
	if c.ConstantsFile == "" {
		return ""
	}
	return c.path(c.ConstantsFile)
}

func (c Config) path(name string) string {
	if filepath.IsAbs(name) || c.SourceDir == "" {
		return name
	}
	return filepath.Join(c.SourceDir, name)
}
