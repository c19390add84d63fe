package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/magiconair/properties"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "config.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("config: decode schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("config: add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Schema returns the embedded JSON Schema document.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// Load reads path and merges it over Default. Files ending in .properties
// are read with magiconair/properties, anything else as YAML (which covers
// JSON).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".properties") {
		cfg, err = ParseProperties(data)
	} else {
		cfg, err = ParseYAML(data)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return Default().Merge(cfg), nil
}

// ParseYAML decodes and validates a YAML document. Defaults are not applied.
func ParseYAML(data []byte) (Config, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	if generic == nil {
		return Config{}, nil
	}
	if err := validate(generic); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

// ParseProperties reads the flat keys from a .properties document. "skip"
// is a comma separated list and "modules" a comma separated list of
// name=header pairs.
func ParseProperties(data []byte) (Config, error) {
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return Config{}, fmt.Errorf("decode properties: %w", err)
	}

	generic := make(map[string]any, props.Len())
	for _, key := range props.Keys() {
		value := props.GetString(key, "")
		switch key {
		case "skip":
			generic[key] = toAny(splitList(value))
		case "modules":
			var modules []any
			for _, pair := range splitList(value) {
				name, hdr, ok := strings.Cut(pair, "=")
				if !ok {
					return Config{}, fmt.Errorf("modules: expected name=header, got %q", pair)
				}
				modules = append(modules, map[string]any{
					"name":   strings.TrimSpace(name),
					"header": strings.TrimSpace(hdr),
				})
			}
			generic[key] = modules
		default:
			generic[key] = value
		}
	}
	if err := validate(generic); err != nil {
		return Config{}, err
	}

	raw, err := json.Marshal(generic)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode properties: %w", err)
	}
	return cfg, nil
}

// validate checks a decoded document against the embedded schema. The value
// is round-tripped through encoding/json so YAML scalars reach the validator
// as JSON types.
func validate(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode for validation: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("encode for validation: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
