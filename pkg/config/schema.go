package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed woodfmt-config.schema.json
var configSchema []byte

// ValidateYAML validates a YAML project config file against the embedded schema.
func ValidateYAML(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	return ValidateConfig(jsonData)
}

// ValidateTOML validates a TOML project config file against the embedded schema.
func ValidateTOML(data []byte) error {
	doc := map[string]interface{}{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid TOML: %w", err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	return ValidateConfig(jsonData)
}

// ValidateFile validates data using the decoder implied by the file extension.
func ValidateFile(path string, data []byte) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ValidateTOML(data)
	}
	return ValidateYAML(data)
}

// ValidateConfig validates JSON config data against the embedded schema.
func ValidateConfig(configData []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(configData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
