package bank

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Parse decodes and validates a bank file. The name is used to pick the
// decoder (".yaml"/".yml" are YAML, anything else is JSON) and in errors.
func Parse(data []byte, name string) (*Definition, error) {
	doc, err := decodeDocument(data, name)
	if err != nil {
		return nil, &InvalidError{Source: name, Err: err}
	}
	if err := validateDocument(doc); err != nil {
		return nil, &InvalidError{Source: name, Err: err}
	}

	// Re-encode the validated document so YAML and JSON share one typed path.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, &InvalidError{Source: name, Err: err}
	}
	var def Definition
	if err := json.Unmarshal(normalized, &def); err != nil {
		return nil, &InvalidError{Source: name, Err: err}
	}

	if err := checkFormat(def.Format); err != nil {
		return nil, &InvalidError{Source: name, Err: err}
	}
	if err := checkAnswers(&def); err != nil {
		return nil, &InvalidError{Source: name, Err: err}
	}
	return &def, nil
}

func decodeDocument(data []byte, name string) (any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	return doc, nil
}

// checkFormat accepts any v1.x format version.
func checkFormat(format string) error {
	v := format
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedFormat, format)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: %s (want %s.x)", ErrUnsupportedFormat, format, semver.Major(FormatVersion))
	}
	return nil
}

func checkAnswers(def *Definition) error {
	for i, q := range def.Questions {
		found := false
		for _, c := range q.Choices {
			if c == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: answer %q is not one of its choices", i+1, q.Answer)
		}
	}
	return nil
}

// Marshal encodes a definition as indented JSON in the bank file layout.
func Marshal(def *Definition) ([]byte, error) {
	if def.Format == "" {
		def.Format = FormatVersion
	}
	return json.MarshalIndent(def, "", "  ")
}
