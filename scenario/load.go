package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a scenario from path, choosing the format by extension.
// Scenarios without a name are named after the file.
func LoadFile(path string) (*Scenario, error) {
	var (
		s   *Scenario
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var data []byte
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read scenario: %w", err)
		}
		s, err = ParseYAML(data)
	case ".lua":
		s, err = LoadLua(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ParseYAML decodes a scenario document. Unknown fields are rejected so
// typos don't silently fall back to defaults.
func ParseYAML(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteYAML renders s as a scenario document.
func (s *Scenario) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	return enc.Close()
}
