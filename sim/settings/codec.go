package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an encoding of the settings record.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ValidFormats is the set of recognized format names.
var ValidFormats = map[string]bool{"json": true, "yaml": true, "yml": true}

// ParseFormat maps a format name to a Format. Unknown names are an error.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown settings format %q", name)
}

// MalformedImportError reports an imported record that is not well-formed.
// Absent, extra and non-numeric fields are not errors.
type MalformedImportError struct {
	Format Format
	Err    error
}

func (e *MalformedImportError) Error() string {
	return fmt.Sprintf("malformed %s settings: %v", e.Format, e.Err)
}

func (e *MalformedImportError) Unwrap() error { return e.Err }

// DetectFormat treats payloads whose first non-space byte is '{' as JSON and
// everything else as YAML.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses a settings record. Unknown fields are ignored.
func Decode(data []byte) (*Settings, error) {
	format := DetectFormat(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &MalformedImportError{Format: format, Err: fmt.Errorf("empty document")}
	}
	var s Settings
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, &MalformedImportError{Format: format, Err: err}
	}
	return &s, nil
}

// Load reads and parses a settings file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

// Encode writes the record in the given format. JSON output is indented.
func (s *Settings) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("unknown settings format %q", format)
}
