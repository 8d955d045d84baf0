package settings

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a settings value that decodes from a number or from a numeric
// string, since form-based exports store every field as a string. An empty
// or non-numeric string decodes as NaN, which resolves to the field default.
type Number float64

func parseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number(math.NaN())
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(v)
}

// UnmarshalJSON accepts 16, 16.5, "16" and "". Other well-formed values decode as NaN.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = parseNumber(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// Booleans, arrays and objects are non-numeric values, not malformed input.
		*n = Number(math.NaN())
		return nil
	}
	*n = Number(f)
	return nil
}

// UnmarshalYAML accepts scalar nodes with numeric or quoted-numeric content.
// Sequences, mappings and null decode as NaN.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*n = Number(math.NaN())
		return nil
	}
	*n = parseNumber(node.Value)
	return nil
}

// MarshalJSON writes the number without quotes. NaN and infinities encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func num(v float64) *Number {
	n := Number(v)
	return &n
}

// valid reports whether the field was present and numeric.
func (n *Number) valid() bool {
	return n != nil && !math.IsNaN(float64(*n))
}

// intOr truncates the value to an integer. Missing, non-numeric and zero
// values take the fallback.
func (n *Number) intOr(fallback int) int {
	if !n.valid() {
		return fallback
	}
	if v := int(math.Trunc(float64(*n))); v != 0 {
		return v
	}
	return fallback
}

// intOrKeepZero is like intOr but keeps an explicit zero.
func (n *Number) intOrKeepZero(fallback int) int {
	if !n.valid() {
		return fallback
	}
	return int(math.Trunc(float64(*n)))
}

// floatOrKeepZero returns the value, or the fallback when missing or non-numeric.
func (n *Number) floatOrKeepZero(fallback float64) float64 {
	if !n.valid() {
		return fallback
	}
	return float64(*n)
}
