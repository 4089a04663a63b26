package types

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Severity is the disclosed severity of a risk. The zero value means no
// severity was recorded, which is distinct from any level.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

// ParseSeverity reads "high", "medium" or "low" in any case. An empty value
// yields SeverityNone. Any other disclosed text, such as "critical" from
// upstream extraction, counts as SeverityLow.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SeverityNone
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// IsSet reports whether a level was recorded.
func (s Severity) IsSet() bool {
	return s >= SeverityLow && s <= SeverityHigh
}

// Max returns the higher of two severities. SeverityNone never wins over a level.
func (s Severity) Max(other Severity) Severity {
	if other > s {
		return other
	}
	return s
}

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	default:
		return ""
	}
}

// MarshalJSON encodes an unset severity as null.
func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = SeverityNone
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return goerr.Wrap(err, "invalid severity", goerr.V("data", string(data)))
	}
	*s = ParseSeverity(raw)
	return nil
}

// UnmarshalYAML reads dataset severities with ParseSeverity.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return goerr.Wrap(err, "invalid severity")
	}
	*s = ParseSeverity(raw)
	return nil
}
