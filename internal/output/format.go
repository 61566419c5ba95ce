package output

import (
	"fmt"
	"slices"
	"strings"
)

// Format names an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text" // indented plain text for terminals
)

// Formats lists the accepted --format values; the first is the default.
var Formats = []Format{FormatYAML, FormatJSON, FormatText}

// ParseFormat accepts a format name in any case, ignoring surrounding space.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("invalid format %q: want yaml, json or text", s)
	}
	return f, nil
}
