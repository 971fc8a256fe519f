package ui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// Format is the output format selected with --format
type Format int

const (
	// FormatAuto picks term or text from the output stream
	FormatAuto Format = iota
	// FormatTerminal is styled output with badges and colors
	FormatTerminal
	// FormatText is unstyled output, safe for pipes and logs
	FormatText
	// FormatJSON emits one JSON document per result
	FormatJSON
	// FormatYAML emits one YAML document per result
	FormatYAML
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

// aliases accepted by ParseFormat besides the canonical names
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
	"yml":      FormatYAML,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat parses a --format value, case-insensitively
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q (want auto, term, text, json or yaml)", s)
}

// DetectFormat resolves auto for output: text when NO_COLOR is set, the
// stream is not a terminal or the terminal has no colors, term otherwise.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
