// Package ui provides a unified interface for rendering output in different formats.
// It supports terminal (rich), text (plain), JSON and YAML output formats.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/ui/structured"
	"github.com/arthur-debert/dotstow/pkg/ui/terminal"
	"github.com/arthur-debert/dotstow/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
// It provides methods for rendering different types of data and messages.
type Renderer interface {
	// RenderDecision renders one link decision while a plan is built
	RenderDecision(d linker.Decision) error

	// RenderResult renders any result type (command results, status reports, etc.)
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Buffers and pipes get plain text
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return structured.New(output, structured.JSON)
	case FormatYAML:
		return structured.New(output, structured.YAML)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// Structured reports whether the format is meant for machines
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}
