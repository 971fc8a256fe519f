// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/style"
	"github.com/arthur-debert/dotstow/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer. It turns pterm and fatih/color styling
// off for the whole process.
func New(output io.Writer) (*Renderer, error) {
	pterm.DisableStyling()
	color.NoColor = true
	return &Renderer{output: output}, nil
}

// RenderDecision prints one trace line
func (r *Renderer) RenderDecision(d linker.Decision) error {
	_, err := fmt.Fprintf(r.output, "  %s\n", d.String())
	return err
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	doc, ok := display.Build(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}

	for _, t := range doc.Tables {
		if len(t.Rows) == 0 {
			continue
		}
		data := t.Data(func(row display.Row) string { return row.Label })
		rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to render table")
		}
		if _, err := fmt.Fprintf(r.output, "%s\n%s\n\n", t.Title, rendered); err != nil {
			return err
		}
	}
	for _, note := range doc.Notes {
		if _, err := fmt.Fprintln(r.output, style.Strip(note)); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message with the markup removed
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.Strip(msg))
	return err
}
