// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/style"
	"github.com/arthur-debert/dotstow/pkg/ui/display"
)

var titleStyle = lipgloss.NewStyle().Foreground(style.HeadingColor).Bold(true)

// Renderer draws documents as pterm tables with status badges
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	pterm.EnableStyling()
	return &Renderer{output: w}, nil
}

// RenderDecision prints one trace line with the op verb colored
func (r *Renderer) RenderDecision(d linker.Decision) error {
	op := fmt.Sprintf("%-8s", d.Op)
	rest := strings.TrimPrefix(d.String(), op)
	_, err := fmt.Fprintf(r.output, "  %s%s\n", style.OpColor(string(d.Op)).Sprint(op), rest)
	return err
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	doc, ok := display.Build(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}

	for _, table := range doc.Tables {
		if err := r.renderTable(table); err != nil {
			return err
		}
	}
	for _, note := range doc.Notes {
		if _, err := fmt.Fprintln(r.output, style.Render(note)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderTable(t display.Table) error {
	if len(t.Rows) == 0 {
		return nil
	}
	width := t.LabelWidth()
	data := t.Data(func(row display.Row) string {
		return style.Badge(row.Status, row.Label, width)
	})
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render table")
	}
	_, err = fmt.Fprintf(r.output, "%s\n%s\n\n", titleStyle.Render(t.Title), rendered)
	return err
}

// RenderError renders an error with its code highlighted
func (r *Renderer) RenderError(err error) error {
	prefix := pterm.Error
	if errors.IsCancelled(err) {
		prefix = pterm.Warning
	}
	_, werr := fmt.Fprintln(r.output, prefix.Sprint(err.Error()))
	return werr
}

// RenderMessage renders a simple message; it may carry style markup
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.Render(msg))
	return err
}
