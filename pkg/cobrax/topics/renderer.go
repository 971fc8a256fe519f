package topics

import (
	"os"

	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for the terminal. ext is the topic file
// extension, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer prints topics as they are
type PlainRenderer struct{}

func (PlainRenderer) Render(content string, ext string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour. Other extensions
// pass through unchanged.
type GlamourRenderer struct {
	// Style is a glamour style name or path; empty picks one from the
	// terminal background, or "notty" when NO_COLOR is set.
	Style string
	// Width wraps output at this column when positive
	Width int
}

// NewGlamourRenderer returns a renderer that detects its style
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	opts := []glamour.TermRendererOption{r.style()}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *GlamourRenderer) style() glamour.TermRendererOption {
	switch {
	case r.Style != "":
		return glamour.WithStylePath(r.Style)
	case os.Getenv("NO_COLOR") != "":
		return glamour.WithStandardStyle("notty")
	default:
		return glamour.WithAutoStyle()
	}
}
