// pkg/style/style_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test markup rendering, stripping and badge padding

package style_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/dotstow/pkg/style"
)

func TestRenderKeepsContent(t *testing.T) {
	out := style.Render("[link]linked[/link] [path]~/.gitconfig[/path]")
	assert.Contains(t, out, "linked")
	assert.Contains(t, out, "~/.gitconfig")
	assert.NotContains(t, out, "[link]")
	assert.NotContains(t, out, "[/path]")
}

func TestRenderNested(t *testing.T) {
	out := style.Render("[bold][warning]careful[/warning][/bold]")
	assert.Contains(t, out, "careful")
	assert.NotContains(t, out, "[warning]")
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "3 linked, [user] kept", style.Strip("[success]3[/success] [link]linked[/link], [user] kept"))
}

func TestCustomParserOnlyKnowsItsTags(t *testing.T) {
	p := style.NewMarkupParser(map[string]lipgloss.Style{"op": lipgloss.NewStyle()})
	assert.Equal(t, "link [path]x[/path]", p.Strip("[op]link[/op] [path]x[/path]"))
	assert.Equal(t, "link", p.Render("[op]link[/op]"))
}

func TestBadgePadsLabel(t *testing.T) {
	out := style.Badge(style.StatusSuccess, "ok", 6)
	assert.Contains(t, out, " ok     ")
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "Hello", style.Indent("Hello", 0))
	assert.Equal(t, "    Hello", style.Indent("Hello", 2))
}
