package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type tagStyle struct {
	pattern *regexp.Regexp
	style   lipgloss.Style
}

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	tags map[string]tagStyle
}

// NewMarkupParser creates a parser for the given tag styles
func NewMarkupParser(styles map[string]lipgloss.Style) *MarkupParser {
	p := &MarkupParser{tags: make(map[string]tagStyle, len(styles))}
	for tag, s := range styles {
		p.tags[tag] = tagStyle{
			pattern: regexp.MustCompile(`\[` + regexp.QuoteMeta(tag) + `\](.*?)\[/` + regexp.QuoteMeta(tag) + `\]`),
			style:   s,
		}
	}
	return p
}

// DefaultStyles are the tags used in dotstow messages
func DefaultStyles() map[string]lipgloss.Style {
	return map[string]lipgloss.Style{
		"title":     TitleStyle,
		"subtitle":  SubtitleStyle,
		"success":   SuccessStyle,
		"error":     ErrorStyle,
		"warning":   WarningStyle,
		"info":      InfoStyle,
		"code":      CodeStyle,
		"path":      PathStyle,
		"muted":     MutedStyle,
		"bold":      lipgloss.NewStyle().Bold(true),
		"italic":    lipgloss.NewStyle().Italic(true),
		"underline": lipgloss.NewStyle().Underline(true),
		"link":      LinkStyle,
		"adopt":     AdoptStyle,
		"backup":    BackupStyle,
		"unlink":    UnlinkStyle,
	}
}

// Render styles every tagged span. Nested tags are resolved inside out by
// repeating until the text stops changing.
func (p *MarkupParser) Render(text string) string {
	for {
		before := text
		for _, t := range p.tags {
			text = t.pattern.ReplaceAllStringFunc(text, func(match string) string {
				return t.style.Render(t.pattern.FindStringSubmatch(match)[1])
			})
		}
		if text == before {
			return text
		}
	}
}

// Strip removes the tags, leaving the content unstyled
func (p *MarkupParser) Strip(text string) string {
	for tag := range p.tags {
		text = strings.ReplaceAll(text, "["+tag+"]", "")
		text = strings.ReplaceAll(text, "[/"+tag+"]", "")
	}
	return text
}

var defaultParser = NewMarkupParser(DefaultStyles())

// Render styles text with the default tags
func Render(text string) string {
	return defaultParser.Render(text)
}

// Strip removes the default tags from text
func Strip(text string) string {
	return defaultParser.Strip(text)
}
