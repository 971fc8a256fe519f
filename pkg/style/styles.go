package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color adapts to light and dark terminals.
var (
	HeadingColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#F0F3F6"}
	TextColor    = lipgloss.AdaptiveColor{Light: "#3D444D", Dark: "#D1D7E0"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#9198A1"}
	AccentColor  = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#4493F8"}

	SuccessColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}
	InfoColor    = lipgloss.AdaptiveColor{Light: "#1B7C83", Dark: "#39C5CF"}

	// Decision ops, matching OpColor in the trace
	LinkColor   = lipgloss.AdaptiveColor{Light: "#0550AE", Dark: "#58A6FF"}
	AdoptColor  = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#BC8CFF"}
	BackupColor = lipgloss.AdaptiveColor{Light: "#BC4C00", Dark: "#F0883E"}
	UnlinkColor = lipgloss.AdaptiveColor{Light: "#116329", Dark: "#56D364"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	TitleStyle    = fg(HeadingColor).Bold(true).MarginBottom(1)
	SubtitleStyle = fg(HeadingColor).Bold(true)
	NormalStyle   = fg(TextColor)
	MutedStyle    = fg(MutedColor)

	SuccessStyle = fg(SuccessColor).Bold(true)
	ErrorStyle   = fg(ErrorColor).Bold(true)
	WarningStyle = fg(WarningColor).Bold(true)
	InfoStyle    = fg(InfoColor)

	CodeStyle = fg(AccentColor)
	PathStyle = fg(MutedColor).Italic(true)

	LinkStyle   = fg(LinkColor).Bold(true)
	AdoptStyle  = fg(AdoptColor).Bold(true)
	BackupStyle = fg(BackupColor).Bold(true)
	UnlinkStyle = fg(UnlinkColor).Bold(true)
)

// Indicators printed in front of finished steps
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
)

// Indent pads s by two spaces per level
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
