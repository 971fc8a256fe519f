package style

import (
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Status is the display category of an app, check or outcome
type Status string

const (
	StatusSuccess Status = "success" // Linked, passed or installed
	StatusError   Status = "error"   // Broken, failed
	StatusQueue   Status = "queue"   // Not linked yet, would install
	StatusAlert   Status = "alert"   // Needs attention: unmanaged or foreign files
	StatusIgnored Status = "ignored" // Not present on this platform
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	case StatusQueue:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusAlert:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Badge renders label padded to width in the status style
func Badge(status Status, label string, width int) string {
	for len(label) < width {
		label += " "
	}
	return StatusStyle(status).Sprint(" " + label + " ")
}

// OpColor is the color of a decision op verb in the trace
func OpColor(op string) *color.Color {
	switch op {
	case "link", "relink", "replace":
		return color.New(color.FgCyan, color.Bold)
	case "adopt":
		return color.New(color.FgMagenta, color.Bold)
	case "backup":
		return color.New(color.FgYellow, color.Bold)
	case "unlink":
		return color.New(color.FgGreen, color.Bold)
	case "conflict":
		return color.New(color.FgRed, color.Bold)
	case "warn":
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}
