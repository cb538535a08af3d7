package style

import "github.com/charmbracelet/lipgloss"

// Colors of the progress view.
var (
	Text     = lipgloss.Color("#cdd6f4")
	Overlay  = lipgloss.Color("#6c7086")
	Mauve    = lipgloss.Color("#cba6f7")
	Sapphire = lipgloss.Color("#74c7ec")
	Yellow   = lipgloss.Color("#f9e2af")

	AccentColor  = Mauve
	WarningColor = Yellow
	FaintColor   = Overlay
)
