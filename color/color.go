// Package color names the terminal colors used across clipharbor's output.
package color

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/clipharbor/clipharbor/media"
)

// New wraps an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiBlue   = New("12")
	HiPurple = New("13")

	Orange = New("#ffb703")
	Gray   = New("#808080")
)

// ForKind is the color a candidate of kind is listed in.
func ForKind(kind media.Kind) lipgloss.Color {
	switch kind {
	case media.Playlist:
		return Purple
	case media.SingleFile:
		return Green
	case media.Segment:
		return Cyan
	default:
		return Gray
	}
}
