package tui

import (
	"strings"

	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/style"
	"github.com/muesli/reflow/wordwrap"
)

func (b *bubble) View() string {
	status := b.spinnerC.View() + " Downloading"
	if !b.busy {
		status = icon.Get(icon.Success) + " Done"
	}

	lines := []string{
		style.Title("clipharbor"),
		"",
		style.Truncate(b.width)(icon.Get(icon.Link) + " " + b.options.PageURL),
		"",
		status,
		b.progressC.ViewAs(b.fraction),
		"",
	}

	for _, l := range b.lines {
		if b.width > 0 {
			l = wordwrap.String(l, b.width)
		}
		lines = append(lines, style.Faint(l))
	}

	lines = append(lines, "", b.helpC.View(b.keymap))
	return paddingStyle.Render(strings.Join(lines, "\n"))
}
