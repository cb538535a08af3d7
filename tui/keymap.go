package tui

import (
	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/style"
	"github.com/charmbracelet/bubbles/key"
)

type keymap struct {
	done bool

	quit, cancel key.Binding
}

func newKeymap() *keymap {
	return &keymap{
		quit: key.NewBinding(
			key.WithKeys("q", "enter", "esc"),
			key.WithHelp("q", "quit"),
		),
		cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp(style.Fg(color.Orange)("ctrl+c"), style.Fg(color.Orange)("cancel")),
		),
	}
}

func (k *keymap) ShortHelp() []key.Binding {
	if k.done {
		return []key.Binding{k.quit}
	}
	return []key.Binding{k.cancel}
}

func (k *keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
