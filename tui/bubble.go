package tui

import (
	"github.com/clipharbor/clipharbor/pipeline"
	"github.com/clipharbor/clipharbor/style"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// maxLines is how many log lines stay on screen.
const maxLines = 8

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

type bubble struct {
	keymap *keymap

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	options *Options

	lines    []string
	fraction float64
	busy     bool
	done     bool

	width, height int
}

// eventMsg carries one pipeline event into the update loop.
type eventMsg pipeline.Event

// closedMsg is sent once the event stream has been closed.
type closedMsg struct{}

func newBubble(options *Options) *bubble {
	spinnerC := spinner.New()
	spinnerC.Spinner = spinner.Dot
	spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	return &bubble{
		keymap:    newKeymap(),
		spinnerC:  spinnerC,
		progressC: progress.New(progress.WithScaledGradient(string(style.Mauve), string(style.Sapphire))),
		helpC:     help.New(),
		options:   options,
	}
}

func (b *bubble) resize(width, height int) {
	x, _ := paddingStyle.GetFrameSize()

	b.width, b.height = width-x, height
	b.progressC.Width = b.width
	b.helpC.Width = b.width
}

func (b *bubble) push(line string) {
	b.lines = append(b.lines, line)
	if len(b.lines) > maxLines {
		b.lines = b.lines[len(b.lines)-maxLines:]
	}
}
