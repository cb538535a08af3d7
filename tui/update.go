package tui

import (
	"github.com/clipharbor/clipharbor/pipeline"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *bubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForEvent())
}

// waitForEvent reads the next event off the job's channel.
func (b *bubble) waitForEvent() tea.Cmd {
	events := b.options.Events
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(e)
	}
}

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tea.KeyMsg:
		return b.handleKey(msg)
	case eventMsg:
		b.handleEvent(pipeline.Event(msg))
		return b, b.waitForEvent()
	case closedMsg:
		b.done, b.busy = true, false
		b.keymap.done = true
		return b, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	return b, nil
}

func (b *bubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.cancel):
		if !b.done && b.options.Cancel != nil {
			b.options.Cancel()
			b.push("cancelling...")
		}
		// The view stays up until the job reports idle and closes the stream.
		if b.done {
			return b, tea.Quit
		}
	case key.Matches(msg, b.keymap.quit):
		if b.done {
			return b, tea.Quit
		}
	}

	return b, nil
}

func (b *bubble) handleEvent(e pipeline.Event) {
	switch e.Kind {
	case pipeline.EventBusy:
		b.busy = true
		b.fraction = 0
	case pipeline.EventIdle:
		b.busy = false
	case pipeline.EventProgress:
		b.fraction = e.Fraction
	case pipeline.EventLog:
		b.push(e.Time.Format("15:04:05") + " " + e.Message)
	}
}
