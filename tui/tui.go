// Package tui renders a running download job: a progress bar above the most recent log lines.
package tui

import (
	"context"

	"github.com/clipharbor/clipharbor/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the job view.
type Options struct {
	PageURL string

	// Events is read until closed.
	Events <-chan pipeline.Event

	// Cancel is called when the user quits before the job has finished.
	Cancel context.CancelFunc
}

// Run shows the job view until the event stream closes or the user quits.
func Run(options *Options) error {
	_, err := tea.NewProgram(newBubble(options)).Run()
	return err
}
