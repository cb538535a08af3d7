package pipeline

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// EventKind discriminates Event values.
type EventKind int

const (
	// EventBusy is emitted once when a job starts.
	EventBusy EventKind = iota
	// EventLog carries one timestamped, human-readable line.
	EventLog
	// EventProgress carries a completion fraction in [0, 1].
	EventProgress
	// EventIdle is emitted once when a job has finished, whatever the outcome.
	EventIdle
)

func (k EventKind) String() string {
	switch k {
	case EventBusy:
		return "busy"
	case EventLog:
		return "log"
	case EventProgress:
		return "progress"
	case EventIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Event is a notification from a running job to the presentation layer.
type Event struct {
	Kind     EventKind
	Fraction float64
	Message  string
	Time     time.Time
}

// Sink receives the events of a job in emission order.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// ChannelSink hands events from the job goroutine to a single reader, preserving order.
// Emit blocks when the buffer is full.
type ChannelSink struct {
	ch     chan Event
	once   sync.Once
	closed chan struct{}
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{
		ch:     make(chan Event, buffer),
		closed: make(chan struct{}),
	}
}

// Events is the channel the presentation layer reads from. It is closed by Close.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

func (s *ChannelSink) Emit(e Event) {
	select {
	case <-s.closed:
	default:
		s.ch <- e
	}
}

// Close ends the event stream. It must be called by the producer once the job has returned.
func (s *ChannelSink) Close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}

// emitter stamps events, mirrors log lines into the application log,
// and keeps progress clamped and monotonic for one job.
type emitter struct {
	sink Sink
	logf func(format string, args ...any)
	now  func() time.Time

	last    float64
	started bool
}

func (e *emitter) emit(kind EventKind, fraction float64, message string) {
	e.sink.Emit(Event{
		Kind:     kind,
		Fraction: fraction,
		Message:  message,
		Time:     e.now(),
	})
}

func (e *emitter) busy() {
	e.last, e.started = 0, false
	e.emit(EventBusy, 0, "")
}

func (e *emitter) idle() {
	e.emit(EventIdle, e.last, "")
}

func (e *emitter) log(format string, args ...any) {
	e.logf(format, args...)
	e.emit(EventLog, e.last, fmt.Sprintf(format, args...))
}

// progress reports fraction, clamped to [0, 1]. Values not above the last reported one are dropped.
func (e *emitter) progress(fraction float64) {
	if math.IsNaN(fraction) {
		return
	}

	fraction = math.Max(0, math.Min(1, fraction))
	if e.started && fraction <= e.last {
		return
	}

	e.last, e.started = fraction, true
	e.emit(EventProgress, fraction, "")
}
