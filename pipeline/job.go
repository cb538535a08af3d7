// Package pipeline runs a download job: discovery, selection, playlist resolution and download.
package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/clipharbor/clipharbor/selector"
	"github.com/google/uuid"
)

var (
	// ErrDiscoveryExhausted ends a job whose collectors found no candidate.
	// It is a terminal status, not a failure: no file is written.
	ErrDiscoveryExhausted = errors.New("no valid stream found")

	ErrEmptyURL         = errors.New("page url is empty")
	ErrEmptyDestination = errors.New("destination directory is empty")
)

// Job is one page-to-file request.
type Job struct {
	ID          uuid.UUID
	PageURL     string
	Destination string
}

// NewJob validates the inputs and assigns a fresh ID.
func NewJob(pageURL, destination string) (Job, error) {
	pageURL = strings.TrimSpace(pageURL)
	destination = strings.TrimSpace(destination)

	if pageURL == "" {
		return Job{}, ErrEmptyURL
	}
	if destination == "" {
		return Job{}, ErrEmptyDestination
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return Job{}, fmt.Errorf("invalid page url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Job{}, fmt.Errorf("invalid page url %q: only http and https are supported", pageURL)
	}

	return Job{
		ID:          uuid.New(),
		PageURL:     pageURL,
		Destination: destination,
	}, nil
}

// Status is the terminal state of a job.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusNoStream  Status = "no valid stream found"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Result summarizes a finished job. It is also the JSON report printed by the CLI.
type Result struct {
	JobID      string            `json:"job_id" jsonschema:"description=Unique job identifier"`
	PageURL    string            `json:"page_url"`
	Status     Status            `json:"status" jsonschema:"enum=completed,enum=no valid stream found,enum=failed,enum=cancelled"`
	Stream     string            `json:"stream,omitempty" jsonschema:"description=Selected stream URL"`
	Kind       string            `json:"kind,omitempty" jsonschema:"enum=file,enum=playlist,enum=segment,enum=unknown"`
	Candidates []selector.Ranked `json:"candidates,omitempty"`
	Segments   int               `json:"segments,omitempty"`
	Output     string            `json:"output,omitempty" jsonschema:"description=Path of the written file"`
	Bytes      int64             `json:"bytes"`
	Error      string            `json:"error,omitempty"`
	Started    time.Time         `json:"started"`
	Finished   time.Time         `json:"finished"`
}

// Line is the one human-readable status line of the result.
func (r Result) Line() string {
	switch r.Status {
	case StatusCompleted:
		return fmt.Sprintf("saved %s (%d bytes)", r.Output, r.Bytes)
	case StatusFailed:
		return "failed: " + r.Error
	default:
		return string(r.Status)
	}
}
