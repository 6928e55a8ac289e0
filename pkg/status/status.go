// Package status renders workflow outcomes as a single user-visible message
// per workflow instance.
package status

import (
	"fmt"
	"io"
	"sync"
)

// Kind distinguishes how a status message is presented.
type Kind string

const (
	KindIdle    Kind = "idle"
	KindPending Kind = "pending"
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Status is the message currently shown for a workflow.
type Status struct {
	Kind    Kind
	Message string
}

func Idle() Status              { return Status{Kind: KindIdle} }
func Pending(msg string) Status { return Status{Kind: KindPending, Message: msg} }
func Error(msg string) Status   { return Status{Kind: KindError, Message: msg} }
func Success(msg string) Status { return Status{Kind: KindSuccess, Message: msg} }
func (s Status) Terminal() bool { return s.Kind == KindError || s.Kind == KindSuccess }
func (s Status) String() string { return fmt.Sprintf("[%s] %s", s.Kind, s.Message) }

// Reporter is the one-way sink a workflow reports to. Each report replaces
// the previous status.
type Reporter interface {
	Report(Status)
}

// Console prints every status as a line on w and remembers the latest one.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	prefix  string
	current Status
}

func NewConsole(w io.Writer, prefix string) *Console {
	return &Console{w: w, prefix: prefix, current: Idle()}
}

func (c *Console) Report(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
	if s.Kind == KindIdle {
		return
	}

	marker := "…"
	switch s.Kind {
	case KindError:
		marker = "✗"
	case KindSuccess:
		marker = "✓"
	}
	if c.prefix != "" {
		fmt.Fprintf(c.w, "%s %s: %s\n", marker, c.prefix, s.Message)
		return
	}
	fmt.Fprintf(c.w, "%s %s\n", marker, s.Message)
}

// Current returns the status most recently reported.
func (c *Console) Current() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Recorder keeps every reported status in memory.
type Recorder struct {
	mu      sync.Mutex
	history []Status
}

func (r *Recorder) Report(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, s)
}

// Current returns the latest status, or Idle if nothing was reported.
func (r *Recorder) Current() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Idle()
	}
	return r.history[len(r.history)-1]
}

func (r *Recorder) History() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, len(r.history))
	copy(out, r.history)
	return out
}

// Tee forwards every status to each reporter in order.
type Tee []Reporter

func (t Tee) Report(s Status) {
	for _, r := range t {
		r.Report(s)
	}
}
