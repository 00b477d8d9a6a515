// Package notify carries user-facing notices (the dashboard's toasts).
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Variant selects how a notice is displayed.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Notice is one message shown to the user.
type Notice struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant,omitempty"`
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// Success builds a default notice.
func Success(title, description string) Notice {
	return Notice{Title: title, Description: description, Variant: Default}
}

// Failure builds a destructive notice.
func Failure(title, description string) Notice {
	return Notice{Title: title, Description: description, Variant: Destructive}
}

// Recorder keeps notices in memory until they are drained.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what has been recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Drain returns the recorded notices and empties the recorder.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

// LogNotifier writes every notice to a logrus entry.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (l LogNotifier) Notify(n Notice) {
	entry := l.Log.WithFields(logrus.Fields{
		"title":   n.Title,
		"variant": n.Variant,
	})
	if n.Variant == Destructive {
		entry.Warn(n.Description)
		return
	}
	entry.Info(n.Description)
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notice) {}
