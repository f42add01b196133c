// Package fakenotify provides a recording fake for ports.Notifier.
package fakenotify

import (
	"sync"

	"github.com/acolita/media-login/internal/ports"
)

// Notifier records notifications.
type Notifier struct {
	mu   sync.Mutex
	sent []ports.Notification
	// Panic, when true, makes Notify panic after recording.
	Panic bool
}

// New returns an empty recorder.
func New() *Notifier {
	return &Notifier{}
}

// Notify records n.
func (f *Notifier) Notify(n ports.Notification) {
	f.mu.Lock()
	f.sent = append(f.sent, n)
	p := f.Panic
	f.mu.Unlock()
	if p {
		panic("fakenotify: notify failed")
	}
}

// Sent returns the recorded notifications.
func (f *Notifier) Sent() []ports.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.Notification, len(f.sent))
	copy(out, f.sent)
	return out
}
