// Package notify implements transient, auto-dismissing notifications.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/acolita/media-login/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// DefaultDismissAfter is how long an auto-dismissing toast stays visible.
const DefaultDismissAfter = 5 * time.Second

// Toast is a notification with its display window.
type Toast struct {
	ports.Notification
	ShownAt   time.Time
	ExpiresAt time.Time
}

// Toaster queues notifications and drops them once they expire. It never
// blocks the caller: rendering happens on the writer, if any, synchronously
// but without waiting for the toast to be dismissed.
type Toaster struct {
	mu           sync.Mutex
	clock        ports.Clock
	dismissAfter time.Duration
	toasts       []Toast
	out          io.Writer
	styles       map[ports.Appearance]lipgloss.Style
}

// ToasterOption configures a Toaster.
type ToasterOption func(*Toaster)

// WithWriter renders every toast to w as it arrives.
func WithWriter(w io.Writer) ToasterOption {
	return func(t *Toaster) {
		t.out = w
	}
}

// WithDismissAfter overrides DefaultDismissAfter.
func WithDismissAfter(d time.Duration) ToasterOption {
	return func(t *Toaster) {
		if d > 0 {
			t.dismissAfter = d
		}
	}
}

// NewToaster creates a toaster driven by clock.
func NewToaster(clock ports.Clock, opts ...ToasterOption) *Toaster {
	t := &Toaster{
		clock:        clock,
		dismissAfter: DefaultDismissAfter,
		styles: map[ports.Appearance]lipgloss.Style{
			ports.AppearanceError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			ports.AppearanceInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			ports.AppearanceSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Notify implements ports.Notifier.
func (t *Toaster) Notify(n ports.Notification) {
	now := t.clock.Now()
	toast := Toast{Notification: n, ShownAt: now}
	if n.AutoDismiss {
		toast.ExpiresAt = now.Add(t.dismissAfter)
	}

	t.mu.Lock()
	t.pruneLocked(now)
	t.toasts = append(t.toasts, toast)
	out := t.out
	t.mu.Unlock()

	slog.Debug("notification shown",
		slog.String("key", n.Key),
		slog.String("appearance", string(n.Appearance)),
	)

	if out != nil {
		fmt.Fprintln(out, t.Render(toast))
	}
}

// Active returns the toasts that have not been dismissed yet.
func (t *Toaster) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(t.clock.Now())
	out := make([]Toast, len(t.toasts))
	copy(out, t.toasts)
	return out
}

// Dismiss removes every toast with the given key.
func (t *Toaster) Dismiss(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.toasts[:0]
	for _, toast := range t.toasts {
		if toast.Key != key {
			kept = append(kept, toast)
		}
	}
	t.toasts = kept
}

// Render formats a toast for a terminal.
func (t *Toaster) Render(toast Toast) string {
	style, ok := t.styles[toast.Appearance]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(toast.Text)
}

func (t *Toaster) pruneLocked(now time.Time) {
	kept := t.toasts[:0]
	for _, toast := range t.toasts {
		if toast.ExpiresAt.IsZero() || now.Before(toast.ExpiresAt) {
			kept = append(kept, toast)
		}
	}
	t.toasts = kept
}
