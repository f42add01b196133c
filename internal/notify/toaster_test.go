package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/acolita/media-login/internal/ports"
	"github.com/acolita/media-login/internal/testing/fakes/fakeclock"
)

func errorNote(key, text string) ports.Notification {
	return ports.Notification{Key: key, Text: text, Appearance: ports.AppearanceError, AutoDismiss: true}
}

func TestToasterAutoDismiss(t *testing.T) {
	clock := fakeclock.New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	toaster := NewToaster(clock, WithDismissAfter(3*time.Second))

	toaster.Notify(errorNote("loginerror", "Something went wrong while trying to sign in."))

	if n := len(toaster.Active()); n != 1 {
		t.Fatalf("Active() = %d toasts, want 1", n)
	}

	clock.Advance(2 * time.Second)
	if n := len(toaster.Active()); n != 1 {
		t.Errorf("Active() after 2s = %d toasts, want 1", n)
	}

	clock.Advance(time.Second)
	if n := len(toaster.Active()); n != 0 {
		t.Errorf("Active() after 3s = %d toasts, want 0", n)
	}
}

func TestToasterStickyNotification(t *testing.T) {
	clock := fakeclock.New(time.Now())
	toaster := NewToaster(clock)

	toaster.Notify(ports.Notification{Key: "sticky", Text: "stays"})
	clock.Advance(time.Hour)

	active := toaster.Active()
	if len(active) != 1 || active[0].Key != "sticky" {
		t.Errorf("Active() = %v, want the sticky toast", active)
	}

	toaster.Dismiss("sticky")
	if n := len(toaster.Active()); n != 0 {
		t.Errorf("Active() after Dismiss = %d, want 0", n)
	}
}

func TestToasterWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	toaster := NewToaster(fakeclock.New(time.Now()), WithWriter(&buf))

	toaster.Notify(errorNote("credentialerror", "The username or password is incorrect."))

	if !strings.Contains(buf.String(), "The username or password is incorrect.") {
		t.Errorf("writer output = %q, want the message text", buf.String())
	}
}

func TestToasterDefaultDismissAfter(t *testing.T) {
	clock := fakeclock.New(time.Now())
	toaster := NewToaster(clock, WithDismissAfter(0))

	toaster.Notify(errorNote("k", "text"))
	active := toaster.Active()
	if len(active) != 1 {
		t.Fatalf("Active() = %d, want 1", len(active))
	}
	if got := active[0].ExpiresAt.Sub(active[0].ShownAt); got != DefaultDismissAfter {
		t.Errorf("display window = %v, want %v", got, DefaultDismissAfter)
	}
}
