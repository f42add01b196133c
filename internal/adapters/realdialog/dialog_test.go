package realdialog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/acolita/media-login/internal/ports"
	"github.com/charmbracelet/huh"
)

func TestInitialChoice(t *testing.T) {
	tests := []struct {
		name    string
		options []ports.ChoiceOption
		want    string
	}{
		{"none selected", []ports.ChoiceOption{{Label: "Jellyfin", Value: "Jellyfin"}, {Label: "Emby", Value: "Emby"}}, ""},
		{"second selected", []ports.ChoiceOption{{Label: "Jellyfin", Value: "Jellyfin"}, {Label: "Emby", Value: "Emby", Selected: true}}, "Emby"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := initialChoice(tt.options); got != tt.want {
				t.Errorf("initialChoice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChoiceOptions(t *testing.T) {
	opts := choiceOptions([]ports.ChoiceOption{
		{Label: "Jellyfin", Value: "Jellyfin"},
		{Label: "Emby", Value: "Emby", Selected: true},
	})

	if len(opts) != 2 {
		t.Fatalf("len(choiceOptions) = %d, want 2", len(opts))
	}
	if opts[0].Key != "Jellyfin" || opts[0].Value != "Jellyfin" {
		t.Errorf("opts[0] = %+v", opts[0])
	}
	if opts[1].Key != "Emby" || opts[1].Value != "Emby" {
		t.Errorf("opts[1] = %+v", opts[1])
	}
}

func TestBindFieldsKeepsInitialValues(t *testing.T) {
	bound := bindFields([]ports.FormField{
		{Name: "username", Value: "alice"},
		{Name: "password", Secret: true},
	})

	*bound.vals[1] = "hunter2"

	got := bound.values()
	if got["username"] != "alice" {
		t.Errorf("username = %q, want %q", got["username"], "alice")
	}
	if got["password"] != "hunter2" {
		t.Errorf("password = %q, want %q", got["password"], "hunter2")
	}
}

func TestBuildCredentialFormStartsUnconfirmed(t *testing.T) {
	form, bound, confirmed := buildCredentialForm("Sign in", "Sign In", []ports.FormField{
		{Name: "username", Title: "Username"},
	})
	if form == nil {
		t.Fatal("buildCredentialForm() returned nil form")
	}
	if *confirmed {
		t.Error("confirmed = true before the form ran")
	}
	if len(bound.names) != 1 || bound.names[0] != "username" {
		t.Errorf("bound names = %v", bound.names)
	}
}

func TestMapRunError(t *testing.T) {
	if err := mapRunError(huh.ErrUserAborted); !errors.Is(err, ports.ErrDialogAborted) {
		t.Errorf("mapRunError(ErrUserAborted) = %v, want ErrDialogAborted", err)
	}
	if err := mapRunError(nil); err != nil {
		t.Errorf("mapRunError(nil) = %v, want nil", err)
	}
	other := errors.New("tty gone")
	if err := mapRunError(other); err != other {
		t.Errorf("mapRunError(other) = %v, want passthrough", err)
	}
}

func TestNewAppliesOptions(t *testing.T) {
	var buf bytes.Buffer
	p := New(WithOutput(&buf), WithAccessible(true))

	if p.output != &buf {
		t.Error("output not set by WithOutput")
	}
	if !p.accessible {
		t.Error("accessible = false, want true")
	}
	if New().accessible {
		t.Error("accessible defaults to true")
	}
}

func TestIsTerminalFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "input"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("IsTerminal() = true for a regular file")
	}
}
