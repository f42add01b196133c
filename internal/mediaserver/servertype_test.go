package mediaserver

import (
	"errors"
	"testing"
)

func TestTagAndDisplayName(t *testing.T) {
	tests := []struct {
		typ  ServerType
		tag  string
		name string
	}{
		{Jellyfin, "Jellyfin", "Jellyfin"},
		{Emby, "Emby", "Emby"},
		{Unselected, "", "Media Server"},
	}

	for _, tt := range tests {
		if got := tt.typ.Tag(); got != tt.tag {
			t.Errorf("%v.Tag() = %q, want %q", tt.typ, got, tt.tag)
		}
		if got := tt.typ.DisplayName(); got != tt.name {
			t.Errorf("%v.DisplayName() = %q, want %q", tt.typ, got, tt.name)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    ServerType
		wantErr bool
	}{
		{"jellyfin", Jellyfin, false},
		{"Emby", Emby, false},
		{" EMBY ", Emby, false},
		{"2", Jellyfin, false},
		{"3", Emby, false},
		{"", Unselected, false},
		{"0", Unselected, false},
		{"plex", Unselected, true},
		{"1", Unselected, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownServerType) {
			t.Errorf("Parse(%q) error = %v, want ErrUnknownServerType", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnmarshalText(t *testing.T) {
	var typ ServerType
	if err := typ.UnmarshalText([]byte("emby")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if typ != Emby {
		t.Errorf("typ = %v, want %v", typ, Emby)
	}

	b, err := typ.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error: %v", err)
	}
	if string(b) != "emby" {
		t.Errorf("MarshalText() = %q, want %q", b, "emby")
	}
}

func TestValid(t *testing.T) {
	if Unselected.Valid() {
		t.Error("Unselected.Valid() = true, want false")
	}
	for _, typ := range All() {
		if !typ.Valid() {
			t.Errorf("%v.Valid() = false, want true", typ)
		}
	}
}
