// Package mediaserver describes the media server backends a user can connect to.
package mediaserver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ServerType identifies a media server backend.
type ServerType int

// Wire codes match the backend's media server enum.
const (
	Unselected ServerType = 0
	Jellyfin   ServerType = 2
	Emby       ServerType = 3
)

// ErrUnknownServerType is returned when a value names no supported backend.
var ErrUnknownServerType = errors.New("unknown server type")

// All returns the selectable server types in display order.
func All() []ServerType {
	return []ServerType{Jellyfin, Emby}
}

// Tag returns the provider tag written into form values ("Jellyfin", "Emby").
// Unselected has an empty tag.
func (t ServerType) Tag() string {
	switch t {
	case Jellyfin:
		return "Jellyfin"
	case Emby:
		return "Emby"
	default:
		return ""
	}
}

// DisplayName is the name interpolated into labels such as "{name} URL".
func (t ServerType) DisplayName() string {
	if tag := t.Tag(); tag != "" {
		return tag
	}
	return "Media Server"
}

// Valid reports whether t is one of the selectable types.
func (t ServerType) Valid() bool {
	return t == Jellyfin || t == Emby
}

func (t ServerType) String() string {
	if t == Unselected {
		return "unselected"
	}
	if tag := t.Tag(); tag != "" {
		return strings.ToLower(tag)
	}
	return fmt.Sprintf("ServerType(%d)", int(t))
}

// FromTag maps a provider tag back to its type. Matching is case-insensitive.
func FromTag(tag string) (ServerType, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "":
		return Unselected, nil
	case "jellyfin":
		return Jellyfin, nil
	case "emby":
		return Emby, nil
	}
	return Unselected, fmt.Errorf("%w: %q", ErrUnknownServerType, tag)
}

// Parse accepts a tag or a numeric wire code.
func Parse(s string) (ServerType, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		t := ServerType(n)
		if t == Unselected || t.Valid() {
			return t, nil
		}
		return Unselected, fmt.Errorf("%w: %d", ErrUnknownServerType, n)
	}
	return FromTag(s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ServerType) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(t.Tag())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ServerType) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
