package ports

import "github.com/acolita/media-login/internal/mediaserver"

// Settings is the read-only subset of the application settings the login
// flow consumes.
type Settings struct {
	JellyfinExternalHost      string
	JellyfinHost              string
	JellyfinForgotPasswordURL string
	MediaServerType           mediaserver.ServerType
}

// SettingsProvider exposes the current settings. Implementations may
// reload them at any time; callers must not cache the result.
type SettingsProvider interface {
	CurrentSettings() Settings
}
