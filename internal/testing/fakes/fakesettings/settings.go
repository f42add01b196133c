// Package fakesettings provides a fixed ports.SettingsProvider.
package fakesettings

import "github.com/acolita/media-login/internal/ports"

// Provider returns Settings unchanged.
type Provider struct {
	Settings ports.Settings
}

// New returns a provider for s.
func New(s ports.Settings) *Provider {
	return &Provider{Settings: s}
}

// CurrentSettings implements ports.SettingsProvider.
func (p *Provider) CurrentSettings() ports.Settings {
	return p.Settings
}
