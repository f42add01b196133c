package loginform

import (
	"strings"

	"github.com/acolita/media-login/internal/mediaserver"
	"github.com/acolita/media-login/internal/ports"
)

// ForgotPasswordURL derives the "forgot password" link for the configured
// media server. An explicit URL wins; otherwise the link points at the web
// client of the external host, or the internal host when none is set.
func ForgotPasswordURL(s ports.Settings) string {
	if s.JellyfinForgotPasswordURL != "" {
		return s.JellyfinForgotPasswordURL
	}

	base := s.JellyfinExternalHost
	if base == "" {
		base = s.JellyfinHost
	}
	base = strings.TrimRight(base, "/")

	page := "forgotpassword.html"
	if s.MediaServerType == mediaserver.Emby {
		page = "startup/" + page
	}
	return base + "/web/index.html#!/" + page
}
