package ports

// Appearance is the visual severity of a notification.
type Appearance string

const (
	AppearanceError   Appearance = "error"
	AppearanceInfo    Appearance = "info"
	AppearanceSuccess Appearance = "success"
)

// Notification is a transient user-visible message.
type Notification struct {
	// Key is the message key the text was localized from.
	Key string
	// Text is the localized message.
	Text        string
	Appearance  Appearance
	AutoDismiss bool
}

// Notifier shows transient notifications. Notify must not block.
type Notifier interface {
	Notify(n Notification)
}
