package mcp

// Tool names.
const (
	toolForm             = "media_login_form"
	toolSelectServerType = "media_login_select_server_type"
	toolSubmit           = "media_login_submit"
	toolStatus           = "media_login_status"
	toolDismiss          = "media_login_dismiss"
)

// Common error messages.
const (
	errSubmitInProgress = "a sign-in attempt is already in progress"
	errNoToaster        = "notifications are not enabled"
	errLockedOut        = "too many rejected sign-in attempts; try again in %s"
)
