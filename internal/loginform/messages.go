package loginform

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Keys are stable and used by external translations.
const (
	KeyUsername                     = "username"
	KeyPassword                     = "password"
	KeyHost                         = "host"
	KeyEmail                        = "email"
	KeyEmailTooltip                 = "emailtooltip"
	KeyValidationHostRequired       = "validationhostrequired"
	KeyValidationHostFormat         = "validationhostformat"
	KeyValidationEmailRequired      = "validationemailrequired"
	KeyValidationEmailFormat        = "validationemailformat"
	KeyValidationUsernameRequired   = "validationusernamerequired"
	KeyValidationServerTypeRequired = "validationservertyperequired"
	KeyLoginError                   = "loginerror"
	KeyCredentialError              = "credentialerror"
	KeySigningIn                    = "signingin"
	KeySignIn                       = "signin"
	KeyInitialSigningIn             = "initialsigningin"
	KeyInitialSignIn                = "initialsignin"
	KeyForgotPassword               = "forgotpassword"
	KeyServerType                   = "servertype"
)

// Message is a localizable message: a key plus its positional arguments.
type Message struct {
	Key  string
	Args []any
}

// Msg builds a Message.
func Msg(key string, args ...any) Message {
	return Message{Key: key, Args: args}
}

// IsZero reports whether m is unset.
func (m Message) IsZero() bool {
	return m.Key == ""
}

// Localizer turns messages into user-facing text.
type Localizer interface {
	Localize(m Message) string
}

var englishMessages = map[string]string{
	KeyUsername:                     "Username",
	KeyPassword:                     "Password",
	KeyHost:                         "%s URL",
	KeyEmail:                        "Email",
	KeyEmailTooltip:                 "Address does not need to be associated with your %s instance.",
	KeyValidationHostRequired:       "%s URL required",
	KeyValidationHostFormat:         "Valid URL required",
	KeyValidationEmailRequired:      "Email required",
	KeyValidationEmailFormat:        "Valid email required",
	KeyValidationUsernameRequired:   "Username required",
	KeyValidationServerTypeRequired: "Please select a server type",
	KeyLoginError:                   "Something went wrong while trying to sign in.",
	KeyCredentialError:              "The username or password is incorrect.",
	KeySigningIn:                    "Signing in…",
	KeySignIn:                       "Sign In",
	KeyInitialSigningIn:             "Connecting…",
	KeyInitialSignIn:                "Connect",
	KeyForgotPassword:               "Forgot Password?",
	KeyServerType:                   "Server Type",
}

// Catalog is a Localizer backed by an x/text message catalog.
type Catalog struct {
	printer *message.Printer
}

// English returns the built-in English catalog.
func English() *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range englishMessages {
		// SetString only fails on malformed tags.
		_ = b.SetString(language.English, key, msg)
	}
	return &Catalog{printer: message.NewPrinter(language.English, message.Catalog(b))}
}

// Localize implements Localizer. Unknown keys are returned verbatim.
func (c *Catalog) Localize(m Message) string {
	if m.IsZero() {
		return ""
	}
	return c.printer.Sprintf(m.Key, m.Args...)
}
