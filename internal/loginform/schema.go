package loginform

import (
	"regexp"
	"slices"

	"github.com/acolita/media-login/internal/mediaserver"
	"github.com/go-playground/validator/v10"
)

// Mode selects which form is shown.
type Mode int

const (
	// ModeLogin collects username and password for an already configured server.
	ModeLogin Mode = iota
	// ModeInitialSetup also collects the server address, email and server type.
	ModeInitialSetup
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeInitialSetup:
		return "initial_setup"
	default:
		return "unknown"
	}
}

// hostPattern accepts an optional http(s) scheme, optional user-info, an
// IPv4 literal or hostname, an optional port and an optional path, query or
// fragment.
var hostPattern = regexp.MustCompile(`(?i)^(?:(?:https?:)?//)?` +
	`(?:\S+(?::\S*)?@)?` +
	`(?:` +
	`(?:[1-9]\d?|1\d\d|2[01]\d|22[0-3])(?:\.(?:1?\d{1,2}|2[0-4]\d|25[0-5])){2}(?:\.(?:[1-9]\d?|1\d\d|2[0-4]\d|25[0-4]))` +
	`|` +
	`(?:(?:[a-z\x{00a1}-\x{ffff}0-9]-*)*[a-z\x{00a1}-\x{ffff}0-9]+)(?:\.(?:[a-z\x{00a1}-\x{ffff}0-9]-*)*[a-z\x{00a1}-\x{ffff}0-9]+)*\.?` +
	`)` +
	`(?::\d{2,5})?` +
	`(?:[/?#]\S*)?$`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Rule is a format check that only runs on non-empty values.
type Rule struct {
	Message Message
	Check   func(string) bool
}

// Constraint is the set of checks for one field.
type Constraint struct {
	Field Field
	// Required is the message reported for an empty value. A zero Message
	// means the field may be empty.
	Required Message
	Rules    []Rule
}

// Check returns the first violated message for value.
func (c Constraint) Check(value string) (Message, bool) {
	if value == "" {
		if c.Required.IsZero() {
			return Message{}, true
		}
		return c.Required, false
	}
	for _, r := range c.Rules {
		if !r.Check(value) {
			return r.Message, false
		}
	}
	return Message{}, true
}

// Schema is the constraint set of one mode. It is derived, never stored.
type Schema struct {
	Mode        Mode
	Constraints []Constraint
}

// Errors maps a field to its validation message. An absent key means valid.
type Errors map[Field]Message

// BuildSchema returns the constraints for mode. serverType only affects the
// wording of the host messages.
func BuildSchema(mode Mode, serverType mediaserver.ServerType) Schema {
	if mode == ModeLogin {
		return Schema{
			Mode: mode,
			Constraints: []Constraint{
				{Field: FieldUsername, Required: Msg(KeyValidationUsernameRequired)},
				{Field: FieldPassword},
			},
		}
	}

	return Schema{
		Mode: mode,
		Constraints: []Constraint{
			{
				Field:    FieldHost,
				Required: Msg(KeyValidationHostRequired, serverType.DisplayName()),
				Rules:    []Rule{{Message: Msg(KeyValidationHostFormat), Check: ValidHost}},
			},
			{
				Field:    FieldEmail,
				Required: Msg(KeyValidationEmailRequired),
				Rules:    []Rule{{Message: Msg(KeyValidationEmailFormat), Check: ValidEmail}},
			},
			{Field: FieldUsername, Required: Msg(KeyValidationUsernameRequired)},
			{Field: FieldPassword},
			{
				Field:    FieldServerType,
				Required: Msg(KeyValidationServerTypeRequired),
				Rules:    []Rule{{Message: Msg(KeyValidationServerTypeRequired), Check: validServerTypeTag}},
			},
		},
	}
}

// Fields lists the fields the schema covers, in order.
func (s Schema) Fields() []Field {
	fields := make([]Field, 0, len(s.Constraints))
	for _, c := range s.Constraints {
		fields = append(fields, c.Field)
	}
	return fields
}

// Covers reports whether f is part of the schema.
func (s Schema) Covers(f Field) bool {
	return slices.Contains(s.Fields(), f)
}

// Validate runs every constraint against values. Missing values count as empty.
func (s Schema) Validate(values Values) Errors {
	errs := Errors{}
	for _, c := range s.Constraints {
		if msg, ok := c.Check(values[c.Field]); !ok {
			errs[c.Field] = msg
		}
	}
	return errs
}

// ValidateField checks a single field. Fields outside the schema are valid.
func (s Schema) ValidateField(f Field, value string) (Message, bool) {
	for _, c := range s.Constraints {
		if c.Field == f {
			return c.Check(value)
		}
	}
	return Message{}, true
}

// ValidHost reports whether s looks like a media server URL.
func ValidHost(s string) bool {
	return hostPattern.MatchString(s)
}

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

func validServerTypeTag(s string) bool {
	t, err := mediaserver.FromTag(s)
	return err == nil && t.Valid()
}
