package loginform

import (
	"github.com/acolita/media-login/internal/mediaserver"
	"github.com/acolita/media-login/internal/ports"
)

// Variant is one of the two form shapes: *InitialSetup or *Login.
// It is chosen once when the controller is built.
type Variant interface {
	Mode() Mode
	// Fields lists the rendered inputs in display order.
	Fields() []FieldSpec
	// InitialValues returns a fresh value set holding exactly the mode's fields.
	InitialValues() Values
	// InitialTouched lists fields whose errors are visible before any input.
	InitialTouched() []Field
	// Schema derives the constraints from the current values.
	Schema(values Values) Schema
	// Payload builds the request body for values.
	Payload(values Values) ports.AuthRequest
	// SubmitLabel is the submit button text.
	SubmitLabel(submitting bool) Message

	isVariant()
}

// InitialSetup is the first-run form: server address, server type, email and
// credentials. The server-type selection itself is owned by the caller.
type InitialSetup struct {
	// ServerType returns the caller's current selection. Optional.
	ServerType func() mediaserver.ServerType
	// OnServerTypeChange is told about every distinct selection. Optional.
	OnServerTypeChange func(mediaserver.ServerType)
}

func (*InitialSetup) isVariant() {}

// Mode implements Variant.
func (*InitialSetup) Mode() Mode { return ModeInitialSetup }

// Fields implements Variant. The server type is rendered by the Selector.
func (v *InitialSetup) Fields() []FieldSpec {
	name := v.selected(nil).DisplayName()
	return []FieldSpec{
		{Field: FieldHost, Label: Msg(KeyHost, name), Placeholder: Msg(KeyHost, name)},
		{Field: FieldEmail, Label: Msg(KeyEmail), Placeholder: Msg(KeyEmail), Tooltip: Msg(KeyEmailTooltip, name)},
		{Field: FieldUsername, Label: Msg(KeyUsername), Placeholder: Msg(KeyUsername)},
		{Field: FieldPassword, Label: Msg(KeyPassword), Placeholder: Msg(KeyPassword), Secret: true},
	}
}

// InitialValues implements Variant.
func (*InitialSetup) InitialValues() Values {
	return Values{
		FieldUsername:   "",
		FieldPassword:   "",
		FieldHost:       "",
		FieldEmail:      "",
		FieldServerType: "",
	}
}

// InitialTouched implements Variant. The server-type requirement is shown
// before the user touches anything.
func (*InitialSetup) InitialTouched() []Field {
	return []Field{FieldServerType}
}

// Schema implements Variant.
func (v *InitialSetup) Schema(values Values) Schema {
	return BuildSchema(ModeInitialSetup, v.selected(values))
}

// Payload implements Variant.
func (*InitialSetup) Payload(values Values) ports.AuthRequest {
	t, _ := mediaserver.FromTag(values[FieldServerType])
	return ports.AuthRequest{
		Username:   values[FieldUsername],
		Password:   values[FieldPassword],
		Hostname:   values[FieldHost],
		Email:      values[FieldEmail],
		ServerType: int(t),
	}
}

// SubmitLabel implements Variant.
func (*InitialSetup) SubmitLabel(submitting bool) Message {
	if submitting {
		return Msg(KeyInitialSigningIn)
	}
	return Msg(KeyInitialSignIn)
}

// selected prefers the caller's selection and falls back to the form value.
func (v *InitialSetup) selected(values Values) mediaserver.ServerType {
	if v.ServerType != nil {
		if t := v.ServerType(); t.Valid() {
			return t
		}
	}
	t, _ := mediaserver.FromTag(values[FieldServerType])
	return t
}

// Login is the steady-state form for an already configured server.
type Login struct {
	// Settings supplies the forgot-password link. Optional.
	Settings ports.SettingsProvider
}

func (*Login) isVariant() {}

// Mode implements Variant.
func (*Login) Mode() Mode { return ModeLogin }

// Fields implements Variant.
func (*Login) Fields() []FieldSpec {
	return []FieldSpec{
		{Field: FieldUsername, Label: Msg(KeyUsername), Placeholder: Msg(KeyUsername)},
		{Field: FieldPassword, Label: Msg(KeyPassword), Placeholder: Msg(KeyPassword), Secret: true},
	}
}

// InitialValues implements Variant.
func (*Login) InitialValues() Values {
	return Values{FieldUsername: "", FieldPassword: ""}
}

// InitialTouched implements Variant.
func (*Login) InitialTouched() []Field { return nil }

// Schema implements Variant.
func (*Login) Schema(Values) Schema {
	return BuildSchema(ModeLogin, mediaserver.Unselected)
}

// Payload implements Variant. There is no email field in this mode; the
// username is sent in its place.
func (*Login) Payload(values Values) ports.AuthRequest {
	return ports.AuthRequest{
		Username: values[FieldUsername],
		Password: values[FieldPassword],
		Email:    values[FieldUsername],
	}
}

// SubmitLabel implements Variant.
func (*Login) SubmitLabel(submitting bool) Message {
	if submitting {
		return Msg(KeySigningIn)
	}
	return Msg(KeySignIn)
}

// ForgotPasswordURL returns the link target, or "" without settings.
func (v *Login) ForgotPasswordURL() string {
	if v.Settings == nil {
		return ""
	}
	return ForgotPasswordURL(v.Settings.CurrentSettings())
}
