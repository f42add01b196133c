// Package loginform implements the media server credential form: the
// validation schema, the server-type selector and the submission state
// machine.
package loginform

import "maps"

// Field names a form value.
type Field string

const (
	FieldUsername   Field = "username"
	FieldPassword   Field = "password"
	FieldHost       Field = "host"
	FieldEmail      Field = "email"
	FieldServerType Field = "serverType"
)

// Values holds the form values. Only the fields of the active mode are present.
type Values map[Field]string

// Has reports whether f belongs to this value set.
func (v Values) Has(f Field) bool {
	_, ok := v[f]
	return ok
}

// Clone returns a copy safe to hand out.
func (v Values) Clone() Values {
	return maps.Clone(v)
}

// FieldSpec is the rendering metadata of one field.
type FieldSpec struct {
	Field       Field
	Label       Message
	Placeholder Message
	// Tooltip is optional; a zero Message means none.
	Tooltip Message
	Secret  bool
}
