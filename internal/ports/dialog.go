package ports

import "context"

// FormField describes one input of a credential form.
type FormField struct {
	// Name is the form value key the input writes to.
	Name        string
	Title       string
	Description string
	Placeholder string
	Secret      bool
	// Value is the initial value; the provider writes the final value back.
	Value string
	// Validate is run on every change. A nil return means the input is valid.
	Validate func(string) error
}

// ChoiceOption is one entry of an exclusive choice.
type ChoiceOption struct {
	Label    string
	Value    string
	Selected bool
}

// DialogProvider abstracts interactive user dialogs.
// Implementations may use TUI forms, native OS dialogs, or test fakes.
type DialogProvider interface {
	// Choose shows an exclusive choice and returns the picked value.
	Choose(ctx context.Context, title string, options []ChoiceOption) (string, error)

	// CredentialForm shows the inputs and returns the final values keyed by
	// FormField.Name. It returns ErrDialogAborted when the user cancels.
	CredentialForm(ctx context.Context, title, submitLabel string, fields []FormField) (map[string]string, error)
}
