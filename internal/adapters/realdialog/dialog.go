// Package realdialog provides a TUI-based DialogProvider using charmbracelet/huh.
package realdialog

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/acolita/media-login/internal/ports"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Provider implements ports.DialogProvider with huh forms on the terminal.
type Provider struct {
	output     io.Writer
	accessible bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithOutput sets the writer forms render to.
func WithOutput(w io.Writer) Option {
	return func(p *Provider) {
		p.output = w
	}
}

// WithAccessible switches forms to line-based prompts for screen readers
// and non-TTY sessions.
func WithAccessible(on bool) Option {
	return func(p *Provider) {
		p.accessible = on
	}
}

// IsTerminal reports whether f is attached to a terminal. Forms fall back
// to accessible mode when it is not.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New returns a new TUI dialog provider.
func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Choose shows a single-select list.
func (p *Provider) Choose(ctx context.Context, title string, options []ports.ChoiceOption) (string, error) {
	form, picked := buildChooseForm(title, options)
	if err := p.run(ctx, form); err != nil {
		return "", err
	}
	return *picked, nil
}

// CredentialForm shows one input per field followed by a confirm button
// labeled with submitLabel. Declining the confirm counts as an abort.
func (p *Provider) CredentialForm(ctx context.Context, title, submitLabel string, fields []ports.FormField) (map[string]string, error) {
	form, bound, confirmed := buildCredentialForm(title, submitLabel, fields)
	if err := p.run(ctx, form); err != nil {
		return nil, err
	}
	if !*confirmed {
		return nil, ports.ErrDialogAborted
	}
	return bound.values(), nil
}

func (p *Provider) run(ctx context.Context, form *huh.Form) error {
	if p.output != nil {
		form = form.WithOutput(p.output)
	}
	form = form.WithAccessible(p.accessible)
	return mapRunError(form.RunWithContext(ctx))
}

func mapRunError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ports.ErrDialogAborted
	}
	return err
}

func buildChooseForm(title string, options []ports.ChoiceOption) (*huh.Form, *string) {
	picked := initialChoice(options)
	sel := huh.NewSelect[string]().
		Title(title).
		Options(choiceOptions(options)...).
		Value(&picked)
	return huh.NewForm(huh.NewGroup(sel)), &picked
}

func choiceOptions(options []ports.ChoiceOption) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		out = append(out, huh.NewOption(o.Label, o.Value).Selected(o.Selected))
	}
	return out
}

// initialChoice returns the selected option's value, or "" when none is.
func initialChoice(options []ports.ChoiceOption) string {
	for _, o := range options {
		if o.Selected {
			return o.Value
		}
	}
	return ""
}

// boundFields holds the storage huh inputs write into.
type boundFields struct {
	names []string
	vals  []*string
}

func (b *boundFields) values() map[string]string {
	out := make(map[string]string, len(b.names))
	for i, name := range b.names {
		out[name] = *b.vals[i]
	}
	return out
}

func bindFields(fields []ports.FormField) *boundFields {
	b := &boundFields{}
	for _, f := range fields {
		v := f.Value
		b.names = append(b.names, f.Name)
		b.vals = append(b.vals, &v)
	}
	return b
}

func buildCredentialForm(title, submitLabel string, fields []ports.FormField) (*huh.Form, *boundFields, *bool) {
	bound := bindFields(fields)
	confirmed := false

	inputs := make([]huh.Field, 0, len(fields)+1)
	for i, f := range fields {
		in := huh.NewInput().
			Key(f.Name).
			Title(f.Title).
			Description(f.Description).
			Placeholder(f.Placeholder).
			Value(bound.vals[i])
		if f.Secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		if f.Validate != nil {
			in = in.Validate(f.Validate)
		}
		inputs = append(inputs, in)
	}

	inputs = append(inputs, huh.NewConfirm().
		Title(title).
		Affirmative(submitLabel).
		Negative("Cancel").
		Value(&confirmed))

	return huh.NewForm(huh.NewGroup(inputs...)), bound, &confirmed
}

// Ensure Provider implements ports.DialogProvider.
var _ ports.DialogProvider = (*Provider)(nil)
