// Package fakedialog provides a test fake for ports.DialogProvider.
package fakedialog

import (
	"context"
	"fmt"

	"github.com/acolita/media-login/internal/ports"
)

// Provider is a controllable fake DialogProvider for testing.
type Provider struct {
	// Choice is returned by Choose.
	Choice string
	// ChooseErr is returned by Choose.
	ChooseErr error

	// Answers are typed into the credential form, keyed by field name.
	// Every answer is passed through the field's Validate func.
	Answers map[string]string
	// FormErr is returned by CredentialForm.
	FormErr error

	// ChooseCalls counts Choose invocations.
	ChooseCalls int
	// FormCalls counts CredentialForm invocations.
	FormCalls int
	// ReceivedOptions captures the options passed to the last Choose.
	ReceivedOptions []ports.ChoiceOption
	// ReceivedFields captures the fields passed to the last CredentialForm.
	ReceivedFields []ports.FormField
	// ReceivedSubmitLabel captures the submit label of the last CredentialForm.
	ReceivedSubmitLabel string
}

// New returns a new fake dialog provider.
func New() *Provider {
	return &Provider{Answers: map[string]string{}}
}

// Choose returns the pre-configured Choice and ChooseErr.
func (p *Provider) Choose(ctx context.Context, title string, options []ports.ChoiceOption) (string, error) {
	p.ChooseCalls++
	p.ReceivedOptions = options
	if p.ChooseErr != nil {
		return "", p.ChooseErr
	}
	return p.Choice, nil
}

// CredentialForm fills every field from Answers, validating each one.
func (p *Provider) CredentialForm(ctx context.Context, title, submitLabel string, fields []ports.FormField) (map[string]string, error) {
	p.FormCalls++
	p.ReceivedFields = fields
	p.ReceivedSubmitLabel = submitLabel
	if p.FormErr != nil {
		return nil, p.FormErr
	}

	out := make(map[string]string, len(fields))
	for _, f := range fields {
		v, ok := p.Answers[f.Name]
		if !ok {
			v = f.Value
		}
		if f.Validate != nil {
			if err := f.Validate(v); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
		out[f.Name] = v
	}
	return out, nil
}
