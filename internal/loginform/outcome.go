package loginform

import (
	"errors"

	"github.com/acolita/media-login/internal/ports"
)

// Outcome classifies a settled submission.
type Outcome int

const (
	// OutcomeNone means no request was sent.
	OutcomeNone Outcome = iota
	OutcomeSuccess
	// OutcomeAuthFailure means the server rejected the credentials (401).
	OutcomeAuthFailure
	// OutcomeGenericFailure covers every other transport or server error.
	OutcomeGenericFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAuthFailure:
		return "auth_failure"
	case OutcomeGenericFailure:
		return "generic_failure"
	default:
		return "none"
	}
}

// MessageKey returns the notification key for o, or "" when nothing is shown.
func (o Outcome) MessageKey() string {
	switch o {
	case OutcomeAuthFailure:
		return KeyCredentialError
	case OutcomeGenericFailure:
		return KeyLoginError
	default:
		return ""
	}
}

// Classify maps the result of the outbound call to an Outcome.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var se *ports.StatusError
	if errors.As(err, &se) && se.Unauthorized() {
		return OutcomeAuthFailure
	}
	return OutcomeGenericFailure
}
