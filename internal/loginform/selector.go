package loginform

import (
	"fmt"
	"sync"

	"github.com/acolita/media-login/internal/mediaserver"
)

// Selector is the exclusive server-type toggle of the initial setup form.
type Selector struct {
	form     *Controller
	onChange func(mediaserver.ServerType)
	mu       sync.Mutex
}

// SelectorOption is one choice as rendered.
type SelectorOption struct {
	Type     mediaserver.ServerType
	Label    string
	Selected bool
}

// NewSelector binds a selector to an initial setup form.
func NewSelector(form *Controller) (*Selector, error) {
	v, ok := form.Variant().(*InitialSetup)
	if !ok {
		return nil, fmt.Errorf("server type selector: %w", ErrWrongMode)
	}
	return &Selector{form: form, onChange: v.OnServerTypeChange}, nil
}

// Selected returns the type held by the form value.
func (s *Selector) Selected() mediaserver.ServerType {
	tag, _ := s.form.Value(FieldServerType)
	t, _ := mediaserver.FromTag(tag)
	return t
}

// Select picks t. Picking the current type again changes nothing and
// notifies nobody; changed reports whether a transition happened.
func (s *Selector) Select(t mediaserver.ServerType) (changed bool, err error) {
	if !t.Valid() {
		return false, fmt.Errorf("%w: %v", mediaserver.ErrUnknownServerType, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Selected() == t {
		return false, nil
	}
	if s.onChange != nil {
		s.onChange(t)
	}
	if err := s.form.Set(FieldServerType, t.Tag()); err != nil {
		return false, err
	}
	return true, nil
}

// Options returns both choices; at most one is selected.
func (s *Selector) Options() []SelectorOption {
	selected := s.Selected()
	opts := make([]SelectorOption, 0, 2)
	for _, t := range mediaserver.All() {
		opts = append(opts, SelectorOption{Type: t, Label: t.DisplayName(), Selected: t == selected})
	}
	return opts
}
