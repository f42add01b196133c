package loginform

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/acolita/media-login/internal/ports"
)

// State is the submission state of a form.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	// StateSettled lasts while the reconciliation callback runs. Submit is
	// still rejected; the form then returns to StateIdle.
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Controller drives one mounted form: it keeps the values, validates them on
// every change and runs at most one submission at a time.
type Controller struct {
	variant    Variant
	client     ports.AuthClient
	revalidate func()
	notifier   ports.Notifier
	localizer  Localizer
	logger     *slog.Logger

	mu      sync.Mutex
	state   State
	values  Values
	touched map[Field]bool
	errors  Errors
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where failure notifications go.
func WithNotifier(n ports.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLocalizer sets the message catalog used for notifications.
func WithLocalizer(l Localizer) Option {
	return func(c *Controller) {
		c.localizer = l
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller for variant. revalidate is called once after
// every submission attempt, whatever its outcome.
func New(variant Variant, client ports.AuthClient, revalidate func(), opts ...Option) *Controller {
	c := &Controller{
		variant:    variant,
		client:     client,
		revalidate: revalidate,
		localizer:  English(),
		logger:     slog.Default(),
		values:     variant.InitialValues(),
		touched:    make(map[Field]bool),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, f := range variant.InitialTouched() {
		c.touched[f] = true
	}
	c.errors = variant.Schema(c.values).Validate(c.values)
	return c
}

// Variant returns the form shape chosen at construction.
func (c *Controller) Variant() Variant { return c.variant }

// Mode returns the active mode.
func (c *Controller) Mode() Mode { return c.variant.Mode() }

// Localizer returns the catalog used by the controller.
func (c *Controller) Localizer() Localizer { return c.localizer }

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Values returns a copy of the current values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone()
}

// Value returns one field's value.
func (c *Controller) Value(f Field) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[f]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return v, nil
}

// Set changes a field, marks it touched and re-runs validation.
func (c *Controller) Set(f Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.values.Has(f) {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	c.values[f] = value
	c.touched[f] = true
	c.validateLocked()
	return nil
}

// Touch marks a field as visited so its error becomes visible.
func (c *Controller) Touch(f Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.values.Has(f) {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	c.touched[f] = true
	c.validateLocked()
	return nil
}

// Touched reports whether f has been visited.
func (c *Controller) Touched(f Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched[f]
}

// Errors returns every current validation error, touched or not.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.errors)
}

// VisibleErrors returns the errors of touched fields only. The server-type
// error disappears as soon as any type is selected.
func (c *Controller) VisibleErrors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	visible := Errors{}
	for f, msg := range c.errors {
		if !c.touched[f] {
			continue
		}
		if f == FieldServerType && c.values[FieldServerType] != "" {
			continue
		}
		visible[f] = msg
	}
	return visible
}

// Valid reports whether every constraint holds.
func (c *Controller) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) == 0
}

// CanSubmit reports whether the submit control is enabled.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) == 0 && !c.busyLocked()
}

// SubmitLabel returns the submit button text for the current state.
func (c *Controller) SubmitLabel() Message {
	return c.variant.SubmitLabel(c.State() == StateSubmitting)
}

// Submit validates the form and, when valid, sends the credentials. It
// returns ErrSubmitInProgress while another attempt is in flight or still
// settling, and a *ValidationError when the form is invalid; in both cases
// nothing is sent.
// Transport failures are not returned: they are classified, notified and
// reported through the Outcome. revalidate runs once for every request sent.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return OutcomeNone, ErrSubmitInProgress
	}

	schema := c.validateLocked()
	for _, f := range schema.Fields() {
		c.touched[f] = true
	}
	if len(c.errors) > 0 {
		verr := &ValidationError{Errors: maps.Clone(c.errors)}
		c.mu.Unlock()
		return OutcomeNone, verr
	}

	c.state = StateSubmitting
	req := c.variant.Payload(c.values)
	c.mu.Unlock()

	defer c.settle()

	c.logger.Info("submitting credentials",
		slog.String("mode", c.variant.Mode().String()),
		slog.String("username", req.Username),
		slog.String("email", req.Email),
		slog.String("hostname", req.Hostname),
	)

	err := c.client.Authenticate(ctx, req)
	outcome := Classify(err)
	c.report(outcome, err)
	return outcome, nil
}

// validateLocked re-runs the schema. c.mu must be held.
func (c *Controller) validateLocked() Schema {
	prev := c.state
	if prev == StateIdle {
		c.state = StateValidating
	}
	schema := c.variant.Schema(c.values)
	c.errors = schema.Validate(c.values)
	c.state = prev
	return schema
}

// busyLocked reports whether an attempt owns the form. c.mu must be held.
func (c *Controller) busyLocked() bool {
	return c.state == StateSubmitting || c.state == StateSettled
}

// settle ends an attempt. It runs deferred so the reconciliation callback
// is reached on every exit path. The attempt keeps ownership until the
// callback returns.
func (c *Controller) settle() {
	c.setState(StateSettled)
	defer c.release()
	if c.revalidate != nil {
		c.revalidate()
	}
}

// release returns the form to Idle if the settling attempt still owns it.
func (c *Controller) release() {
	c.mu.Lock()
	if c.state == StateSettled {
		c.state = StateIdle
	}
	c.mu.Unlock()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// report logs the outcome and raises the notification for failures.
func (c *Controller) report(outcome Outcome, err error) {
	if outcome == OutcomeSuccess {
		c.logger.Info("credentials accepted")
		return
	}

	c.logger.Warn("sign-in failed",
		slog.String("outcome", outcome.String()),
		slog.String("error", err.Error()),
	)

	if c.notifier == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("notification failed", slog.Any("panic", r))
		}
	}()

	key := outcome.MessageKey()
	c.notifier.Notify(ports.Notification{
		Key:         key,
		Text:        c.localizer.Localize(Msg(key)),
		Appearance:  ports.AppearanceError,
		AutoDismiss: true,
	})
}
