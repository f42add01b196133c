// Package app wires the login form to its collaborators and drives it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/acolita/media-login/internal/loginform"
	"github.com/acolita/media-login/internal/mediaserver"
	"github.com/acolita/media-login/internal/ports"
)

// DefaultSessionTimeout bounds the session check run after every attempt.
const DefaultSessionTimeout = 10 * time.Second

// Coordinator owns the form mode and the server-type selection, builds the
// form controller and re-checks the session after every attempt.
type Coordinator struct {
	client         ports.AuthClient
	settings       ports.SettingsProvider
	notifier       ports.Notifier
	localizer      loginform.Localizer
	logger         *slog.Logger
	sessionTimeout time.Duration

	form     *loginform.Controller
	selector *loginform.Selector

	mu         sync.Mutex
	serverType mediaserver.ServerType
	user       *ports.User
	checks     int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSettings supplies the settings the login form reads.
func WithSettings(p ports.SettingsProvider) Option {
	return func(c *Coordinator) {
		c.settings = p
	}
}

// WithNotifier sets where failure notifications go.
func WithNotifier(n ports.Notifier) Option {
	return func(c *Coordinator) {
		c.notifier = n
	}
}

// WithLocalizer overrides the English catalog.
func WithLocalizer(l loginform.Localizer) Option {
	return func(c *Coordinator) {
		c.localizer = l
	}
}

// WithLogger sets the logger passed down to the form.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithSessionTimeout bounds each session check.
func WithSessionTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.sessionTimeout = d
		}
	}
}

// New builds a coordinator and its form for mode.
func New(mode loginform.Mode, client ports.AuthClient, opts ...Option) *Coordinator {
	c := &Coordinator{
		client:         client,
		localizer:      loginform.English(),
		logger:         slog.Default(),
		sessionTimeout: DefaultSessionTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	var variant loginform.Variant
	switch mode {
	case loginform.ModeInitialSetup:
		variant = &loginform.InitialSetup{
			ServerType:         c.ServerType,
			OnServerTypeChange: c.setServerType,
		}
	default:
		variant = &loginform.Login{Settings: c.settings}
	}

	formOpts := []loginform.Option{
		loginform.WithLocalizer(c.localizer),
		loginform.WithLogger(c.logger),
	}
	if c.notifier != nil {
		formOpts = append(formOpts, loginform.WithNotifier(c.notifier))
	}
	c.form = loginform.New(variant, client, c.revalidate, formOpts...)

	if mode == loginform.ModeInitialSetup {
		// Cannot fail: the variant is InitialSetup.
		c.selector, _ = loginform.NewSelector(c.form)
	}
	return c
}

// Form returns the form controller.
func (c *Coordinator) Form() *loginform.Controller { return c.form }

// Selector returns the server-type selector, or nil in login mode.
func (c *Coordinator) Selector() *loginform.Selector { return c.selector }

// Mode returns the form mode.
func (c *Coordinator) Mode() loginform.Mode { return c.form.Mode() }

// ServerType returns the current selection.
func (c *Coordinator) ServerType() mediaserver.ServerType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverType
}

func (c *Coordinator) setServerType(t mediaserver.ServerType) {
	c.mu.Lock()
	c.serverType = t
	c.mu.Unlock()
	c.logger.Debug("server type selected", slog.String("server_type", t.String()))
}

// User returns the signed-in user as of the last session check.
func (c *Coordinator) User() (ports.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return ports.User{}, false
	}
	return *c.user, true
}

// SessionChecks returns how many session checks have run.
func (c *Coordinator) SessionChecks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checks
}

// ForgotPasswordURL returns the reset link in login mode, "" otherwise.
func (c *Coordinator) ForgotPasswordURL() string {
	if v, ok := c.form.Variant().(*loginform.Login); ok {
		return v.ForgotPasswordURL()
	}
	return ""
}

// Localize renders m with the coordinator's catalog.
func (c *Coordinator) Localize(m loginform.Message) string {
	return c.localizer.Localize(m)
}

// SelectServerType parses value (tag or wire code) and selects it.
func (c *Coordinator) SelectServerType(value string) (bool, error) {
	if c.selector == nil {
		return false, fmt.Errorf("select server type: %w", loginform.ErrWrongMode)
	}
	t, err := mediaserver.Parse(value)
	if err != nil {
		return false, err
	}
	return c.selector.Select(t)
}

// revalidate re-reads the session after an attempt. Failures only clear
// the cached user.
func (c *Coordinator) revalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), c.sessionTimeout)
	defer cancel()

	user, err := c.client.CurrentUser(ctx)

	c.mu.Lock()
	c.checks++
	if err != nil {
		c.user = nil
	} else {
		c.user = &user
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("no active session", slog.String("error", err.Error()))
		return
	}
	c.logger.Info("session active",
		slog.Int("user_id", user.ID),
		slog.String("email", user.Email),
	)
}

// Run drives one interactive attempt through dialogs: server type first
// (initial setup only), then the credential form, then submission.
// Inputs are validated as they change; an abort returns ports.ErrDialogAborted.
// Once the form is submitted the request runs to completion even if ctx is
// cancelled, so the attempt always settles.
func (c *Coordinator) Run(ctx context.Context, dialogs ports.DialogProvider) (loginform.Outcome, error) {
	if c.selector != nil {
		if err := c.chooseServerType(ctx, dialogs); err != nil {
			return loginform.OutcomeNone, err
		}
	}

	fields := c.formFields()
	title := c.Localize(c.form.SubmitLabel())
	values, err := dialogs.CredentialForm(ctx, title, title, fields)
	if err != nil {
		return loginform.OutcomeNone, err
	}

	for _, f := range fields {
		if v, ok := values[f.Name]; ok {
			if err := c.form.Set(loginform.Field(f.Name), v); err != nil {
				return loginform.OutcomeNone, err
			}
		}
	}

	return c.form.Submit(context.WithoutCancel(ctx))
}

func (c *Coordinator) chooseServerType(ctx context.Context, dialogs ports.DialogProvider) error {
	var options []ports.ChoiceOption
	for _, o := range c.selector.Options() {
		options = append(options, ports.ChoiceOption{
			Label:    o.Label,
			Value:    o.Type.Tag(),
			Selected: o.Selected,
		})
	}

	picked, err := dialogs.Choose(ctx, c.Localize(loginform.Msg(loginform.KeyServerType)), options)
	if err != nil {
		return err
	}
	if _, err := c.SelectServerType(picked); err != nil {
		return fmt.Errorf("server type %q: %w", picked, err)
	}
	return nil
}

// formFields maps the variant's inputs to dialog fields. Each Validate
// writes through to the controller so the schema stays authoritative.
func (c *Coordinator) formFields() []ports.FormField {
	values := c.form.Values()
	forgot := c.ForgotPasswordURL()

	specs := c.form.Variant().Fields()
	fields := make([]ports.FormField, 0, len(specs))
	for _, spec := range specs {
		f := spec.Field
		field := ports.FormField{
			Name:        string(f),
			Title:       c.Localize(spec.Label),
			Placeholder: c.Localize(spec.Placeholder),
			Secret:      spec.Secret,
			Value:       values[f],
			Validate: func(s string) error {
				if err := c.form.Set(f, s); err != nil {
					return err
				}
				if msg, ok := c.form.Errors()[f]; ok {
					return errors.New(c.Localize(msg))
				}
				return nil
			},
		}
		if !spec.Tooltip.IsZero() {
			field.Description = c.Localize(spec.Tooltip)
		}
		if f == loginform.FieldPassword && forgot != "" {
			field.Description = c.Localize(loginform.Msg(loginform.KeyForgotPassword)) + " " + forgot
		}
		fields = append(fields, field)
	}
	return fields
}

// Status is a snapshot of the form for display.
type Status struct {
	Mode              string            `json:"mode"`
	State             string            `json:"state"`
	ServerType        string            `json:"server_type,omitempty"`
	Values            map[string]string `json:"values"`
	Errors            map[string]string `json:"errors,omitempty"`
	CanSubmit         bool              `json:"can_submit"`
	SubmitLabel       string            `json:"submit_label"`
	ForgotPasswordURL string            `json:"forgot_password_url,omitempty"`
	SignedIn          bool              `json:"signed_in"`
	User              *ports.User       `json:"user,omitempty"`
}

// Status returns the current snapshot. Secret values are never included.
func (c *Coordinator) Status() Status {
	st := Status{
		Mode:              c.Mode().String(),
		State:             c.form.State().String(),
		Values:            map[string]string{},
		Errors:            map[string]string{},
		CanSubmit:         c.form.CanSubmit(),
		SubmitLabel:       c.Localize(c.form.SubmitLabel()),
		ForgotPasswordURL: c.ForgotPasswordURL(),
	}
	if c.selector != nil {
		st.ServerType = c.selector.Selected().Tag()
	}

	secret := map[loginform.Field]bool{}
	for _, spec := range c.form.Variant().Fields() {
		secret[spec.Field] = spec.Secret
	}
	for f, v := range c.form.Values() {
		if secret[f] {
			continue
		}
		st.Values[string(f)] = v
	}
	for f, msg := range c.form.VisibleErrors() {
		st.Errors[string(f)] = c.Localize(msg)
	}
	if u, ok := c.User(); ok {
		st.SignedIn = true
		st.User = &u
	}
	return st
}
