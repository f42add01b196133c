package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/acolita/media-login/internal/app"
	"github.com/acolita/media-login/internal/loginform"
	"github.com/acolita/media-login/internal/mediaserver"
	"github.com/acolita/media-login/internal/notify"
	"github.com/acolita/media-login/internal/ports"
	"github.com/acolita/media-login/internal/security"
	"github.com/acolita/media-login/internal/testing/fakes/fakeauth"
	"github.com/acolita/media-login/internal/testing/fakes/fakeclock"
	"github.com/acolita/media-login/internal/testing/fakes/fakesettings"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

type harness struct {
	srv    *Server
	client *fakeauth.Client
	clock  *fakeclock.Clock
}

func newTestServer(mode loginform.Mode) *harness {
	client := fakeauth.New()
	clock := fakeclock.New(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	toaster := notify.NewToaster(clock)
	settings := fakesettings.New(ports.Settings{
		JellyfinHost:    "http://jf.local:8096",
		MediaServerType: mediaserver.Jellyfin,
	})
	coord := app.New(mode, client,
		app.WithSettings(settings),
		app.WithNotifier(toaster),
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	limiter := security.NewAuthRateLimiter(clock, 2, time.Minute)
	return &harness{
		srv:    NewServer(coord, WithToaster(toaster), WithRateLimiter(limiter, "http://localhost:5055"), WithVersion("test")),
		client: client,
		clock:  clock,
	}
}

func makeRequest(args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(result *mcpgo.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	tc, ok := mcpgo.AsTextContent(result.Content[0])
	if !ok {
		return ""
	}
	return tc.Text
}

func decode[T any](t *testing.T, result *mcpgo.CallToolResult) T {
	t.Helper()
	var v T
	text := resultText(result)
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		t.Fatalf("failed to parse result JSON: %v (text: %s)", err, text)
	}
	return v
}

func call(t *testing.T, h func(context.Context, mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error), args map[string]any) *mcpgo.CallToolResult {
	t.Helper()
	result, err := h(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

// --- Tool definitions ---

func TestToolDefinitions(t *testing.T) {
	tools := []struct {
		name string
		tool mcpgo.Tool
	}{
		{toolForm, formTool()},
		{toolStatus, statusTool()},
		{toolSelectServerType, selectServerTypeTool()},
		{toolSubmit, submitTool(loginform.ModeLogin)},
		{toolDismiss, dismissTool()},
	}

	for _, tt := range tools {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.name)
			}
			if tt.tool.Description == "" {
				t.Errorf("%s: tool description is empty", tt.name)
			}
		})
	}
}

func TestSubmitToolFieldsFollowMode(t *testing.T) {
	login := submitTool(loginform.ModeLogin)
	if _, ok := login.InputSchema.Properties["host"]; ok {
		t.Error("login submit tool exposes host")
	}
	setup := submitTool(loginform.ModeInitialSetup)
	for _, name := range []string{"username", "password", "host", "email"} {
		if _, ok := setup.InputSchema.Properties[name]; !ok {
			t.Errorf("setup submit tool missing %q", name)
		}
	}
}

// --- handleForm ---

func TestHandleFormLogin(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)

	result := call(t, h.srv.handleForm, nil)
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(result))
	}
	form := decode[FormResult](t, result)

	if form.Mode != "login" {
		t.Errorf("mode = %q, want login", form.Mode)
	}
	if len(form.Fields) != 2 {
		t.Fatalf("fields = %+v, want 2", form.Fields)
	}
	if !form.Fields[1].Secret {
		t.Error("password field not marked secret")
	}
	if len(form.ServerTypes) != 0 {
		t.Errorf("server_types = %+v, want none in login mode", form.ServerTypes)
	}
	if !strings.HasSuffix(form.ForgotPasswordURL, "/web/index.html#!/forgotpassword.html") {
		t.Errorf("forgot_password_url = %q", form.ForgotPasswordURL)
	}
}

func TestHandleFormInitialSetup(t *testing.T) {
	h := newTestServer(loginform.ModeInitialSetup)

	form := decode[FormResult](t, call(t, h.srv.handleForm, nil))

	if len(form.Fields) != 4 {
		t.Fatalf("fields = %+v, want 4", form.Fields)
	}
	if form.Fields[0].Label != "Media Server URL" {
		t.Errorf("host label = %q, want %q", form.Fields[0].Label, "Media Server URL")
	}
	if len(form.ServerTypes) != 2 {
		t.Fatalf("server_types = %+v, want 2", form.ServerTypes)
	}
	for _, o := range form.ServerTypes {
		if o.Selected {
			t.Errorf("%s selected before any choice", o.Value)
		}
	}
	if form.Errors["serverType"] == "" {
		t.Error("server type error not visible initially")
	}
	if form.CanSubmit {
		t.Error("can_submit = true on an empty form")
	}
}

// --- handleSelectServerType ---

func TestHandleSelectServerType(t *testing.T) {
	h := newTestServer(loginform.ModeInitialSetup)

	tests := []struct {
		name        string
		args        map[string]any
		wantErr     bool
		wantChanged bool
	}{
		{"missing", map[string]any{}, true, false},
		{"unknown", map[string]any{"server_type": "Plex"}, true, false},
		{"first pick", map[string]any{"server_type": "Emby"}, false, true},
		{"reselect", map[string]any{"server_type": "Emby"}, false, false},
		{"switch by code", map[string]any{"server_type": "2"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, h.srv.handleSelectServerType, tt.args)
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v (%s)", result.IsError, tt.wantErr, resultText(result))
			}
			if tt.wantErr {
				return
			}
			got := decode[map[string]any](t, result)
			if got["changed"] != tt.wantChanged {
				t.Errorf("changed = %v, want %v", got["changed"], tt.wantChanged)
			}
		})
	}

	form := decode[FormResult](t, call(t, h.srv.handleForm, nil))
	if form.Fields[0].Label != "Jellyfin URL" {
		t.Errorf("host label = %q after selecting Jellyfin", form.Fields[0].Label)
	}
}

// --- handleSubmit ---

func TestHandleSubmitLoginSuccess(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)
	h.client.User = ports.User{ID: 1, DisplayName: "Alice"}

	result := call(t, h.srv.handleSubmit, map[string]any{"username": "alice", "password": "pw"})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(result))
	}
	got := decode[SubmitResult](t, result)

	if got.Outcome != "success" {
		t.Errorf("outcome = %q, want success", got.Outcome)
	}
	if !got.SignedIn || got.User == nil || got.User.DisplayName != "Alice" {
		t.Errorf("signed_in = %v, user = %+v", got.SignedIn, got.User)
	}
	if _, ok := got.Values["password"]; ok {
		t.Error("submit result echoes the password")
	}

	reqs := h.client.Requests()
	if len(reqs) != 1 || reqs[0].Email != "alice" {
		t.Errorf("requests = %+v, want one with email = username", reqs)
	}
}

func TestHandleSubmitIgnoresCancelledRequest(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.srv.handleSubmit(ctx, makeRequest(map[string]any{"username": "alice"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := decode[SubmitResult](t, result)

	if got.Outcome != "success" {
		t.Errorf("outcome = %q, want success", got.Outcome)
	}
	errs := h.client.ContextErrors()
	if len(errs) != 1 || errs[0] != nil {
		t.Errorf("request context errors = %v, want one nil", errs)
	}
}

func TestHandleSubmitInvalid(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)

	result := call(t, h.srv.handleSubmit, map[string]any{"password": "hunter2"})
	got := decode[SubmitResult](t, result)

	if got.Outcome != "invalid" {
		t.Errorf("outcome = %q, want invalid", got.Outcome)
	}
	if got.Errors["username"] != "Username required" {
		t.Errorf("errors = %v, want username required", got.Errors)
	}
	if _, ok := got.Errors["password"]; ok {
		t.Errorf("errors = %v, empty login password is allowed", got.Errors)
	}
	if len(h.client.Requests()) != 0 {
		t.Error("request sent for an invalid form")
	}
}

func TestHandleSubmitUnauthorizedThenStatus(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)
	h.client.Err = &ports.StatusError{Code: http.StatusUnauthorized}
	h.client.UserErr = &ports.StatusError{Code: http.StatusForbidden}

	got := decode[SubmitResult](t, call(t, h.srv.handleSubmit, map[string]any{"username": "alice", "password": "bad"}))
	if got.Outcome != "auth_failure" {
		t.Errorf("outcome = %q, want auth_failure", got.Outcome)
	}
	if got.Message != "The username or password is incorrect." {
		t.Errorf("message = %q", got.Message)
	}

	status := decode[StatusResult](t, call(t, h.srv.handleStatus, nil))
	if len(status.Notifications) != 1 || status.Notifications[0].Key != "credentialerror" {
		t.Fatalf("notifications = %+v, want credentialerror", status.Notifications)
	}
	if status.Notifications[0].ExpiresAt == "" {
		t.Error("notification does not auto-dismiss")
	}

	h.clock.Advance(notify.DefaultDismissAfter + time.Second)
	status = decode[StatusResult](t, call(t, h.srv.handleStatus, nil))
	if len(status.Notifications) != 0 {
		t.Errorf("notifications = %+v after expiry, want none", status.Notifications)
	}
}

func TestHandleDismiss(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)
	h.client.Err = &ports.StatusError{Code: http.StatusBadGateway}

	call(t, h.srv.handleSubmit, map[string]any{"username": "alice", "password": "pw"})

	if result := call(t, h.srv.handleDismiss, map[string]any{}); !result.IsError {
		t.Error("dismiss without key: expected error result")
	}
	call(t, h.srv.handleDismiss, map[string]any{"key": "loginerror"})

	status := decode[StatusResult](t, call(t, h.srv.handleStatus, nil))
	if len(status.Notifications) != 0 {
		t.Errorf("notifications = %+v after dismiss, want none", status.Notifications)
	}
}

func TestHandleSubmitInitialSetup(t *testing.T) {
	h := newTestServer(loginform.ModeInitialSetup)

	call(t, h.srv.handleSelectServerType, map[string]any{"server_type": "Jellyfin"})
	got := decode[SubmitResult](t, call(t, h.srv.handleSubmit, map[string]any{
		"host":     "http://10.0.0.5:8096",
		"email":    "admin@example.com",
		"username": "admin",
		"password": "pw",
	}))
	if got.Outcome != "success" {
		t.Fatalf("outcome = %q, errors = %v", got.Outcome, got.Errors)
	}

	reqs := h.client.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].ServerType != int(mediaserver.Jellyfin) || reqs[0].Hostname != "http://10.0.0.5:8096" {
		t.Errorf("request = %+v", reqs[0])
	}
}

func TestHandleSubmitInProgress(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)

	var nested *mcpgo.CallToolResult
	h.client.OnAuthenticate = func(ports.AuthRequest) {
		nested, _ = h.srv.handleSubmit(context.Background(), makeRequest(nil))
	}

	call(t, h.srv.handleSubmit, map[string]any{"username": "alice", "password": "pw"})

	if nested == nil || !nested.IsError {
		t.Fatalf("nested submit = %+v, want error result", nested)
	}
	if !strings.Contains(resultText(nested), errSubmitInProgress) {
		t.Errorf("nested submit text = %q", resultText(nested))
	}
	if len(h.client.Requests()) != 1 {
		t.Errorf("requests = %d, want 1", len(h.client.Requests()))
	}
}

func TestHandleSubmitLockout(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)
	h.client.Err = &ports.StatusError{Code: http.StatusUnauthorized}
	args := map[string]any{"username": "alice", "password": "guess"}

	for i := 0; i < 2; i++ {
		got := decode[SubmitResult](t, call(t, h.srv.handleSubmit, args))
		if got.Outcome != "auth_failure" {
			t.Fatalf("attempt %d outcome = %q, want auth_failure", i, got.Outcome)
		}
	}

	result := call(t, h.srv.handleSubmit, args)
	if !result.IsError || !strings.Contains(resultText(result), "try again in 1m0s") {
		t.Fatalf("third attempt = %q, want lockout error", resultText(result))
	}
	if n := len(h.client.Requests()); n != 2 {
		t.Errorf("requests = %d, want 2 (locked attempt must not be sent)", n)
	}

	h.clock.Advance(time.Minute)
	h.client.Err = nil
	got := decode[SubmitResult](t, call(t, h.srv.handleSubmit, args))
	if got.Outcome != "success" {
		t.Errorf("outcome after lockout = %q, want success", got.Outcome)
	}
}

func TestHandleSubmitGenericFailureDoesNotCount(t *testing.T) {
	h := newTestServer(loginform.ModeLogin)
	h.client.Err = &ports.StatusError{Code: http.StatusInternalServerError}
	args := map[string]any{"username": "alice", "password": "pw"}

	for i := 0; i < 3; i++ {
		result := call(t, h.srv.handleSubmit, args)
		if result.IsError {
			t.Fatalf("attempt %d locked out on server errors: %s", i, resultText(result))
		}
	}
}

// --- jsonResult ---

func TestJSONResult(t *testing.T) {
	result, err := jsonResult(map[string]any{"status": "ok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError || !strings.Contains(resultText(result), `"ok"`) {
		t.Errorf("jsonResult() = %+v", result)
	}

	result, _ = jsonResult(make(chan int))
	if !result.IsError {
		t.Error("expected error result for unmarshalable value")
	}
}
