package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acolita/media-login/internal/app"
	"github.com/acolita/media-login/internal/loginform"
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(formTool(), s.handleForm)
	s.mcpServer.AddTool(statusTool(), s.handleStatus)
	s.mcpServer.AddTool(submitTool(s.coord.Mode()), s.handleSubmit)
	if s.coord.Mode() == loginform.ModeInitialSetup {
		s.mcpServer.AddTool(selectServerTypeTool(), s.handleSelectServerType)
	}
	if s.toaster != nil {
		s.mcpServer.AddTool(dismissTool(), s.handleDismiss)
	}
}

// Tool definitions

func formTool() mcp.Tool {
	return mcp.NewTool(toolForm,
		mcp.WithDescription("Describe the sign-in form: its fields, labels, server type choices and current state"),
	)
}

func statusTool() mcp.Tool {
	return mcp.NewTool(toolStatus,
		mcp.WithDescription("Report the submission state, visible field errors, the signed-in user and pending notifications"),
	)
}

func selectServerTypeTool() mcp.Tool {
	return mcp.NewTool(toolSelectServerType,
		mcp.WithDescription("Pick the media server type during initial setup. Picking the current type again changes nothing."),
		mcp.WithString("server_type",
			mcp.Required(),
			mcp.Description("'Jellyfin' or 'Emby' (or the numeric code 2 or 3)"),
		),
	)
}

func submitTool(mode loginform.Mode) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(`Fill the sign-in form and submit it.

Fields that are omitted keep their current value. The form is validated
before anything is sent; validation errors are returned per field.
A rejected password and any other failure are reported as the outcome.`),
		mcp.WithString("username",
			mcp.Description("Media server username"),
		),
		mcp.WithString("password",
			mcp.Description("Media server password"),
		),
	}
	if mode == loginform.ModeInitialSetup {
		opts = append(opts,
			mcp.WithString("host",
				mcp.Description("Media server URL, e.g. http://192.168.1.10:8096"),
			),
			mcp.WithString("email",
				mcp.Description("Email address for the new account"),
			),
		)
	}
	return mcp.NewTool(toolSubmit, opts...)
}

func dismissTool() mcp.Tool {
	return mcp.NewTool(toolDismiss,
		mcp.WithDescription("Dismiss a pending notification"),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Notification key, e.g. 'credentialerror'"),
		),
	)
}

// Result shapes

// FieldInfo describes one rendered input.
type FieldInfo struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	Secret      bool   `json:"secret,omitempty"`
}

// ChoiceInfo is one server type option.
type ChoiceInfo struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// FormResult is returned by media_login_form.
type FormResult struct {
	app.Status
	Fields      []FieldInfo  `json:"fields"`
	ServerTypes []ChoiceInfo `json:"server_types,omitempty"`
}

// SubmitResult is returned by media_login_submit.
type SubmitResult struct {
	Outcome string            `json:"outcome"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	app.Status
}

// NotificationInfo is a pending toast.
type NotificationInfo struct {
	Key       string `json:"key"`
	Text      string `json:"text"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// StatusResult is returned by media_login_status.
type StatusResult struct {
	app.Status
	Notifications []NotificationInfo `json:"notifications,omitempty"`
}

// Tool handlers

func (s *Server) handleForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := FormResult{Status: s.coord.Status()}

	for _, spec := range s.coord.Form().Variant().Fields() {
		result.Fields = append(result.Fields, FieldInfo{
			Name:        string(spec.Field),
			Label:       s.coord.Localize(spec.Label),
			Placeholder: s.coord.Localize(spec.Placeholder),
			Tooltip:     s.coord.Localize(spec.Tooltip),
			Secret:      spec.Secret,
		})
	}
	if sel := s.coord.Selector(); sel != nil {
		for _, o := range sel.Options() {
			result.ServerTypes = append(result.ServerTypes, ChoiceInfo{
				Value:    o.Type.Tag(),
				Label:    o.Label,
				Selected: o.Selected,
			})
		}
	}

	return jsonResult(result)
}

func (s *Server) handleSelectServerType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value := mcp.ParseString(req, "server_type", "")
	if value == "" {
		return mcp.NewToolResultError("server_type is required"), nil
	}

	changed, err := s.coord.SelectServerType(value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slog.Info("server type selected via MCP",
		slog.String("server_type", value),
		slog.Bool("changed", changed),
	)

	return jsonResult(map[string]any{
		"server_type": s.coord.ServerType().Tag(),
		"changed":     changed,
	})
}

func (s *Server) handleSubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	form := s.coord.Form()
	args := req.GetArguments()

	for _, spec := range form.Variant().Fields() {
		name := string(spec.Field)
		if _, ok := args[name]; !ok {
			continue
		}
		if err := form.Set(spec.Field, mcp.ParseString(req, name, "")); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	username, _ := form.Value(loginform.FieldUsername)
	if s.limiter != nil {
		if locked, remaining := s.limiter.IsLocked(s.scope, username); locked {
			slog.Warn("sign-in locked out",
				slog.String("username", username),
				slog.Duration("remaining", remaining),
			)
			return mcp.NewToolResultError(fmt.Sprintf(errLockedOut, remaining.Round(time.Second))), nil
		}
	}

	// A cancelled tool call must not abandon a request already sent.
	outcome, err := form.Submit(context.WithoutCancel(ctx))

	var verr *loginform.ValidationError
	switch {
	case errors.Is(err, loginform.ErrSubmitInProgress):
		return mcp.NewToolResultError(errSubmitInProgress), nil
	case errors.As(err, &verr):
		result := SubmitResult{
			Outcome: "invalid",
			Errors:  map[string]string{},
			Status:  s.coord.Status(),
		}
		for f, msg := range verr.Errors {
			result.Errors[string(f)] = s.coord.Localize(msg)
		}
		return jsonResult(result)
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.recordOutcome(username, outcome)

	result := SubmitResult{
		Outcome: outcome.String(),
		Status:  s.coord.Status(),
	}
	if key := outcome.MessageKey(); key != "" {
		result.Message = s.coord.Localize(loginform.Msg(key))
	}
	return jsonResult(result)
}

func (s *Server) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := StatusResult{Status: s.coord.Status()}

	if s.toaster != nil {
		for _, toast := range s.toaster.Active() {
			info := NotificationInfo{Key: toast.Key, Text: toast.Text}
			if !toast.ExpiresAt.IsZero() {
				info.ExpiresAt = toast.ExpiresAt.Format(time.RFC3339)
			}
			result.Notifications = append(result.Notifications, info)
		}
	}

	return jsonResult(result)
}

func (s *Server) handleDismiss(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.toaster == nil {
		return mcp.NewToolResultError(errNoToaster), nil
	}
	key := mcp.ParseString(req, "key", "")
	if key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}
	s.toaster.Dismiss(key)
	return jsonResult(map[string]any{"dismissed": key})
}

// Helpers

func (s *Server) recordOutcome(username string, outcome loginform.Outcome) {
	if s.limiter == nil {
		return
	}
	switch outcome {
	case loginform.OutcomeAuthFailure:
		s.limiter.RecordFailure(s.scope, username)
	case loginform.OutcomeSuccess:
		s.limiter.RecordSuccess(s.scope, username)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
