// Package mcp implements the MCP protocol server for media-login.
package mcp

import (
	"log/slog"

	"github.com/acolita/media-login/internal/app"
	"github.com/acolita/media-login/internal/notify"
	"github.com/acolita/media-login/internal/security"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server implementation.
type Server struct {
	mcpServer *server.MCPServer
	coord     *app.Coordinator
	toaster   *notify.Toaster
	limiter   *security.AuthRateLimiter
	scope     string
	version   string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithToaster exposes pending notifications through the status tool.
func WithToaster(t *notify.Toaster) ServerOption {
	return func(s *Server) {
		s.toaster = t
	}
}

// WithRateLimiter locks an account out of the submit tool after repeated
// credential rejections. scope separates accounts of different servers.
func WithRateLimiter(rl *security.AuthRateLimiter, scope string) ServerOption {
	return func(s *Server) {
		s.limiter = rl
		s.scope = scope
	}
}

// WithVersion sets the version reported to clients.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a new MCP server around coord.
func NewServer(coord *app.Coordinator, opts ...ServerOption) *Server {
	s := &Server{
		coord:   coord,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		"media-login",
		s.version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio transport.
func (s *Server) Run() error {
	slog.Info("starting MCP server on stdio transport",
		slog.String("mode", s.coord.Mode().String()),
	)
	return server.ServeStdio(s.mcpServer)
}
