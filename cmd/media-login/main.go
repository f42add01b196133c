// media-login signs in to a Jellyfin or Emby server, or connects one for
// the first time, from the terminal or over MCP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acolita/media-login/internal/adapters/realauth"
	"github.com/acolita/media-login/internal/adapters/realclock"
	"github.com/acolita/media-login/internal/adapters/realdialog"
	"github.com/acolita/media-login/internal/adapters/realfs"
	"github.com/acolita/media-login/internal/app"
	"github.com/acolita/media-login/internal/config"
	"github.com/acolita/media-login/internal/loginform"
	"github.com/acolita/media-login/internal/logging"
	"github.com/acolita/media-login/internal/mcp"
	"github.com/acolita/media-login/internal/notify"
	"github.com/acolita/media-login/internal/ports"
	"github.com/acolita/media-login/internal/security"
)

// Version information - set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		setup       bool
		serveMCP    bool
		showVersion bool
		debug       bool
		accessible  bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file (default: $XDG_CONFIG_HOME/media-login/config.yaml)")
	flag.BoolVar(&setup, "setup", false, "Show the initial setup form even if a media server is configured")
	flag.BoolVar(&serveMCP, "mcp", false, "Serve the form as MCP tools on stdio instead of prompting")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&accessible, "accessible", false, "Use line-based prompts instead of the full-screen form")
	flag.Parse()

	if showVersion {
		fmt.Printf("media-login version %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return 0
	}

	if configPath == "" {
		configPath = config.DefaultConfigPath(realfs.New())
	}

	// Load configuration
	cfg, err := config.Load(configPath, realfs.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	if debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Sanitize)

	mode := loginform.ModeLogin
	if setup || cfg.NeedsSetup() {
		mode = loginform.ModeInitialSetup
	}

	slog.Info("starting media-login",
		slog.String("version", Version),
		slog.String("mode", mode.String()),
		slog.String("server", cfg.Server.URL),
	)

	// Settings follow the config file when it can be watched.
	var settings ports.SettingsProvider = config.NewStatic(cfg)
	configWatcher, watcherErr := config.NewWatcher(configPath, nil)
	if watcherErr != nil {
		slog.Debug("config hot-reload disabled",
			slog.String("error", watcherErr.Error()),
		)
	} else {
		settings = configWatcher
		defer configWatcher.Close()
	}

	client, err := realauth.New(cfg.Server.URL, realauth.WithTimeout(cfg.Server.RequestTimeout))
	if err != nil {
		slog.Error("create auth client", slog.String("error", err.Error()))
		return 1
	}

	toasterOpts := []notify.ToasterOption{notify.WithDismissAfter(cfg.Notifications.DismissAfter)}
	if !serveMCP {
		toasterOpts = append(toasterOpts, notify.WithWriter(os.Stderr))
	}
	toaster := notify.NewToaster(realclock.New(), toasterOpts...)

	coord := app.New(mode, client,
		app.WithSettings(settings),
		app.WithNotifier(toaster),
		app.WithLogger(logger),
		app.WithSessionTimeout(cfg.Server.RequestTimeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveMCP {
		limiter := security.NewAuthRateLimiter(realclock.New(), cfg.MCP.MaxAuthFailures, cfg.MCP.AuthLockout)
		server := mcp.NewServer(coord,
			mcp.WithToaster(toaster),
			mcp.WithRateLimiter(limiter, cfg.Server.URL),
			mcp.WithVersion(Version),
		)
		return runMCP(ctx, server, limiter, cfg.MCP.AuthLockout, configWatcher)
	}

	dialogs := realdialog.New(
		realdialog.WithOutput(os.Stderr),
		realdialog.WithAccessible(accessible || !realdialog.IsTerminal(os.Stdin)),
	)
	return runInteractive(ctx, coord, dialogs)
}

func runMCP(ctx context.Context, server *mcp.Server, limiter *security.AuthRateLimiter, sweep time.Duration, w *config.Watcher) int {
	go limiter.RunCleanup(ctx, sweep)
	go func() {
		<-ctx.Done()
		slog.Info("received shutdown signal")
		if w != nil {
			w.Close()
		}
		os.Exit(0)
	}()

	if err := server.Run(); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func runInteractive(ctx context.Context, coord *app.Coordinator, dialogs ports.DialogProvider) int {
	outcome, err := coord.Run(ctx, dialogs)
	switch {
	case errors.Is(err, ports.ErrDialogAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Cancelled.")
		return 130
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if outcome != loginform.OutcomeSuccess {
		return 1
	}
	if user, ok := coord.User(); ok {
		fmt.Printf("Signed in as %s\n", user.DisplayName)
	} else {
		fmt.Println("Signed in.")
	}
	return 0
}
