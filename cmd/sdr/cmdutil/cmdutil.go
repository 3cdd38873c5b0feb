// Package cmdutil holds the setup shared by the sdr commands: logging,
// configuration, the server client and the turn recorder.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/sdr/cmd/sdr/sqlitepath"
	"github.com/papercomputeco/sdr/pkg/client"
	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/conversation"
	"github.com/papercomputeco/sdr/pkg/dotdir"
	eventprovider "github.com/papercomputeco/sdr/pkg/eventstream/provider"
	"github.com/papercomputeco/sdr/pkg/logger"
	"github.com/papercomputeco/sdr/pkg/recorder"
	"github.com/papercomputeco/sdr/pkg/transcript"
	transcriptprovider "github.com/papercomputeco/sdr/pkg/transcript/provider"
)

// Logger builds the logger of an interactive command: the pretty handler
// on stderr, at debug level with --debug.
func Logger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logger.New(logger.WithPretty(true), logger.WithDebug(debug))
}

// ConfigDir returns the --config-dir override, empty when unset.
func ConfigDir(cmd *cobra.Command) string {
	configDir, _ := cmd.Flags().GetString("config-dir")
	return configDir
}

// Viper initializes viper for cmd and binds the given registry flags, so
// lookups follow flag > env > config file > default.
func Viper(cmd *cobra.Command, flags ...string) (*viper.Viper, error) {
	v, err := config.InitViper(ConfigDir(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, flags)
	return v, nil
}

// NewClient builds the server client from the client.* keys.
func NewClient(v *viper.Viper, log *slog.Logger) (*client.Client, error) {
	c, err := client.New(client.Config{
		BaseURL: v.GetString("client.base_url"),
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return c, nil
}

// TurnContext derives the context of one streamed turn, bounded by
// client.timeout. A zero timeout leaves it unbounded.
func TurnContext(parent context.Context, v *viper.Viper) (context.Context, context.CancelFunc, error) {
	timeout, err := time.ParseDuration(v.GetString("client.timeout"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid client.timeout: %w", err)
	}

	if timeout <= 0 {
		ctx, cancel := context.WithCancel(parent)
		return ctx, cancel, nil
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, cancel, nil
}

// transcriptKeys reads the transcript.* keys as set.
func transcriptKeys(v *viper.Viper) config.TranscriptConfig {
	return config.TranscriptConfig{
		Provider:    v.GetString("transcript.provider"),
		SQLitePath:  v.GetString("transcript.sqlite_path"),
		PostgresDSN: v.GetString("transcript.postgres_dsn"),
	}
}

// TranscriptConfig reads the transcript.* keys. An empty SQLite path
// resolves to the database in the .sdr/ directory.
func TranscriptConfig(v *viper.Viper, configDir string) (config.TranscriptConfig, error) {
	cfg := transcriptKeys(v)

	if cfg.Provider == config.ProviderSQLite && cfg.SQLitePath == "" {
		path, err := sqlitepath.DefaultSQLitePath(configDir)
		if err != nil {
			return cfg, err
		}
		cfg.SQLitePath = path
	}

	return cfg, nil
}

// OpenTranscripts opens the configured transcript store for reading. An
// unset SQLite path is the database in configDir when one is given, and is
// searched for otherwise.
func OpenTranscripts(ctx context.Context, v *viper.Viper, configDir string) (transcript.Driver, error) {
	cfg := transcriptKeys(v)
	if configDir != "" {
		var err error
		cfg, err = TranscriptConfig(v, configDir)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Provider == config.ProviderSQLite {
		path, err := sqlitepath.ResolveSQLitePath(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		cfg.SQLitePath = path
	}

	return transcriptprovider.NewDriver(ctx, cfg)
}

// RecordingStore opens the transcript store turns are recorded into,
// creating it when needed. It returns nil when recording is disabled.
func RecordingStore(ctx context.Context, v *viper.Viper, configDir string) (transcript.Driver, error) {
	cfg, err := TranscriptConfig(v, configDir)
	if err != nil {
		return nil, err
	}

	driver, err := transcriptprovider.NewDriver(ctx, cfg)
	if errors.Is(err, transcriptprovider.ErrDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return driver, nil
}

// NewRecorder starts the recorder pool for the configured transcript store
// and event stream. Both are optional; with neither configured the pool
// drops turns after logging them.
func NewRecorder(ctx context.Context, v *viper.Viper, configDir string, log *slog.Logger) (*recorder.Pool, error) {
	driver, err := RecordingStore(ctx, v, configDir)
	if err != nil {
		return nil, err
	}

	return NewRecorderWithStore(v, driver, log)
}

// NewRecorderWithStore starts the recorder pool on an already open store,
// which may be nil. The pool closes driver when it is closed, including
// when NewRecorderWithStore fails.
func NewRecorderWithStore(v *viper.Viper, driver transcript.Driver, log *slog.Logger) (*recorder.Pool, error) {
	publisher, err := eventprovider.NewPublisher(config.EventStreamConfig{
		Provider: v.GetString("eventstream.provider"),
		Brokers:  v.GetStringSlice("eventstream.brokers"),
		Topic:    v.GetString("eventstream.topic"),
	}, log)
	if err != nil {
		if driver != nil {
			driver.Close()
		}
		return nil, err
	}

	return recorder.NewPool(&recorder.Config{
		Driver:    driver,
		Publisher: publisher,
		Logger:    log,
	})
}

// ServerLogger builds the logger of a long-running server: JSON with
// --log-json, the pretty handler otherwise. With --log-file every record is
// also appended to that file as JSON. The returned func closes the file.
func ServerLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	debug, _ := cmd.Flags().GetBool("debug")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	logFile, _ := cmd.Flags().GetString("log-file")

	console := logger.New(logger.WithPretty(true), logger.WithDebug(debug))
	if jsonLogs {
		console = logger.New(logger.WithJSON(true), logger.WithDebug(debug))
	}

	if logFile == "" {
		return console, func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(logger.WithJSON(true), logger.WithDebug(debug), logger.WithWriter(f))
	return logger.Multi(console, file), func() { _ = f.Close() }, nil
}

// Serve runs a server until it fails, ctx is done, or SIGINT or SIGTERM
// arrives, and then shuts it down.
func Serve(ctx context.Context, log *slog.Logger, run func() error, shutdown func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		log.Info("shutting down", "reason", context.Cause(ctx))
	}

	return shutdown()
}

// Interruptible returns a child of parent that is cancelled on the first
// SIGINT. stop releases the signal handler and must be called once the
// guarded work is done.
func Interruptible(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// StatusLabel describes the loading indicator of a streaming turn.
func StatusLabel(status conversation.Status, tool string) string {
	switch status {
	case conversation.StatusTool:
		if tool == "" {
			return "using a tool"
		}
		return "using " + tool
	case conversation.StatusThinking:
		return "thinking"
	default:
		return ""
	}
}

// ErrNoSession is returned by ResolveSession when no session is pinned or
// saved.
var ErrNoSession = errors.New("no chat session found; start one with \"sdr chat\" or pass --session")

// ResolveSession returns the pinned client.session_id, or the session the
// chat command saved in the .sdr/ directory.
func ResolveSession(v *viper.Viper, configDir string) (string, error) {
	if id := v.GetString("client.session_id"); id != "" {
		return id, nil
	}

	state, err := dotdir.NewManager().LoadSession(configDir)
	if err != nil {
		return "", fmt.Errorf("loading session state: %w", err)
	}
	if state == nil || state.SessionID == "" {
		return "", ErrNoSession
	}

	return state.SessionID, nil
}
