package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/wordbuddy/internal/config"
)

// Mode selects what Run does.
type Mode string

const (
	ModeREPL    Mode = "repl"
	ModeLookup  Mode = "lookup"
	ModeServe   Mode = "serve"
	ModeHistory Mode = "history"
	ModeMigrate Mode = "migrate"
)

// ErrLookupFailed is returned by a one-shot lookup that did not resolve a
// definition. The failure itself has already been shown to the user.
var ErrLookupFailed = errors.New("lookup failed")

// Options carries the command line of one invocation.
type Options struct {
	Mode Mode

	// Word is the word of a one-shot lookup.
	Word string

	// History listing filter.
	HistoryWord  string
	HistoryLimit int

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Run is the application entry point. It loads configuration, initializes
// the logger and runs the selected mode until it finishes or ctx is
// canceled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, opts.ErrOut)

	logger.Debug("starting application",
		slog.String("version", BuildVersion()),
		slog.String("mode", string(opts.Mode)),
		slog.String("log_level", cfg.Log.Level),
	)

	switch opts.Mode {
	case ModeREPL, "":
		return runREPL(ctx, cfg, logger, opts)
	case ModeLookup:
		return runLookup(ctx, cfg, logger, opts)
	case ModeServe:
		return runServe(ctx, cfg, logger)
	case ModeHistory:
		return runHistory(ctx, cfg, logger, opts)
	case ModeMigrate:
		return runMigrate(ctx, cfg, logger)
	default:
		return fmt.Errorf("app: unknown mode %q", opts.Mode)
	}
}
