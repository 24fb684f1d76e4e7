// Command wordbuddy is a talking dictionary: it looks up English words in
// the Free Dictionary API, prints the first definition and example, and
// plays the pronunciation while the character talks.
//
// Usage:
//
//	wordbuddy [repl]                         interactive prompt
//	wordbuddy lookup <word>                  one-shot lookup
//	wordbuddy serve                          HTTP + WebSocket server
//	wordbuddy history [-limit N] [-word W]   list recorded lookups
//	wordbuddy migrate                        apply journal migrations
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) and the
// environment.
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/wordbuddy/internal/app"
)

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage: wordbuddy [repl | lookup <word> | serve | history [-limit N] [-word W] | migrate]")
		os.Exit(2)
	}
	opts.In = os.Stdin
	opts.Out = os.Stdout
	opts.ErrOut = os.Stderr

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, opts); err != nil {
		// The failure has already been printed by the terminal.
		if !errors.Is(err, app.ErrLookupFailed) {
			fmt.Fprintf(os.Stderr, "wordbuddy: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func parseArgs(args []string) (app.Options, error) {
	if len(args) == 0 {
		return app.Options{Mode: app.ModeREPL}, nil
	}

	mode := app.Mode(args[0])
	rest := args[1:]

	switch mode {
	case app.ModeREPL, app.ModeServe, app.ModeMigrate:
		if len(rest) != 0 {
			return app.Options{}, fmt.Errorf("%s takes no arguments", mode)
		}
		return app.Options{Mode: mode}, nil

	case app.ModeLookup:
		if len(rest) != 1 {
			return app.Options{}, errors.New("lookup takes exactly one word")
		}
		return app.Options{Mode: mode, Word: rest[0]}, nil

	case app.ModeHistory:
		fs := flag.NewFlagSet("history", flag.ContinueOnError)
		limit := fs.Int("limit", 0, "maximum number of lookups to list (default 20, max 200)")
		word := fs.String("word", "", "only list lookups of this word")
		if err := fs.Parse(rest); err != nil {
			return app.Options{}, err
		}
		if fs.NArg() != 0 {
			return app.Options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
		}
		return app.Options{Mode: mode, HistoryLimit: *limit, HistoryWord: *word}, nil

	default:
		return app.Options{}, fmt.Errorf("unknown command %q", args[0])
	}
}
