package presentation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
)

const defaultSettleTimeout = 15 * time.Second

// REPL reads words line by line, runs them through the gate and publishes
// accepted words. After each accepted word it waits for the lookup outcome
// before prompting again.
type REPL struct {
	in       io.Reader
	out      io.Writer
	prompt   string
	gate     *Gate
	terminal *Terminal
	bus      *eventbus.Bus
	settle   time.Duration
	log      *slog.Logger
}

// NewREPL creates a REPL reading from in. Prompts go to out; results are
// rendered by terminal.
func NewREPL(logger *slog.Logger, in io.Reader, out io.Writer, bus *eventbus.Bus, terminal *Terminal) *REPL {
	return &REPL{
		in:       in,
		out:      out,
		prompt:   "word> ",
		gate:     NewGate(bus),
		terminal: terminal,
		bus:      bus,
		settle:   defaultSettleTimeout,
		log:      logger.With("component", "repl"),
	}
}

// SetSettleTimeout bounds the wait for a lookup outcome.
func (r *REPL) SetSettleTimeout(d time.Duration) {
	if d > 0 {
		r.settle = d
	}
}

// Run processes input until EOF, a quit command or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	settled := make(chan struct{}, 1)
	notify := func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	}
	unsubOK := r.bus.ParseSucceeded.Subscribe(func(context.Context, domain.ResolvedDefinition) { notify() })
	unsubFail := r.bus.ParseFailed.Subscribe(func(context.Context, string) { notify() })
	defer unsubOK()
	defer unsubFail()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		fmt.Fprint(r.out, r.prompt)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			fmt.Fprintln(r.out)
			if err != nil {
				return fmt.Errorf("repl: read input: %w", err)
			}
			return nil
		case line = <-lines:
		}

		line = strings.TrimSuffix(line, "\r")
		if isQuit(line) {
			return nil
		}

		// Drop a stale outcome from a lookup that settled after its wait timed out.
		select {
		case <-settled:
		default:
		}

		state, published := r.gate.Submit(ctx, line)
		r.terminal.ShowGate(state)
		if !published {
			continue
		}

		select {
		case <-settled:
		case <-ctx.Done():
			return nil
		case <-time.After(r.settle):
			r.log.WarnContext(ctx, "lookup did not settle in time", slog.String("word", line))
		}
	}
}

func isQuit(line string) bool {
	switch line {
	case ":q", ":quit", ":exit":
		return true
	}
	return false
}
