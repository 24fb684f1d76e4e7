package presentation

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLookup answers every WordRequested synchronously.
func fakeLookup(bus *eventbus.Bus) *[]string {
	var words []string
	bus.WordRequested.Subscribe(func(ctx context.Context, w string) {
		words = append(words, w)
		if w == "zzz" {
			bus.ParseFailed.Publish(ctx, domain.NoDataMessage)
			return
		}
		bus.ParseSucceeded.Publish(ctx, domain.ResolvedDefinition{Text: "def of " + w, Example: "ex"})
	})
	return &words
}

func TestREPL_Run(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	words := fakeLookup(bus)

	var out bytes.Buffer
	term := NewTerminal(&out, bus)
	term.Start()
	defer term.Close()

	in := strings.NewReader("hello\n\nhello world\nzzz\r\n")
	repl := NewREPL(newTestLogger(), in, &out, bus, term)
	repl.SetSettleTimeout(time.Second)

	require.NoError(t, repl.Run(context.Background()))

	assert.Equal(t, []string{"hello", "zzz"}, *words, "gated lines are never published")
	got := out.String()
	assert.Contains(t, got, "Definition : def of hello")
	assert.Contains(t, got, WhitespaceWarning)
	assert.Contains(t, got, "Parse failed due to : No Data Found")
}

func TestREPL_Quit(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	words := fakeLookup(bus)

	var out bytes.Buffer
	term := NewTerminal(&out, bus)
	repl := NewREPL(newTestLogger(), strings.NewReader(":q\nhello\n"), &out, bus, term)

	require.NoError(t, repl.Run(context.Background()))
	assert.Empty(t, *words)
}

func TestREPL_ContextCanceled(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	repl := NewREPL(newTestLogger(), pr, &out, bus, NewTerminal(&out, bus))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- repl.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
