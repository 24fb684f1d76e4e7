package presentation

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
)

// Labels used by the terminal renderer.
const (
	DefinitionLabel  = "Definition : "
	ExampleLabel     = "Example : "
	FailureTemplate  = "Parse failed due to : %s"
	LoadingText      = "Loading..."
	characterIdle    = "(-_-)"
	characterTalking = "(^o^) ..."
)

// FormatFailure renders a lookup failure message for display.
func FormatFailure(message string) string {
	return fmt.Sprintf(FailureTemplate, message)
}

// Terminal renders pipeline events as text lines. It also serves as the
// loading notifier of the lookup service.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	bus     *eventbus.Bus
	unsub   []func()
	loading bool
	talking bool
}

// NewTerminal creates a Terminal writing to out.
func NewTerminal(out io.Writer, bus *eventbus.Bus) *Terminal {
	return &Terminal{out: out, bus: bus}
}

// Start subscribes the renderer to the bus.
func (t *Terminal) Start() {
	unsubs := []func(){
		t.bus.ParseSucceeded.Subscribe(t.onParseSucceeded),
		t.bus.ParseFailed.Subscribe(t.onParseFailed),
		t.bus.CharacterStateChanged.Subscribe(t.onCharacterState),
	}
	t.mu.Lock()
	t.unsub = append(t.unsub, unsubs...)
	t.mu.Unlock()
}

// Close removes the bus subscriptions.
func (t *Terminal) Close() {
	t.mu.Lock()
	unsubs := t.unsub
	t.unsub = nil
	t.mu.Unlock()
	for _, fn := range unsubs {
		fn()
	}
}

// SetLoading shows or hides the loading line.
func (t *Terminal) SetLoading(_ context.Context, loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if loading == t.loading {
		return
	}
	t.loading = loading
	if loading {
		t.println(LoadingText)
	}
}

// Loading reports whether the loading line is shown.
func (t *Terminal) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Talking reports the current character animation flag.
func (t *Terminal) Talking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.talking
}

// ShowGate prints the gate warning, if any.
func (t *Terminal) ShowGate(state GateState) {
	if state.Warning == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(state.Warning)
}

func (t *Terminal) onParseSucceeded(_ context.Context, def domain.ResolvedDefinition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(DefinitionLabel + def.Text)
	t.println(ExampleLabel + def.Example)
}

func (t *Terminal) onParseFailed(_ context.Context, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(FormatFailure(message))
}

func (t *Terminal) onCharacterState(_ context.Context, state domain.CharacterState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.talking = state.IsTalking()
	if t.talking {
		t.println(characterTalking)
	} else {
		t.println(characterIdle)
	}
}

// println must be called with mu held.
func (t *Terminal) println(line string) {
	_, _ = fmt.Fprintln(t.out, line)
}
