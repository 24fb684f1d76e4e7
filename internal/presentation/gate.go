// Package presentation holds the user-facing side of the lookup pipeline:
// the input gate and the terminal front-end.
package presentation

import (
	"context"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
)

// WhitespaceWarning is shown while the typed word contains whitespace.
const WhitespaceWarning = "Please remove empty space from the word"

// GateState is the state of the lookup trigger for the current input.
type GateState struct {
	Enabled bool   `json:"enabled"`
	Warning string `json:"warning"`
}

// CheckWord evaluates the input text:
//   - empty: trigger disabled, no warning
//   - contains whitespace: trigger disabled, WhitespaceWarning
//   - otherwise: trigger enabled, no warning
func CheckWord(text string) GateState {
	switch {
	case text == "":
		return GateState{}
	case domain.ContainsWhitespace(text):
		return GateState{Warning: WhitespaceWarning}
	default:
		return GateState{Enabled: true}
	}
}

// Gate publishes WordRequested for input that passes CheckWord.
type Gate struct {
	bus *eventbus.Bus
}

// NewGate creates a Gate publishing on bus.
func NewGate(bus *eventbus.Bus) *Gate {
	return &Gate{bus: bus}
}

// Submit checks text and, when the trigger is enabled, publishes it
// verbatim. It returns the gate state and whether a request was published.
func (g *Gate) Submit(ctx context.Context, text string) (GateState, bool) {
	state := CheckWord(text)
	if !state.Enabled {
		return state, false
	}
	g.bus.WordRequested.Publish(ctx, text)
	return state, true
}
