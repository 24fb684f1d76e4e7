package domain

import (
	"time"

	"github.com/google/uuid"
)

// Fallback texts substituted when the dictionary omits a field.
const (
	DefinitionFallback = "Oops! Definition not found"
	ExampleFallback    = "Oops! Example not found"
)

// ResolvedDefinition is the definition/example pair shown to the user,
// after fallback substitution.
type ResolvedDefinition struct {
	Text    string `json:"definition"`
	Example string `json:"example"`
}

// ResolveDefinition applies the fallback texts to absent fields.
// An empty but present field is kept as is.
func ResolveDefinition(text, example *string) ResolvedDefinition {
	def := ResolvedDefinition{Text: DefinitionFallback, Example: ExampleFallback}
	if text != nil {
		def.Text = *text
	}
	if example != nil {
		def.Example = *example
	}
	return def
}

// LookupOutcome is the terminal state of one lookup.
type LookupOutcome string

const (
	OutcomeSucceeded LookupOutcome = "succeeded"
	OutcomeFailed    LookupOutcome = "failed"
	OutcomeCanceled  LookupOutcome = "canceled"
)

// IsValid reports whether o is a known outcome.
func (o LookupOutcome) IsValid() bool {
	switch o {
	case OutcomeSucceeded, OutcomeFailed, OutcomeCanceled:
		return true
	}
	return false
}

// LookupRecord is one row of the lookup journal.
type LookupRecord struct {
	ID         uuid.UUID
	Word       string
	Outcome    LookupOutcome
	Definition *string
	Example    *string
	AudioURL   *string
	Message    *string
	StatusCode *int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Succeed marks the record as a successful lookup.
func (r *LookupRecord) Succeed(def ResolvedDefinition, audioURL *string) {
	r.Outcome = OutcomeSucceeded
	r.Definition = &def.Text
	r.Example = &def.Example
	r.AudioURL = audioURL
}

// Finish marks the record as failed or canceled.
func (r *LookupRecord) Finish(outcome LookupOutcome, message string, statusCode *int) {
	r.Outcome = outcome
	r.Message = &message
	r.StatusCode = statusCode
}

// Journal listing bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// HistoryFilter selects journal rows, newest first.
type HistoryFilter struct {
	// Word matches the normalized word exactly when non-empty.
	Word  string
	Limit int
}

// Normalize clamps Limit and normalizes Word.
func (f HistoryFilter) Normalize() HistoryFilter {
	f.Word = NormalizeText(f.Word)
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultHistoryLimit
	case f.Limit > MaxHistoryLimit:
		f.Limit = MaxHistoryLimit
	}
	return f
}
