package provider

import "github.com/heartmarshall/wordbuddy/internal/domain"

// LookupResult is what a dictionary provider extracts from one response:
// the first entry's word, its resolved first definition and the first
// non-empty pronunciation audio URL (nil when there is none).
type LookupResult struct {
	Word       string
	Definition domain.ResolvedDefinition
	AudioURL   *string
}

// HasAudio reports whether a pronunciation clip can be fetched.
func (r *LookupResult) HasAudio() bool {
	return r != nil && r.AudioURL != nil && *r.AudioURL != ""
}
