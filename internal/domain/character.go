package domain

import "fmt"

// CharacterState drives the companion's idle/talking animation. It changes
// only with pronunciation playback.
type CharacterState int

const (
	CharacterIdle CharacterState = iota
	CharacterTalking
)

func (s CharacterState) String() string {
	switch s {
	case CharacterTalking:
		return "talking"
	default:
		return "idle"
	}
}

// IsTalking maps the state to the boolean animation flag.
func (s CharacterState) IsTalking() bool { return s == CharacterTalking }

// MarshalText renders the state as "idle" or "talking".
func (s CharacterState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "idle" or "talking".
func (s *CharacterState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = CharacterIdle
	case "talking":
		*s = CharacterTalking
	default:
		return fmt.Errorf("unknown character state %q", b)
	}
	return nil
}
