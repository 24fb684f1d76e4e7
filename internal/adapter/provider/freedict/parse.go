package freedict

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// Parse extracts the first definition and pronunciation from a raw
// FreeDictionary response body.
//
// Only entries[0] is considered. Its audio URL is the first phonetic with a
// non-empty audio field, in array order. The definition is
// meanings[0].definitions[0]; a missing meaning or definition is a noData
// failure. Invalid JSON, a non-array body (including null) or a null entry
// is malformed.
func Parse(body []byte) (*provider.LookupResult, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		return nil, &domain.ParseError{Kind: domain.ParseMalformed, Err: errors.New("body is not a JSON array")}
	}
	var entries []*apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &domain.ParseError{Kind: domain.ParseMalformed, Err: err}
	}
	if len(entries) == 0 {
		return nil, &domain.ParseError{Kind: domain.ParseNoData}
	}
	for _, e := range entries {
		if e == nil {
			return nil, &domain.ParseError{Kind: domain.ParseMalformed, Err: errors.New("null entry")}
		}
	}

	entry := entries[0]
	if len(entry.Meanings) == 0 {
		return nil, &domain.ParseError{Kind: domain.ParseNoData, Err: errors.New("no meanings")}
	}
	defs := entry.Meanings[0].Definitions
	if len(defs) == 0 {
		return nil, &domain.ParseError{Kind: domain.ParseNoData, Err: errors.New("no definitions")}
	}

	return &provider.LookupResult{
		Word:       entry.Word,
		Definition: domain.ResolveDefinition(defs[0].Definition, defs[0].Example),
		AudioURL:   firstAudioURL(entry.Phonetics),
	}, nil
}

func firstAudioURL(phonetics []apiPhonetic) *string {
	for _, ph := range phonetics {
		if ph.Audio != nil && *ph.Audio != "" {
			u := *ph.Audio
			return &u
		}
	}
	return nil
}
