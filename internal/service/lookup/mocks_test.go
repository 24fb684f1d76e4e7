package lookup

import (
	"context"
	"sync"

	"github.com/heartmarshall/wordbuddy/internal/audio"
	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockClient struct {
	FetchDefinitionFunc func(ctx context.Context, word string) (string, error)
	FetchAudioFunc      func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockClient) FetchDefinition(ctx context.Context, word string) (string, error) {
	return m.FetchDefinitionFunc(ctx, word)
}

func (m *mockClient) FetchAudio(ctx context.Context, url string) ([]byte, error) {
	return m.FetchAudioFunc(ctx, url)
}

type mockParser struct {
	ParseFunc func(body string) (*provider.LookupResult, error)
}

func (m *mockParser) Parse(body string) (*provider.LookupResult, error) {
	return m.ParseFunc(body)
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []bool
}

func (m *mockNotifier) SetLoading(_ context.Context, loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, loading)
}

func (m *mockNotifier) Calls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.calls...)
}

type mockDecoder struct {
	DecodeFunc func(data []byte) (*audio.Clip, error)
}

func (m *mockDecoder) Decode(data []byte) (*audio.Clip, error) {
	return m.DecodeFunc(data)
}

type mockPlayer struct {
	PlayFunc func(ctx context.Context, clip *audio.Clip) error
}

func (m *mockPlayer) Play(ctx context.Context, clip *audio.Clip) error {
	return m.PlayFunc(ctx, clip)
}

type mockHistory struct {
	mu      sync.Mutex
	records []domain.LookupRecord

	// OnRecord, when set, runs before the record is stored.
	OnRecord func(rec *domain.LookupRecord)
}

func (m *mockHistory) Record(_ context.Context, rec *domain.LookupRecord) error {
	if m.OnRecord != nil {
		m.OnRecord(rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockHistory) Records() []domain.LookupRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.LookupRecord(nil), m.records...)
}
