package lookup

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordbuddy/internal/audio"
	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

type dictionaryClient interface {
	FetchDefinition(ctx context.Context, word string) (string, error)
	FetchAudio(ctx context.Context, url string) ([]byte, error)
}

type responseParser interface {
	Parse(body string) (*provider.LookupResult, error)
}

type loadingNotifier interface {
	SetLoading(ctx context.Context, loading bool)
}

type clipDecoder interface {
	Decode(data []byte) (*audio.Clip, error)
}

type clipPlayer interface {
	Play(ctx context.Context, clip *audio.Clip) error
}

type historyRecorder interface {
	Record(ctx context.Context, rec *domain.LookupRecord) error
}

// Deps holds the collaborators of the lookup Service. Decoder and Player
// may both be nil to disable pronunciation playback; History may be nil to
// disable the journal.
type Deps struct {
	Client   dictionaryClient
	Parser   responseParser
	Notifier loadingNotifier
	Decoder  clipDecoder
	Player   clipPlayer
	History  historyRecorder
	Bus      *eventbus.Bus
}

// Service orchestrates lookups: it toggles the loading indicator, fetches
// and parses the definition, broadcasts the outcome and plays the
// pronunciation while driving the character state.
//
// A newer lookup supersedes the current one: the older lookup and its
// pronunciation are canceled and publish nothing further.
type Service struct {
	log      *slog.Logger
	client   dictionaryClient
	parser   responseParser
	notifier loadingNotifier
	decoder  clipDecoder
	player   clipPlayer
	history  historyRecorder
	bus      *eventbus.Bus

	baseCtx    context.Context
	cancelBase context.CancelCauseFunc

	mu      sync.Mutex
	closed  bool
	current *generation
	unsub   []func()
	wg      sync.WaitGroup

	loadMu sync.Mutex
	active int

	// audioMu keeps Talking/Idle pairs from interleaving.
	audioMu sync.Mutex
}

// generation is the cancellation scope of one lookup and its playback.
type generation struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewService creates a lookup Service. Call Start to attach it to the bus.
func NewService(logger *slog.Logger, deps Deps) *Service {
	baseCtx, cancel := context.WithCancelCause(context.Background())
	return &Service{
		log:        logger.With("service", "lookup"),
		client:     deps.Client,
		parser:     deps.Parser,
		notifier:   deps.Notifier,
		decoder:    deps.Decoder,
		player:     deps.Player,
		history:    deps.History,
		bus:        deps.Bus,
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}
}

// Start subscribes the service to WordRequested.
func (s *Service) Start() {
	unsub := s.bus.WordRequested.Subscribe(s.onWordRequested)

	s.mu.Lock()
	s.unsub = append(s.unsub, unsub)
	s.mu.Unlock()
}

// Close unsubscribes from the bus, cancels in-flight lookups and playback
// and waits for their goroutines to finish.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()

	for _, fn := range unsub {
		fn()
	}
	s.cancelBase(ErrClosed)
	s.wg.Wait()
}

// Wait blocks until every lookup and playback started so far has finished.
// It must not race with new lookups.
func (s *Service) Wait() {
	s.wg.Wait()
}

// onWordRequested runs the lookup off the publisher's goroutine. The
// publisher's context may end as soon as it returns, so only its values
// are kept.
func (s *Service) onWordRequested(ctx context.Context, word string) {
	ctx = context.WithoutCancel(ctx)
	s.goTracked(func() {
		_, _ = s.Lookup(ctx, word)
	})
}

// goTracked starts fn unless the service is closed.
func (s *Service) goTracked(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
	return true
}

// supersede cancels the current generation and installs a new one.
func (s *Service) supersede() *generation {
	ctx, cancel := context.WithCancelCause(s.baseCtx)
	gen := &generation{id: uuid.New(), ctx: ctx, cancel: cancel}

	s.mu.Lock()
	prev := s.current
	s.current = gen
	s.mu.Unlock()

	if prev != nil {
		prev.cancel(ErrSuperseded)
	}
	return gen
}

// setLoading keeps a count of active lookups so overlapping lookups show
// the indicator once and hide it when the last one settles.
func (s *Service) setLoading(ctx context.Context, delta int) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	before := s.active
	s.active += delta
	if s.notifier == nil {
		return
	}
	switch {
	case before == 0 && s.active > 0:
		s.notifier.SetLoading(ctx, true)
	case before > 0 && s.active == 0:
		s.notifier.SetLoading(ctx, false)
	}
}
