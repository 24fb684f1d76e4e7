// Package eventbus provides typed publish/subscribe channels that connect
// the input side of the app to the lookup pipeline and the pipeline to its
// presenters without direct references between them.
package eventbus

import (
	"context"
	"sync"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// Channel names, used in logs and on the WebSocket stream.
const (
	NameWordRequested         = "wordRequested"
	NameParseSucceeded        = "parseSucceeded"
	NameParseFailed           = "parseFailed"
	NameCharacterStateChanged = "characterStateChanged"
)

// Handler receives one published value.
type Handler[T any] func(ctx context.Context, v T)

// Topic is a broadcast channel for values of type T. Publish delivers
// synchronously to every handler in subscription order. A handler that does
// I/O must hand the work off to a goroutine.
type Topic[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn Handler[T]
}

// Subscribe registers fn and returns a func that removes it. The returned
// func is idempotent.
func (t *Topic[T]) Subscribe(fn Handler[T]) (unsubscribe func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscription[T]{id: id, fn: fn})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { t.remove(id) })
	}
}

func (t *Topic[T]) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s.id == id {
			// Copy so snapshots held by in-progress publishes stay intact.
			next := make([]subscription[T], 0, len(t.subs)-1)
			next = append(next, t.subs[:i]...)
			t.subs = append(next, t.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers v to the handlers subscribed at the time of the call.
// Handlers may subscribe or unsubscribe while being called.
func (t *Topic[T]) Publish(ctx context.Context, v T) {
	t.mu.RLock()
	subs := t.subs
	t.mu.RUnlock()

	for _, s := range subs {
		s.fn(ctx, v)
	}
}

// Len returns the number of current subscribers.
func (t *Topic[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}

// Bus groups the four channels of the lookup pipeline.
type Bus struct {
	// WordRequested carries the raw word from an input front-end.
	WordRequested Topic[string]
	// ParseSucceeded carries the resolved definition of a finished lookup.
	ParseSucceeded Topic[domain.ResolvedDefinition]
	// ParseFailed carries the user-facing failure message.
	ParseFailed Topic[string]
	// CharacterStateChanged follows pronunciation playback.
	CharacterStateChanged Topic[domain.CharacterState]
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}
