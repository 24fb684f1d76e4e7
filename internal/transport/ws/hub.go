// Package ws streams lookup pipeline events to browser clients over
// WebSocket and accepts word requests from them.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
	"github.com/heartmarshall/wordbuddy/internal/presentation"
	"github.com/heartmarshall/wordbuddy/pkg/ctxutil"
)

// Event types sent to clients.
const (
	EventLoading               = "loading"
	EventParseSucceeded        = "parseSucceeded"
	EventParseFailed           = "parseFailed"
	EventCharacterStateChanged = "characterStateChanged"
	EventGate                  = "gate"
	EventError                 = "error"
)

// MessageWordRequested is the only message type accepted from clients.
const MessageWordRequested = "wordRequested"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4 << 10
	sendBuffer     = 32
)

// Event is the JSON frame sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// LoadingPayload is the payload of a loading event.
type LoadingPayload struct {
	Loading bool `json:"loading"`
}

// FailurePayload is the payload of parseFailed and error events.
type FailurePayload struct {
	Message string `json:"message"`
}

// CharacterPayload is the payload of a characterStateChanged event.
type CharacterPayload struct {
	State   domain.CharacterState `json:"state"`
	Talking bool                  `json:"talking"`
}

type clientMessage struct {
	Type string `json:"type"`
	Word string `json:"word"`
}

type wordGate interface {
	Submit(ctx context.Context, text string) (presentation.GateState, bool)
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans bus events out to connected clients. It also implements the
// loading notifier of the lookup service.
type Hub struct {
	log      *slog.Logger
	bus      *eventbus.Bus
	gate     wordGate
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	loading bool
	closed  bool
	unsub   []func()
	wg      sync.WaitGroup
}

// NewHub creates a Hub. origins is a comma-separated list of allowed
// Origin values; "*" allows any.
func NewHub(logger *slog.Logger, bus *eventbus.Bus, gate wordGate, origins string) *Hub {
	h := &Hub{
		log:     logger.With("component", "ws_hub"),
		bus:     bus,
		gate:    gate,
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

func originChecker(origins string) func(r *http.Request) bool {
	allowed := map[string]bool{}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// Start subscribes the hub to the bus.
func (h *Hub) Start() {
	unsub := []func(){
		h.bus.ParseSucceeded.Subscribe(func(_ context.Context, def domain.ResolvedDefinition) {
			h.broadcast(Event{Type: EventParseSucceeded, Payload: def})
		}),
		h.bus.ParseFailed.Subscribe(func(_ context.Context, msg string) {
			h.broadcast(Event{Type: EventParseFailed, Payload: FailurePayload{Message: msg}})
		}),
		h.bus.CharacterStateChanged.Subscribe(func(_ context.Context, s domain.CharacterState) {
			h.broadcast(Event{Type: EventCharacterStateChanged, Payload: CharacterPayload{State: s, Talking: s.IsTalking()}})
		}),
	}

	h.mu.Lock()
	h.unsub = append(h.unsub, unsub...)
	h.mu.Unlock()
}

// SetLoading broadcasts the loading indicator state. New clients receive
// the last state on connect.
func (h *Hub) SetLoading(_ context.Context, loading bool) {
	h.mu.Lock()
	h.loading = loading
	h.mu.Unlock()
	h.broadcast(Event{Type: EventLoading, Payload: LoadingPayload{Loading: loading}})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it
// disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.log.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{id: uuid.New(), conn: conn, send: make(chan Event, sendBuffer)}
	ctx := ctxutil.WithClientID(context.WithoutCancel(r.Context()), c.id)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	c.send <- Event{Type: EventLoading, Payload: LoadingPayload{Loading: h.loading}}
	h.wg.Add(1)
	h.mu.Unlock()

	log := h.log.With(slog.String("client_id", c.id.String()))
	log.InfoContext(ctx, "client connected", slog.String("remote_addr", r.RemoteAddr))

	go h.writePump(c)
	h.readPump(ctx, log, c)

	h.remove(c)
	h.wg.Done()
	log.InfoContext(ctx, "client disconnected")
}

func (h *Hub) readPump(ctx context.Context, log *slog.Logger, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WarnContext(ctx, "websocket read failed", slog.String("error", err.Error()))
			}
			return
		}

		if msg.Type != MessageWordRequested {
			h.sendTo(c, Event{Type: EventError, Payload: FailurePayload{Message: "unknown message type"}})
			continue
		}

		state, ok := h.gate.Submit(ctx, msg.Word)
		if !ok {
			log.DebugContext(ctx, "word rejected by gate", slog.String("word", msg.Word))
		}
		h.sendTo(c, Event{Type: EventGate, Payload: state})
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// broadcast queues ev for every client. A client whose buffer is full is
// disconnected.
func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.log.Warn("client too slow, disconnecting", slog.String("client_id", c.id.String()))
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *Hub) sendTo(c *client, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- ev:
	default:
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}

// Close unsubscribes from the bus, disconnects every client and waits for
// their handlers to return.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	unsub := h.unsub
	h.unsub = nil
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()

	for _, fn := range unsub {
		fn()
	}
	h.wg.Wait()
}
