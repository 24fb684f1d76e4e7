package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/presentation"
	"github.com/heartmarshall/wordbuddy/internal/provider"
	"github.com/heartmarshall/wordbuddy/internal/service/lookup"
)

type lookupService interface {
	Lookup(ctx context.Context, word string) (*provider.LookupResult, error)
}

type wordGate interface {
	Submit(ctx context.Context, text string) (presentation.GateState, bool)
}

type historyLister interface {
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.LookupRecord, error)
}

// LookupHandler serves the lookup API.
type LookupHandler struct {
	svc     lookupService
	gate    wordGate
	history historyLister
	log     *slog.Logger
}

// NewLookupHandler creates a LookupHandler. history may be nil when the
// journal is disabled.
func NewLookupHandler(svc lookupService, gate wordGate, history historyLister, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{svc: svc, gate: gate, history: history, log: logger.With("handler", "lookup")}
}

type lookupResponse struct {
	Word       string  `json:"word"`
	Definition string  `json:"definition"`
	Example    string  `json:"example"`
	AudioURL   *string `json:"audio_url,omitempty"`
}

type gateErrorResponse struct {
	Error string `json:"error"`
	presentation.GateState
}

type wordRequest struct {
	Word string `json:"word"`
}

type historyRecord struct {
	ID         string  `json:"id"`
	Word       string  `json:"word"`
	Outcome    string  `json:"outcome"`
	Definition *string `json:"definition,omitempty"`
	Example    *string `json:"example,omitempty"`
	AudioURL   *string `json:"audio_url,omitempty"`
	Message    *string `json:"message,omitempty"`
	StatusCode *int    `json:"status_code,omitempty"`
	DurationMS int64   `json:"duration_ms"`
	CreatedAt  string  `json:"created_at"`
}

// Lookup handles GET /api/v1/lookup/{word}.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	if state := presentation.CheckWord(word); !state.Enabled {
		writeGateError(w, state)
		return
	}

	res, err := h.svc.Lookup(r.Context(), word)
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{
		Word:       res.Word,
		Definition: res.Definition.Text,
		Example:    res.Definition.Example,
		AudioURL:   res.AudioURL,
	})
}

// RequestWord handles POST /api/v1/words. Accepted words are published to
// the bus; outcomes reach clients over the WebSocket stream.
func (h *LookupHandler) RequestWord(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, ok := h.gate.Submit(r.Context(), req.Word)
	if !ok {
		writeGateError(w, state)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true, "word": req.Word})
}

// Gate handles GET /api/v1/gate?text=...
func (h *LookupHandler) Gate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presentation.CheckWord(r.URL.Query().Get("text")))
}

// History handles GET /api/v1/history?limit=&word=.
func (h *LookupHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrJournalDisabled.Error())
		return
	}

	filter := domain.HistoryFilter{Word: r.URL.Query().Get("word")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	records, err := h.history.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrJournalDisabled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "list history", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]historyRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, historyRecord{
			ID:         rec.ID.String(),
			Word:       rec.Word,
			Outcome:    string(rec.Outcome),
			Definition: rec.Definition,
			Example:    rec.Example,
			AudioURL:   rec.AudioURL,
			Message:    rec.Message,
			StatusCode: rec.StatusCode,
			DurationMS: rec.Duration.Milliseconds(),
			CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

func (h *LookupHandler) handleLookupError(w http.ResponseWriter, r *http.Request, err error) {
	msg := lookup.FailureMessage(err)

	var te *domain.TransportError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, msg)
	case domain.IsParseKind(err, domain.ParseNoData):
		writeError(w, http.StatusNotFound, msg)
	case errors.As(err, &te) && te.StatusCode == http.StatusNotFound:
		writeError(w, http.StatusNotFound, msg)
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrParse):
		writeError(w, http.StatusBadGateway, msg)
	case errors.Is(err, lookup.ErrSuperseded):
		writeError(w, http.StatusConflict, lookup.ErrSuperseded.Error())
	case errors.Is(err, lookup.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, lookup.ErrClosed.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.InfoContext(r.Context(), "lookup aborted", slog.String("error", err.Error()))
		writeError(w, http.StatusGatewayTimeout, "lookup aborted")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeGateError(w http.ResponseWriter, state presentation.GateState) {
	msg := state.Warning
	if msg == "" {
		msg = "word is required"
	}
	writeJSON(w, http.StatusBadRequest, gateErrorResponse{Error: msg, GateState: state})
}
