package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type dbPingerMock struct {
	err error
}

func (m *dbPingerMock) Ping(_ context.Context) error {
	return m.err
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&dbPingerMock{err: errors.New("down")}, "test-version")

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeHealth(t, rec)
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         DBPinger
		wantCode   int
		wantStatus string
	}{
		{"journal up", &dbPingerMock{}, http.StatusOK, "ok"},
		{"journal down", &dbPingerMock{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "down"},
		{"journal disabled", nil, http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(tt.db, "test-version")
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if resp := decodeHealth(t, rec); resp.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, resp.Status)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		db          DBPinger
		wantCode    int
		wantJournal string
		wantLatency bool
	}{
		{"journal up", &dbPingerMock{}, http.StatusOK, "ok", true},
		{"journal down", &dbPingerMock{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "down", false},
		{"journal disabled", nil, http.StatusOK, "disabled", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(tt.db, "v1.0.0")
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			resp := decodeHealth(t, rec)
			if resp.Version != "v1.0.0" {
				t.Errorf("expected version 'v1.0.0', got %q", resp.Version)
			}
			comp, ok := resp.Components["journal"]
			if !ok {
				t.Fatal("expected 'journal' component in response")
			}
			if comp.Status != tt.wantJournal {
				t.Errorf("expected journal status %q, got %q", tt.wantJournal, comp.Status)
			}
			if (comp.Latency != "") != tt.wantLatency {
				t.Errorf("latency = %q, want present=%v", comp.Latency, tt.wantLatency)
			}
		})
	}
}
