//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbuddy/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wordbuddy/internal/app"
	"github.com/heartmarshall/wordbuddy/internal/config"
)

// dictionary fixtures served by the fake upstream, keyed by request path.
var dictionary = map[string]string{
	"/hello":   `[{"word":"hello","phonetics":[{"text":"/həˈləʊ/"},{"audio":""}],"meanings":[{"definitions":[{"definition":"A greeting.","example":"Hello, everyone."}]}]}]`,
	"/serene":  `[{"word":"serene","phonetics":[],"meanings":[{"definitions":[{"definition":"Calm and peaceful."}]}]}]`,
	"/nothing": `[]`,
}

type testServer struct {
	URL    string
	Client *http.Client
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer boots the full server stack against a fake dictionary
// and a real PostgreSQL journal (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Journal database.
	testhelper.SetupTestDB(t)

	// 2. Fake Free Dictionary upstream.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := dictionary[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(upstream.Close)

	// 3. Application.
	cfg := &config.Config{
		Dictionary: config.DictionaryConfig{
			BaseURL:       upstream.URL,
			Timeout:       5 * time.Second,
			MaxAudioBytes: 1 << 20,
			UserAgent:     "wordbuddy-e2e",
		},
		Server: config.ServerConfig{CORSOrigins: "*"},
		Database: config.DatabaseConfig{
			DSN:      testhelper.DSN(),
			MaxConns: 4,
			MinConns: 1,
		},
	}
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	srv, err := app.NewServer(context.Background(), cfg, logger)
	require.NoError(t, err)

	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		httpSrv.Close()
		srv.Close()
	})

	return &testServer{URL: httpSrv.URL, Client: httpSrv.Client()}
}

func (ts *testServer) getJSON(t *testing.T, path string) (int, map[string]any) {
	t.Helper()

	resp, err := ts.Client.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}
