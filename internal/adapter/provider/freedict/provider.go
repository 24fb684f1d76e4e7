package freedict

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/config"
	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

const (
	defaultBaseURL       = "https://api.dictionaryapi.dev/api/v2/entries/en"
	defaultTimeout       = 10 * time.Second
	defaultMaxAudioBytes = 10 << 20
)

// Provider talks to the FreeDictionary API: one definition lookup per word
// and one download per pronunciation clip. Requests are never retried.
type Provider struct {
	baseURL       string
	userAgent     string
	maxAudioBytes int64
	httpClient    *http.Client
	log           *slog.Logger
}

// NewProvider creates a Provider from the dictionary configuration.
func NewProvider(cfg config.DictionaryConfig, logger *slog.Logger) *Provider {
	p := NewProviderWithURL(cfg.BaseURL, logger)
	p.userAgent = cfg.UserAgent
	if cfg.Timeout > 0 {
		p.httpClient.Timeout = cfg.Timeout
	}
	if cfg.MaxAudioBytes > 0 {
		p.maxAudioBytes = cfg.MaxAudioBytes
	}
	return p
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxAudioBytes: defaultMaxAudioBytes,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		log:           logger.With("adapter", "freedict"),
	}
}

// FetchDefinition returns the raw response body for word.
// A blank word fails with domain.ErrInvalidArgument before any request is
// made. Network failures and non-2xx answers yield *domain.TransportError.
func (p *Provider) FetchDefinition(ctx context.Context, word string) (string, error) {
	if domain.IsBlank(word) {
		return "", fmt.Errorf("freedict: word cannot be null or empty: %w", domain.ErrInvalidArgument)
	}

	reqURL := p.baseURL + "/" + url.PathEscape(word)
	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	body, err := p.get(ctx, reqURL, -1)
	if err != nil {
		return "", err
	}

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Int("bytes", len(body)),
	)
	return string(body), nil
}

// FetchAudio downloads a pronunciation clip. Bodies larger than the
// configured limit are rejected as transport errors.
func (p *Provider) FetchAudio(ctx context.Context, audioURL string) ([]byte, error) {
	if strings.TrimSpace(audioURL) == "" {
		return nil, fmt.Errorf("freedict: audio url is empty: %w", domain.ErrInvalidArgument)
	}
	return p.get(ctx, audioURL, p.maxAudioBytes)
}

// Parse implements the lookup service's parser dependency.
func (p *Provider) Parse(body string) (*provider.LookupResult, error) {
	return Parse([]byte(body))
}

// get performs a GET and reads the body. limit < 0 disables the size cap.
func (p *Provider) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("freedict: request: %w", ctx.Err())
		}
		return nil, domain.NewTransportError(0, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, domain.NewTransportError(resp.StatusCode, "HTTP/1.1 "+resp.Status, nil)
	}

	var r io.Reader = resp.Body
	if limit >= 0 {
		r = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("freedict: read body: %w", ctx.Err())
		}
		return nil, domain.NewTransportError(resp.StatusCode, err.Error(), err)
	}
	if limit >= 0 && int64(len(body)) > limit {
		return nil, domain.NewTransportError(resp.StatusCode,
			fmt.Sprintf("body exceeds %d bytes", limit), nil)
	}
	return body, nil
}
