package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
)

// Defaults for LyricsClient.
const (
	DefaultLyricsOvhURL     = "https://api.lyrics.ovh"
	DefaultLrclibURL        = "https://lrclib.net"
	DefaultLyricsTimeout    = 5 * time.Second
	DefaultLyricsRatePerSec = 2.0
)

// LyricsConfig configures a LyricsClient.
type LyricsConfig struct {
	LyricsOvhURL string
	LrclibURL    string
	Timeout      time.Duration
	RatePerSec   float64
}

type lyricsSource struct {
	name    string
	request func(artist, title string) string
	extract func(body []byte) (string, error)
}

// LyricsClient fetches plain lyrics from lyrics.ovh, falling back to lrclib.
// Each source gets its own timeout and all requests share one rate limiter.
type LyricsClient struct {
	sources    []lyricsSource
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
}

// Ensure LyricsClient implements ports.LyricsProvider.
var _ ports.LyricsProvider = (*LyricsClient)(nil)

// NewLyricsClient creates a new LyricsClient.
func NewLyricsClient(cfg LyricsConfig, client *http.Client) *LyricsClient {
	if cfg.LyricsOvhURL == "" {
		cfg.LyricsOvhURL = DefaultLyricsOvhURL
	}
	if cfg.LrclibURL == "" {
		cfg.LrclibURL = DefaultLrclibURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLyricsTimeout
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = DefaultLyricsRatePerSec
	}
	if client == nil {
		client = http.DefaultClient
	}

	ovh := strings.TrimRight(cfg.LyricsOvhURL, "/")
	lrclib := strings.TrimRight(cfg.LrclibURL, "/")

	return &LyricsClient{
		sources: []lyricsSource{
			{
				name: "lyrics.ovh",
				request: func(artist, title string) string {
					return fmt.Sprintf("%s/v1/%s/%s", ovh, url.PathEscape(artist), url.PathEscape(title))
				},
				extract: extractLyricsOvh,
			},
			{
				name: "lrclib",
				request: func(artist, title string) string {
					query := url.Values{}
					query.Set("artist_name", artist)
					query.Set("track_name", title)
					return lrclib + "/api/get?" + query.Encode()
				},
				extract: extractLrclib,
			},
		},
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		httpClient: client,
	}
}

// FetchLyrics returns the lyrics of the first source that has them. It returns
// ErrLyricsNotFound when a source answered without lyrics, ErrLyricsTimeout
// when every source timed out, and the last failure otherwise.
func (c *LyricsClient) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	var (
		timeouts int
		notFound bool
		lastErr  error
	)
	for _, source := range c.sources {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		text, err := c.fetch(ctx, source, artist, title)
		if err == nil {
			slog.Debug("fetched lyrics", "source", source.name, "title", title)
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		switch {
		case errors.Is(err, errNoLyricsInResponse):
			notFound = true
		case isTimeout(err):
			timeouts++
		}
		lastErr = fmt.Errorf("%s: %w", source.name, err)
		slog.Debug("lyrics source failed", "source", source.name, "title", title, "error", err)
	}

	switch {
	case notFound:
		return "", ports.ErrLyricsNotFound
	case timeouts == len(c.sources):
		return "", ports.ErrLyricsTimeout
	default:
		return "", fmt.Errorf("failed to fetch lyrics: %w", lastErr)
	}
}

func (c *LyricsClient) fetch(
	ctx context.Context,
	source lyricsSource,
	artist, title string,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.request(artist, title), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", errNoLyricsInResponse
	default:
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return source.extract(body)
}

var errNoLyricsInResponse = errors.New("no lyrics in response")

func extractLyricsOvh(body []byte) (string, error) {
	var payload struct {
		Lyrics string `json:"lyrics"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Lyrics) == "" {
		return "", errNoLyricsInResponse
	}
	return payload.Lyrics, nil
}

func extractLrclib(body []byte) (string, error) {
	var payload struct {
		PlainLyrics  *string `json:"plainLyrics"`
		SyncedLyrics *string `json:"syncedLyrics"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	for _, text := range []*string{payload.PlainLyrics, payload.SyncedLyrics} {
		if text != nil && strings.TrimSpace(*text) != "" {
			return *text, nil
		}
	}
	return "", errNoLyricsInResponse
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
