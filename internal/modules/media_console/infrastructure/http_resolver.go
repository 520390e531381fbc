package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

const streamPath = "/api/music/stream"

// HTTPResolver resolves stream URLs through a backend exposing
// GET /api/music/stream?source=&id=.
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure HTTPResolver implements ports.StreamResolver.
var _ ports.StreamResolver = (*HTTPResolver)(nil)

// NewHTTPResolver creates a new HTTPResolver.
func NewHTTPResolver(baseURL string, client *http.Client) *HTTPResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

type streamResponse struct {
	StreamURL string `json:"stream_url"`
	Error     string `json:"error"`
}

// Resolve asks the backend for the stream URL of a track.
func (r *HTTPResolver) Resolve(
	ctx context.Context,
	source domain.TrackSource,
	id domain.TrackID,
) (string, error) {
	query := url.Values{}
	query.Set("source", source.String())
	query.Set("id", string(id))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		r.baseURL+streamPath+"?"+query.Encode(),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: request failed: %w", ports.ErrStreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var payload streamResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: unexpected response (status %d)",
			ports.ErrStreamUnavailable, resp.StatusCode)
	}

	switch {
	case payload.Error != "":
		return "", fmt.Errorf("%w: %s", ports.ErrStreamUnavailable, payload.Error)
	case resp.StatusCode != http.StatusOK || payload.StreamURL == "":
		return "", fmt.Errorf("%w: status %d", ports.ErrStreamUnavailable, resp.StatusCode)
	default:
		return payload.StreamURL, nil
	}
}
