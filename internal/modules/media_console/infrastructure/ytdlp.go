package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

const (
	// DefaultSearchLimit is the number of results a catalog lookup returns.
	DefaultSearchLimit = 5

	searchSuffix  = " official audio"
	searchFormat  = "%(id)s\t%(url)s\t%(title)s\t%(uploader)s\t%(duration)s"
	lookupFormat  = "%(id)s\t%(webpage_url)s\t%(title)s\t%(uploader)s\t%(duration)s\t%(thumbnail)s\t%(extractor_key)s"
	thumbnailURL  = "https://i.ytimg.com/vi/%s/hqdefault.jpg"
	notAvailable  = "NA"
	audioSelector = "bestaudio/best"
)

// runYtdlp runs cmd and returns its standard output.
type runYtdlp func(ctx context.Context, cmd *ytdlp.Command, args ...string) (string, error)

func runCommand(ctx context.Context, cmd *ytdlp.Command, args ...string) (string, error) {
	res, err := cmd.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// YtdlpResolver resolves tracks to direct audio stream URLs with yt-dlp.
// Direct tracks are their own stream URL.
type YtdlpResolver struct {
	run runYtdlp
}

// Ensure YtdlpResolver implements ports.StreamResolver.
var _ ports.StreamResolver = (*YtdlpResolver)(nil)

// NewYtdlpResolver creates a new YtdlpResolver.
func NewYtdlpResolver() *YtdlpResolver {
	return &YtdlpResolver{run: runCommand}
}

// Resolve returns the stream URL for a track.
func (r *YtdlpResolver) Resolve(
	ctx context.Context,
	source domain.TrackSource,
	id domain.TrackID,
) (string, error) {
	if source == domain.TrackSourceDirect {
		if !isHTTPURL(string(id)) {
			return "", fmt.Errorf("%w: %q is not a URL", ports.ErrStreamUnavailable, id)
		}
		return string(id), nil
	}

	cmd := ytdlp.New().
		Format(audioSelector).
		Print("%(url)s").
		NoPlaylist().
		NoWarnings().
		IgnoreConfig()

	out, err := r.run(ctx, cmd, "--skip-download", string(id))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", ports.ErrStreamUnavailable, err)
	}

	for line := range strings.Lines(out) {
		if u := strings.TrimSpace(line); isHTTPURL(u) {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: no stream url for %s", ports.ErrStreamUnavailable, id)
}

// YtdlpCatalog finds tracks with yt-dlp: URLs are looked up directly,
// anything else is searched on YouTube.
type YtdlpCatalog struct {
	run runYtdlp
}

// Ensure YtdlpCatalog implements ports.TrackCatalog.
var _ ports.TrackCatalog = (*YtdlpCatalog)(nil)

// NewYtdlpCatalog creates a new YtdlpCatalog.
func NewYtdlpCatalog() *YtdlpCatalog {
	return &YtdlpCatalog{run: runCommand}
}

// Lookup returns up to limit tracks matching query.
func (c *YtdlpCatalog) Lookup(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if isHTTPURL(query) {
		return c.lookupURL(ctx, query)
	}

	cmd := ytdlp.New().
		FlatPlaylist().
		Print(searchFormat).
		PlaylistItems(fmt.Sprintf("1-%d", limit)).
		NoWarnings().
		IgnoreConfig()

	out, err := c.run(ctx, cmd, fmt.Sprintf("ytsearch%d:%s%s", limit, query, searchSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return parseSearchOutput(out), nil
}

func (c *YtdlpCatalog) lookupURL(ctx context.Context, u string) ([]domain.Track, error) {
	cmd := ytdlp.New().
		Print(lookupFormat).
		NoPlaylist().
		NoWarnings().
		IgnoreConfig()

	out, err := c.run(ctx, cmd, "--skip-download", u)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", u, err)
	}

	tracks := parseLookupOutput(out)
	if len(tracks) == 0 {
		return nil, errors.New("failed to parse metadata")
	}
	return tracks[:1], nil
}

// parseSearchOutput reads flat search results. Tracks are keyed by their
// watch URL so the resolver can hand them straight back to yt-dlp.
func parseSearchOutput(out string) []domain.Track {
	var tracks []domain.Track
	for line := range strings.Lines(out) {
		ps := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(ps) < 5 {
			continue
		}
		t := domain.Track{
			ID:       domain.TrackID(ps[1]),
			Source:   domain.TrackSourceYouTube,
			Title:    field(ps[2]),
			Artist:   field(ps[3]),
			Duration: seconds(ps[4]),
		}
		if id := field(ps[0]); id != "" {
			t.Image = fmt.Sprintf(thumbnailURL, id)
		}
		if t.IsValid() {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

func parseLookupOutput(out string) []domain.Track {
	var tracks []domain.Track
	for line := range strings.Lines(out) {
		ps := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(ps) < 7 {
			continue
		}
		t := domain.Track{
			ID:       domain.TrackID(field(ps[1])),
			Source:   domain.ParseTrackSource(field(ps[6])),
			Title:    field(ps[2]),
			Artist:   field(ps[3]),
			Duration: seconds(ps[4]),
			Image:    field(ps[5]),
		}
		if t.IsValid() {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// field maps yt-dlp's placeholder for missing values to "".
func field(s string) string {
	s = strings.TrimSpace(s)
	if s == notAvailable {
		return ""
	}
	return s
}

func seconds(s string) int {
	f, err := strconv.ParseFloat(field(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
