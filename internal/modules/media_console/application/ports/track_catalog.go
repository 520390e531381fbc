package ports

import (
	"context"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// TrackCatalog turns a user query (a URL or search terms) into tracks.
type TrackCatalog interface {
	Lookup(ctx context.Context, query string, limit int) ([]domain.Track, error)
}
