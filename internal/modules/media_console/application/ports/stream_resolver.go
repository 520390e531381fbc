package ports

import (
	"context"
	"errors"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// ErrStreamUnavailable is returned when a resolver answered but produced no usable stream.
var ErrStreamUnavailable = errors.New("stream unavailable")

// StreamResolver turns a track identity into a playable stream URL.
type StreamResolver interface {
	Resolve(ctx context.Context, source domain.TrackSource, id domain.TrackID) (string, error)
}
