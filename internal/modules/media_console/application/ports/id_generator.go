package ports

import "github.com/sglre6355/heimdall/internal/modules/media_console/domain"

// PlaylistIDGenerator allocates strictly increasing playlist IDs.
type PlaylistIDGenerator interface {
	NextPlaylistID() domain.PlaylistID
}
