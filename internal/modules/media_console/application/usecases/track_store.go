package usecases

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// Storage keys for the persisted queue and playlists.
const (
	QueueStorageKey     = "heimdall-music-queue"
	PlaylistsStorageKey = "heimdall-music-playlists"
)

// TrackStore persists the queue and playlists as JSON in a DurableStore.
// Failures are logged and never returned: the in-memory state stays
// authoritative for the running session.
type TrackStore struct {
	store ports.DurableStore
}

// NewTrackStore creates a new TrackStore.
func NewTrackStore(store ports.DurableStore) *TrackStore {
	return &TrackStore{store: store}
}

// LoadQueue returns the persisted queue, or nil if it is absent or unreadable.
func (s *TrackStore) LoadQueue(ctx context.Context) []domain.Track {
	var list domain.TrackList
	if !s.load(ctx, QueueStorageKey, &list) {
		return nil
	}
	return list.Tracks()
}

// SaveQueue persists the queue.
func (s *TrackStore) SaveQueue(ctx context.Context, tracks []domain.Track) {
	s.save(ctx, QueueStorageKey, domain.NewTrackList(tracks...))
}

// LoadPlaylists returns the persisted playlists, or nil if absent or unreadable.
func (s *TrackStore) LoadPlaylists(ctx context.Context) []domain.Playlist {
	var playlists []domain.Playlist
	if !s.load(ctx, PlaylistsStorageKey, &playlists) {
		return nil
	}
	return playlists
}

// SavePlaylists persists the playlists.
func (s *TrackStore) SavePlaylists(ctx context.Context, playlists []domain.Playlist) {
	if playlists == nil {
		playlists = []domain.Playlist{}
	}
	s.save(ctx, PlaylistsStorageKey, playlists)
}

func (s *TrackStore) load(ctx context.Context, key string, v any) bool {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		slog.Warn("failed to read from store", "key", key, "error", err)
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.Warn("discarding unreadable stored value", "key", key, "error", err)
		return false
	}
	return true
}

func (s *TrackStore) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("failed to encode value for store", "key", key, "error", err)
		return
	}
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		slog.Warn("failed to write to store", "key", key, "error", err)
	}
}
