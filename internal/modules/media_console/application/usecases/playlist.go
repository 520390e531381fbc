package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// PlaylistService manages the playlist registry and persists it after every change.
// Its methods must be called from the console loop.
type PlaylistService struct {
	state    *State
	store    *TrackStore
	ids      ports.PlaylistIDGenerator
	notifier ports.NotificationSink
	playback *PlaybackService
	now      func() time.Time
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(
	state *State,
	store *TrackStore,
	ids ports.PlaylistIDGenerator,
	notifier ports.NotificationSink,
	playback *PlaybackService,
	now func() time.Time,
) *PlaylistService {
	return &PlaylistService{
		state:    state,
		store:    store,
		ids:      ids,
		notifier: notifier,
		playback: playback,
		now:      now,
	}
}

// Create adds an empty playlist.
func (s *PlaylistService) Create(ctx context.Context, name string) (domain.Playlist, error) {
	playlist, err := s.state.Playlists.Create(s.ids.NextPlaylistID(), name, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPlaylistName) {
			s.notify(ports.NotificationWarning, "Playlist name cannot be empty")
		}
		return domain.Playlist{}, err
	}

	s.save(ctx)
	s.notify(ports.NotificationSuccess, fmt.Sprintf("Playlist %q created", playlist.Name))
	slog.Debug("created playlist", "playlist", playlist.ID, "name", playlist.Name)

	return playlist, nil
}

// Delete removes a playlist. Deleting an unknown playlist changes nothing.
func (s *PlaylistService) Delete(ctx context.Context, id domain.PlaylistID) error {
	playlist, ok := s.state.Playlists.Delete(id)
	if !ok {
		return domain.ErrPlaylistNotFound
	}

	s.save(ctx)
	s.notify(ports.NotificationInfo, fmt.Sprintf("Playlist %q deleted", playlist.Name))

	return nil
}

// Rename changes the name of a playlist.
func (s *PlaylistService) Rename(ctx context.Context, id domain.PlaylistID, name string) error {
	playlist, err := s.state.Playlists.Rename(id, name, s.now())
	switch {
	case errors.Is(err, domain.ErrEmptyPlaylistName):
		s.notify(ports.NotificationWarning, "Playlist name cannot be empty")
		return err
	case errors.Is(err, domain.ErrPlaylistNotFound):
		s.notify(ports.NotificationError, "Playlist not found")
		return err
	case err != nil:
		return err
	}

	s.save(ctx)
	s.notify(ports.NotificationSuccess, fmt.Sprintf("Renamed to %q", playlist.Name))

	return nil
}

// AddTrack appends a copy of track to a playlist.
func (s *PlaylistService) AddTrack(
	ctx context.Context,
	id domain.PlaylistID,
	track domain.Track,
) error {
	if !track.IsValid() {
		return domain.ErrInvalidTrack
	}

	playlist, err := s.state.Playlists.AddTrack(id, track, s.now())
	switch {
	case errors.Is(err, domain.ErrPlaylistNotFound):
		s.notify(ports.NotificationError, "Playlist not found")
		return err
	case errors.Is(err, domain.ErrDuplicateTrack):
		s.notify(ports.NotificationWarning, fmt.Sprintf("Already in %q", playlist.Name))
		return err
	case err != nil:
		return err
	}

	s.save(ctx)
	s.notify(ports.NotificationSuccess, fmt.Sprintf("Added to %q", playlist.Name))

	return nil
}

// RemoveTrack removes the playlist entry at index.
func (s *PlaylistService) RemoveTrack(ctx context.Context, id domain.PlaylistID, index int) error {
	if _, err := s.state.Playlists.RemoveTrack(id, index, s.now()); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// LoadIntoQueue enqueues every track of a playlist, skipping tracks already
// queued, and starts playback when nothing is playing.
func (s *PlaylistService) LoadIntoQueue(ctx context.Context, id domain.PlaylistID) error {
	playlist, ok := s.state.Playlists.Get(id)
	if !ok {
		s.notify(ports.NotificationError, "Playlist not found")
		return domain.ErrPlaylistNotFound
	}
	if playlist.Tracks.IsEmpty() {
		s.notify(ports.NotificationWarning, "Playlist is empty")
		return ErrPlaylistEmpty
	}

	added := 0
	for _, track := range playlist.Tracks.Tracks() {
		if err := s.state.Queue.Enqueue(track); err == nil {
			added++
		}
	}

	s.store.SaveQueue(ctx, s.state.Queue.Tracks())
	s.notify(ports.NotificationSuccess, fmt.Sprintf("Loaded %q to queue", playlist.Name))
	slog.Debug("loaded playlist into queue", "playlist", playlist.ID, "added", added)

	if s.state.Session.IsIdle() {
		s.playback.Advance(ctx, false)
	}

	return nil
}

func (s *PlaylistService) save(ctx context.Context) {
	s.store.SavePlaylists(ctx, s.state.Playlists.List())
}

func (s *PlaylistService) notify(level ports.NotificationLevel, message string) {
	s.notifier.Notify(ports.Notification{Level: level, Message: message})
}
