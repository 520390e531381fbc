package usecases

import (
	"context"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// Command is an intent applied by the console loop.
type Command interface {
	apply(ctx context.Context, c *Console) error
}

// SnapshotCommand reads the state without changing it.
type SnapshotCommand struct{}

func (SnapshotCommand) apply(context.Context, *Console) error { return nil }

// EnqueueCommand appends a track to the queue.
type EnqueueCommand struct {
	Track domain.Track
}

func (cmd EnqueueCommand) apply(ctx context.Context, c *Console) error {
	return c.queue.Enqueue(ctx, cmd.Track)
}

// PlayCommand plays a track immediately without touching the queue.
type PlayCommand struct {
	Track domain.Track
}

func (cmd PlayCommand) apply(ctx context.Context, c *Console) error {
	if !cmd.Track.IsValid() {
		return domain.ErrInvalidTrack
	}
	c.playback.Play(ctx, cmd.Track)
	return nil
}

// StopCommand stops playback and unloads the current track.
type StopCommand struct{}

func (StopCommand) apply(ctx context.Context, c *Console) error {
	c.playback.Stop(ctx)
	return nil
}

// NextCommand plays the head of the queue.
type NextCommand struct{}

func (NextCommand) apply(ctx context.Context, c *Console) error {
	c.playback.Advance(ctx, true)
	return nil
}

// PreviousCommand plays the most recent history entry.
type PreviousCommand struct{}

func (PreviousCommand) apply(ctx context.Context, c *Console) error {
	return c.playback.GoBack(ctx)
}

// JumpToCommand plays the queue entry at Index, moving the entries before it to the history.
type JumpToCommand struct {
	Index int
}

func (cmd JumpToCommand) apply(ctx context.Context, c *Console) error {
	return c.queue.JumpTo(ctx, cmd.Index)
}

// RemoveCommand removes the queue entry at Index.
type RemoveCommand struct {
	Index int
}

func (cmd RemoveCommand) apply(ctx context.Context, c *Console) error {
	_, err := c.queue.Remove(ctx, cmd.Index)
	return err
}

// MoveUpCommand swaps the queue entry at Index with the one before it.
type MoveUpCommand struct {
	Index int
}

func (cmd MoveUpCommand) apply(ctx context.Context, c *Console) error {
	c.queue.MoveUp(ctx, cmd.Index)
	return nil
}

// MoveDownCommand swaps the queue entry at Index with the one after it.
type MoveDownCommand struct {
	Index int
}

func (cmd MoveDownCommand) apply(ctx context.Context, c *Console) error {
	c.queue.MoveDown(ctx, cmd.Index)
	return nil
}

// SelectCommand toggles the selected queue row.
type SelectCommand struct {
	Index int
}

func (cmd SelectCommand) apply(_ context.Context, c *Console) error {
	return c.queue.Select(cmd.Index)
}

// ClearQueueCommand empties the queue and the history.
type ClearQueueCommand struct{}

func (ClearQueueCommand) apply(ctx context.Context, c *Console) error {
	return c.queue.Clear(ctx)
}

// CreatePlaylistCommand creates an empty playlist.
type CreatePlaylistCommand struct {
	Name string
}

func (cmd CreatePlaylistCommand) apply(ctx context.Context, c *Console) error {
	_, err := c.playlists.Create(ctx, cmd.Name)
	return err
}

// DeletePlaylistCommand deletes a playlist and its tracks.
type DeletePlaylistCommand struct {
	ID domain.PlaylistID
}

func (cmd DeletePlaylistCommand) apply(ctx context.Context, c *Console) error {
	return c.playlists.Delete(ctx, cmd.ID)
}

// RenamePlaylistCommand renames a playlist.
type RenamePlaylistCommand struct {
	ID   domain.PlaylistID
	Name string
}

func (cmd RenamePlaylistCommand) apply(ctx context.Context, c *Console) error {
	return c.playlists.Rename(ctx, cmd.ID, cmd.Name)
}

// AddToPlaylistCommand appends a track to a playlist.
type AddToPlaylistCommand struct {
	ID    domain.PlaylistID
	Track domain.Track
}

func (cmd AddToPlaylistCommand) apply(ctx context.Context, c *Console) error {
	return c.playlists.AddTrack(ctx, cmd.ID, cmd.Track)
}

// RemoveFromPlaylistCommand removes the playlist entry at Index.
type RemoveFromPlaylistCommand struct {
	ID    domain.PlaylistID
	Index int
}

func (cmd RemoveFromPlaylistCommand) apply(ctx context.Context, c *Console) error {
	return c.playlists.RemoveTrack(ctx, cmd.ID, cmd.Index)
}

// LoadPlaylistCommand enqueues every track of a playlist.
type LoadPlaylistCommand struct {
	ID domain.PlaylistID
}

func (cmd LoadPlaylistCommand) apply(ctx context.Context, c *Console) error {
	return c.playlists.LoadIntoQueue(ctx, cmd.ID)
}

// OpenPanelCommand opens a panel, closing the others.
type OpenPanelCommand struct {
	Panel domain.Panel
}

func (cmd OpenPanelCommand) apply(ctx context.Context, c *Console) error {
	return c.panels.Open(ctx, cmd.Panel)
}

// ClosePanelCommand closes a panel.
type ClosePanelCommand struct {
	Panel domain.Panel
}

func (cmd ClosePanelCommand) apply(_ context.Context, c *Console) error {
	c.panels.Close(cmd.Panel)
	return nil
}

// TogglePanelCommand opens a closed panel or closes an open one.
type TogglePanelCommand struct {
	Panel domain.Panel
}

func (cmd TogglePanelCommand) apply(ctx context.Context, c *Console) error {
	return c.panels.Toggle(ctx, cmd.Panel)
}

// TrackEndedCommand reports that the media output finished the current track.
type TrackEndedCommand struct{}

func (TrackEndedCommand) apply(ctx context.Context, c *Console) error {
	c.playback.TrackEnded(ctx)
	return nil
}

// MediaFailedCommand reports that the media output failed while playing.
type MediaFailedCommand struct {
	Err error
}

func (cmd MediaFailedCommand) apply(ctx context.Context, c *Console) error {
	c.playback.MediaFailed(ctx, cmd.Err)
	return nil
}

// streamResolvedCommand carries a resolver result back to the loop.
type streamResolvedCommand struct {
	generation uint64
	url        string
	err        error
}

func (cmd streamResolvedCommand) apply(ctx context.Context, c *Console) error {
	c.playback.streamResolved(ctx, cmd)
	return nil
}

// sinkStartedCommand reports whether the media output accepted a resolved stream.
type sinkStartedCommand struct {
	generation uint64
	url        string
	err        error
}

func (cmd sinkStartedCommand) apply(ctx context.Context, c *Console) error {
	c.playback.sinkStarted(ctx, cmd)
	return nil
}

// errorGraceExpiredCommand ends the error grace period of a failed track.
type errorGraceExpiredCommand struct {
	generation uint64
}

func (cmd errorGraceExpiredCommand) apply(ctx context.Context, c *Console) error {
	c.playback.errorGraceExpired(ctx, cmd.generation)
	return nil
}

// lyricsFetchedCommand carries a lyrics result back to the loop.
type lyricsFetchedCommand struct {
	generation uint64
	text       string
	err        error
}

func (cmd lyricsFetchedCommand) apply(_ context.Context, c *Console) error {
	c.panels.lyricsFetched(cmd)
	return nil
}
