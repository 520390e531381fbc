package usecases

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// QueueService handles queue operations and persists the queue after every change.
// Its methods must be called from the console loop.
type QueueService struct {
	state    *State
	store    *TrackStore
	notifier ports.NotificationSink
	playback *PlaybackService
}

// NewQueueService creates a new QueueService.
func NewQueueService(
	state *State,
	store *TrackStore,
	notifier ports.NotificationSink,
	playback *PlaybackService,
) *QueueService {
	return &QueueService{
		state:    state,
		store:    store,
		notifier: notifier,
		playback: playback,
	}
}

// Enqueue appends a track. When nothing is playing and the track is the only
// one queued, playback starts.
func (q *QueueService) Enqueue(ctx context.Context, track domain.Track) error {
	if !track.IsValid() {
		return domain.ErrInvalidTrack
	}

	if err := q.state.Queue.Enqueue(track); err != nil {
		if errors.Is(err, domain.ErrDuplicateTrack) {
			q.notify(ports.NotificationWarning, "Already in queue")
		}
		return err
	}

	q.save(ctx)
	q.notify(ports.NotificationSuccess, "Added to queue")
	slog.Debug("enqueued track", "track", track.ID, "length", q.state.Queue.Len())

	if q.state.Session.IsIdle() && q.state.Queue.Len() == 1 {
		q.playback.Advance(ctx, false)
	}

	return nil
}

// Remove deletes the queue entry at index.
func (q *QueueService) Remove(ctx context.Context, index int) (domain.Track, error) {
	track, err := q.state.Queue.Remove(index)
	if err != nil {
		return domain.Track{}, err
	}
	q.save(ctx)
	return track, nil
}

// MoveUp swaps the entry at index with its predecessor. Boundaries are no-ops.
func (q *QueueService) MoveUp(ctx context.Context, index int) bool {
	if !q.state.Queue.MoveUp(index) {
		return false
	}
	q.save(ctx)
	return true
}

// MoveDown swaps the entry at index with its successor. Boundaries are no-ops.
func (q *QueueService) MoveDown(ctx context.Context, index int) bool {
	if !q.state.Queue.MoveDown(index) {
		return false
	}
	q.save(ctx)
	return true
}

// Select toggles the selected row.
func (q *QueueService) Select(index int) error {
	return q.state.Queue.Select(index)
}

// Clear empties the queue and the history. Playback of the loaded track continues.
func (q *QueueService) Clear(ctx context.Context) error {
	if q.state.Queue.IsEmpty() {
		q.notify(ports.NotificationInfo, "Queue is already empty")
		return ErrQueueAlreadyEmpty
	}

	cleared := q.state.Queue.Clear()
	q.save(ctx)
	q.notify(ports.NotificationInfo, "Queue cleared")
	slog.Debug("cleared queue", "count", cleared)

	return nil
}

// JumpTo plays the entry at index. The entries before it move to the history.
func (q *QueueService) JumpTo(ctx context.Context, index int) error {
	if err := q.state.Queue.SkipTo(index); err != nil {
		return err
	}
	q.save(ctx)
	q.playback.Advance(ctx, true)
	return nil
}

func (q *QueueService) save(ctx context.Context) {
	q.store.SaveQueue(ctx, q.state.Queue.Tracks())
}

func (q *QueueService) notify(level ports.NotificationLevel, message string) {
	q.notifier.Notify(ports.Notification{Level: level, Message: message})
}
