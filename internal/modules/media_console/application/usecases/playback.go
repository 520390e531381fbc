package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// PlaybackService drives the playback session: resolving streams, feeding the
// media sink, advancing through the queue and walking back through history.
// Its methods must be called from the console loop.
type PlaybackService struct {
	state     *State
	store     *TrackStore
	resolver  ports.StreamResolver
	output    *sinkWorker
	notifier  ports.NotificationSink
	publisher ports.EventPublisher
	panels    *PanelService
	loop      scheduler
	grace     time.Duration

	cancelResolve context.CancelFunc
}

// newPlaybackService creates a new PlaybackService.
func newPlaybackService(
	state *State,
	store *TrackStore,
	resolver ports.StreamResolver,
	output *sinkWorker,
	notifier ports.NotificationSink,
	publisher ports.EventPublisher,
	panels *PanelService,
	loop scheduler,
	grace time.Duration,
) *PlaybackService {
	return &PlaybackService{
		state:     state,
		store:     store,
		resolver:  resolver,
		output:    output,
		notifier:  notifier,
		publisher: publisher,
		panels:    panels,
		loop:      loop,
		grace:     grace,
	}
}

// Play loads track and starts resolving its stream. A different loaded track
// is pushed onto the history first.
func (p *PlaybackService) Play(ctx context.Context, track domain.Track) {
	p.play(ctx, track, true)
}

func (p *PlaybackService) play(_ context.Context, track domain.Track, recordHistory bool) {
	if current, ok := p.state.Session.Current(); ok && recordHistory && current.ID != track.ID {
		p.state.Queue.PushHistory(current)
	}

	p.cancelPending()
	p.silence()
	gen := p.state.Session.Begin(track)

	slog.Info("resolving track",
		"track", track.ID,
		"source", track.Source,
		"generation", gen,
	)

	p.nowPlayingChanged()

	resolveCtx, cancel := context.WithCancel(p.loop.background())
	p.cancelResolve = cancel
	go func() {
		defer cancel()
		url, err := p.resolver.Resolve(resolveCtx, track.Source, track.ID)
		p.loop.post(streamResolvedCommand{generation: gen, url: url, err: err})
	}()
}

// Stop unloads the current track and returns to idle. The history is kept.
func (p *PlaybackService) Stop(_ context.Context) {
	current, ok := p.state.Session.Current()
	if !ok {
		return
	}

	p.state.Queue.PushHistory(current)
	p.cancelPending()
	p.state.Session.Stop()
	p.silence()

	slog.Info("stopped playback", "track", current.ID)

	p.nowPlayingChanged()
}

// Advance plays the head of the queue, or stops when the queue is empty.
func (p *PlaybackService) Advance(ctx context.Context, manual bool) {
	next, ok := p.state.Queue.DequeueNext()
	if !ok {
		p.Stop(ctx)
		p.notifier.Notify(ports.Notification{Level: ports.NotificationInfo, Message: "End of queue"})
		return
	}

	p.store.SaveQueue(ctx, p.state.Queue.Tracks())
	slog.Debug("advancing queue", "track", next.ID, "manual", manual)
	p.Play(ctx, next)
}

// GoBack replays the most recent history entry. The loaded track returns to
// the front of the queue rather than to the history.
func (p *PlaybackService) GoBack(ctx context.Context) error {
	previous, ok := p.state.Queue.PopHistory()
	if !ok {
		p.notifier.Notify(ports.Notification{
			Level:   ports.NotificationInfo,
			Message: "No previous songs in history",
		})
		return ErrNoHistory
	}

	if current, loaded := p.state.Session.Current(); loaded {
		p.state.Queue.PushFront(current)
		p.store.SaveQueue(ctx, p.state.Queue.Tracks())
	}

	p.play(ctx, previous, false)
	return nil
}

// TrackEnded handles the end of the playing track by advancing the queue.
func (p *PlaybackService) TrackEnded(ctx context.Context) {
	if !p.state.Session.MarkEnded() {
		slog.Debug("ignoring track end outside of playback", "phase", p.state.Session.Phase())
		return
	}
	p.Advance(ctx, false)
}

// MediaFailed handles an output failure for the loaded track.
func (p *PlaybackService) MediaFailed(ctx context.Context, err error) {
	p.fail(ctx, p.state.Session.Generation(), err)
}

func (p *PlaybackService) streamResolved(ctx context.Context, res streamResolvedCommand) {
	session := p.state.Session
	if !session.IsCurrent(res.generation) || session.Phase() != domain.PhaseResolving {
		slog.Debug("discarding stale stream resolution",
			"generation", res.generation,
			"current", session.Generation(),
		)
		return
	}

	if res.err != nil {
		p.fail(ctx, res.generation, res.err)
		return
	}

	startCtx, cancel := context.WithCancel(p.loop.background())
	p.cancelResolve = cancel
	p.output.submit(sinkOp{
		ctx:        startCtx,
		start:      true,
		generation: res.generation,
		url:        res.url,
	})
}

func (p *PlaybackService) sinkStarted(ctx context.Context, res sinkStartedCommand) {
	session := p.state.Session
	if !session.IsCurrent(res.generation) || session.Phase() != domain.PhaseResolving {
		slog.Debug("discarding stale media output start",
			"generation", res.generation,
			"current", session.Generation(),
		)
		return
	}
	p.cancelPending()

	if res.err != nil {
		p.fail(ctx, res.generation, res.err)
		return
	}

	session.MarkPlaying(res.generation, res.url)
	if current, ok := session.Current(); ok {
		slog.Info("started track", "track", current.ID, "title", current.Title)
	}
	p.nowPlayingChanged()
}

func (p *PlaybackService) fail(_ context.Context, gen uint64, cause error) {
	track, _ := p.state.Session.Current()
	if !p.state.Session.Fail(gen, cause.Error()) {
		slog.Debug("ignoring failure for inactive track", "generation", gen, "error", cause)
		return
	}

	slog.Warn("failed to play track", "track", track.ID, "error", cause)

	p.cancelPending()
	p.silence()
	p.notifier.Notify(ports.Notification{
		Level:   ports.NotificationError,
		Message: "Error playing " + track.Title,
	})
	p.nowPlayingChanged()

	p.loop.after(p.grace, errorGraceExpiredCommand{generation: gen})
}

func (p *PlaybackService) errorGraceExpired(_ context.Context, gen uint64) {
	if !p.state.Session.Expire(gen) {
		return
	}
	slog.Debug("cleared failed track", "generation", gen)
	p.nowPlayingChanged()
}

// silence unloads the sink. Failures are logged by the worker; the session
// state wins.
func (p *PlaybackService) silence() {
	p.output.submit(sinkOp{})
}

func (p *PlaybackService) cancelPending() {
	if p.cancelResolve != nil {
		p.cancelResolve()
		p.cancelResolve = nil
	}
}

func (p *PlaybackService) nowPlayingChanged() {
	session := p.state.Session
	event := domain.NowPlayingChangedEvent{
		Phase:      session.Phase(),
		Generation: session.Generation(),
	}
	if current, ok := session.Current(); ok {
		event.Track = &current
	}
	p.publisher.Publish(event)
	p.panels.TrackChanged()
}
