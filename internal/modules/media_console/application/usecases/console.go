package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

const (
	// DefaultErrorGracePeriod is how long a failed track stays in the player slot.
	DefaultErrorGracePeriod = 3 * time.Second

	// DefaultInboxSize is the buffer size of the console command channel.
	DefaultInboxSize = 64
)

// ConsoleConfig configures a Console.
type ConsoleConfig struct {
	ErrorGracePeriod time.Duration
	HistoryPolicy    domain.HistoryPolicy
	InboxSize        int
}

// ConsoleDependencies are the adapters the console drives.
type ConsoleDependencies struct {
	Store     ports.DurableStore
	Resolver  ports.StreamResolver
	Sink      ports.MediaSink
	Lyrics    ports.LyricsProvider
	Notifier  ports.NotificationSink
	Publisher ports.EventPublisher
	IDs       ports.PlaylistIDGenerator
	Clock     func() time.Time
}

// scheduler lets services hand work back to the console loop.
type scheduler interface {
	// post delivers cmd to the loop. It must not be called from the loop itself.
	post(cmd Command)

	// after delivers cmd to the loop once d has elapsed.
	after(d time.Duration, cmd Command)

	// background returns the context async work should run under.
	background() context.Context
}

type envelope struct {
	ctx   context.Context
	cmd   Command
	reply chan result
}

type result struct {
	snapshot Snapshot
	err      error
}

// Console owns the media console state and applies commands one at a time
// on a single goroutine. Async completions (stream resolution, media output,
// lyrics, the error grace timer) re-enter through the same loop.
type Console struct {
	state *State
	store *TrackStore

	queue     *QueueService
	playback  *PlaybackService
	playlists *PlaylistService
	panels    *PanelService
	output    *sinkWorker

	inbox chan envelope
	done  chan struct{}
	ctx   context.Context
}

// NewConsole creates a Console. Call Run to start it.
func NewConsole(cfg ConsoleConfig, deps ConsoleDependencies) *Console {
	if cfg.ErrorGracePeriod <= 0 {
		cfg.ErrorGracePeriod = DefaultErrorGracePeriod
	}
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = DefaultInboxSize
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Publisher == nil {
		deps.Publisher = nopPublisher{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	c := &Console{
		state: NewState(cfg.HistoryPolicy),
		store: NewTrackStore(deps.Store),
		inbox: make(chan envelope, cfg.InboxSize),
		done:  make(chan struct{}),
		ctx:   context.Background(),
	}

	c.output = newSinkWorker(deps.Sink, c)
	c.panels = NewPanelService(c.state, deps.Lyrics, deps.Notifier, c)
	c.playback = newPlaybackService(
		c.state,
		c.store,
		deps.Resolver,
		c.output,
		deps.Notifier,
		deps.Publisher,
		c.panels,
		c,
		cfg.ErrorGracePeriod,
	)
	c.queue = NewQueueService(c.state, c.store, deps.Notifier, c.playback)
	c.playlists = NewPlaylistService(
		c.state,
		c.store,
		deps.IDs,
		deps.Notifier,
		c.playback,
		deps.Clock,
	)

	deps.Sink.SetListener(ports.MediaListener{
		OnEnded: func() { c.post(TrackEndedCommand{}) },
		OnError: func(err error) { c.post(MediaFailedCommand{Err: err}) },
	})

	return c
}

// Run hydrates the state from the store and applies commands until ctx is
// cancelled. It must be called exactly once.
func (c *Console) Run(ctx context.Context) {
	defer close(c.done)

	c.ctx = ctx
	c.hydrate(ctx)
	go c.output.run(ctx)

	slog.Info("started media console",
		"queued", c.state.Queue.Len(),
		"playlists", c.state.Playlists.Len(),
	)

	for {
		select {
		case <-ctx.Done():
			c.playback.cancelPending()
			c.panels.cancelPending()
			slog.Info("stopped media console")
			return
		case env := <-c.inbox:
			c.apply(env)
		}
	}
}

func (c *Console) apply(env envelope) {
	ctx := c.ctx
	if env.ctx != nil {
		// Writes that follow a mutation must not be lost because the caller gave up.
		ctx = context.WithoutCancel(env.ctx)
	}

	err := env.cmd.apply(ctx, c)
	if env.reply != nil {
		env.reply <- result{snapshot: c.state.Snapshot(), err: err}
	}
}

func (c *Console) hydrate(ctx context.Context) {
	c.state.Queue.Restore(c.store.LoadQueue(ctx))
	c.state.Playlists.Restore(c.store.LoadPlaylists(ctx))
}

// Dispatch applies cmd on the console loop and returns the resulting state.
func (c *Console) Dispatch(ctx context.Context, cmd Command) (Snapshot, error) {
	env := envelope{ctx: ctx, cmd: cmd, reply: make(chan result, 1)}

	select {
	case c.inbox <- env:
	case <-c.done:
		return Snapshot{}, ErrConsoleClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case res := <-env.reply:
		return res.snapshot, res.err
	case <-c.done:
		return Snapshot{}, ErrConsoleClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Snapshot returns the current state.
func (c *Console) Snapshot(ctx context.Context) (Snapshot, error) {
	return c.Dispatch(ctx, SnapshotCommand{})
}

// Done is closed once Run has returned.
func (c *Console) Done() <-chan struct{} {
	return c.done
}

func (c *Console) post(cmd Command) {
	select {
	case c.inbox <- envelope{cmd: cmd}:
	case <-c.done:
	}
}

func (c *Console) after(d time.Duration, cmd Command) {
	time.AfterFunc(d, func() { c.post(cmd) })
}

func (c *Console) background() context.Context {
	return c.ctx
}

type nopNotifier struct{}

func (nopNotifier) Notify(ports.Notification) {}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.Event) {}
