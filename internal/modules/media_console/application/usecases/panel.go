package usecases

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// PanelService coordinates the side panels and keeps the lyrics panel in
// step with the loaded track. Its methods must be called from the console loop.
type PanelService struct {
	state    *State
	lyrics   ports.LyricsProvider
	notifier ports.NotificationSink
	loop     scheduler

	generation   uint64
	cancelLyrics context.CancelFunc
}

// NewPanelService creates a new PanelService.
func NewPanelService(
	state *State,
	lyrics ports.LyricsProvider,
	notifier ports.NotificationSink,
	loop scheduler,
) *PanelService {
	return &PanelService{
		state:    state,
		lyrics:   lyrics,
		notifier: notifier,
		loop:     loop,
	}
}

// Open opens a panel and closes the others. Opening the lyrics panel needs a
// loaded track and starts a lyrics fetch.
func (s *PanelService) Open(_ context.Context, panel domain.Panel) error {
	_, loaded := s.state.Session.Current()
	previous := s.state.Panels.Current()

	changed, err := s.state.Panels.Open(panel, loaded)
	if errors.Is(err, domain.ErrNothingPlaying) {
		s.notifier.Notify(ports.Notification{
			Level:   ports.NotificationInfo,
			Message: "Play a song to see lyrics",
		})
		return err
	}
	if err != nil || !changed {
		return err
	}

	if previous == domain.PanelLyrics {
		s.dropLyrics()
	}
	if panel == domain.PanelLyrics {
		s.fetchLyrics()
	}

	return nil
}

// Close closes a panel if it is open.
func (s *PanelService) Close(panel domain.Panel) {
	if !s.state.Panels.Close(panel) {
		return
	}
	if panel == domain.PanelLyrics {
		s.dropLyrics()
	}
}

// Toggle closes an open panel or opens a closed one.
func (s *PanelService) Toggle(ctx context.Context, panel domain.Panel) error {
	if s.state.Panels.IsOpen(panel) {
		s.Close(panel)
		return nil
	}
	return s.Open(ctx, panel)
}

// TrackChanged refreshes the lyrics panel after the loaded track changed.
// The panel closes when nothing is loaded.
func (s *PanelService) TrackChanged() {
	if !s.state.Panels.IsOpen(domain.PanelLyrics) {
		return
	}

	current, ok := s.state.Session.Current()
	if !ok {
		s.Close(domain.PanelLyrics)
		return
	}
	if s.state.Lyrics != nil && s.state.Lyrics.TrackID == current.ID {
		return
	}
	s.fetchLyrics()
}

func (s *PanelService) fetchLyrics() {
	current, ok := s.state.Session.Current()
	if !ok {
		return
	}

	s.cancelPending()
	s.generation++
	gen := s.generation

	view := domain.NewLoadingLyrics(current)
	s.state.Lyrics = &view

	slog.Debug("fetching lyrics",
		"artist", view.Info.Artist,
		"title", view.Info.Title,
		"generation", gen,
	)

	fetchCtx, cancel := context.WithCancel(s.loop.background())
	s.cancelLyrics = cancel
	info := view.Info
	go func() {
		defer cancel()
		text, err := s.lyrics.FetchLyrics(fetchCtx, info.Artist, info.Title)
		s.loop.post(lyricsFetchedCommand{generation: gen, text: text, err: err})
	}()
}

func (s *PanelService) lyricsFetched(res lyricsFetchedCommand) {
	if res.generation != s.generation || s.state.Lyrics == nil ||
		!s.state.Panels.IsOpen(domain.PanelLyrics) {
		slog.Debug("discarding stale lyrics", "generation", res.generation)
		return
	}

	view := *s.state.Lyrics
	switch {
	case res.err == nil:
		view = view.Loaded(res.text)
	case errors.Is(res.err, ports.ErrLyricsNotFound):
		view = view.NotFound()
	case errors.Is(res.err, ports.ErrLyricsTimeout):
		view = view.TimedOut()
	default:
		slog.Warn("failed to fetch lyrics", "error", res.err)
		view = view.Failed(res.err.Error())
	}
	s.state.Lyrics = &view
}

func (s *PanelService) dropLyrics() {
	s.cancelPending()
	s.generation++
	s.state.Lyrics = nil
}

func (s *PanelService) cancelPending() {
	if s.cancelLyrics != nil {
		s.cancelLyrics()
		s.cancelLyrics = nil
	}
}
