package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
)

// DetachedSink is a MediaSink without audio output, used when no Lavalink
// node is configured. Tracks never end on their own.
type DetachedSink struct {
	mu      sync.Mutex
	source  string
	playing bool
}

// Ensure DetachedSink implements ports.MediaSink.
var _ ports.MediaSink = (*DetachedSink)(nil)

// NewDetachedSink creates a new DetachedSink.
func NewDetachedSink() *DetachedSink {
	return &DetachedSink{}
}

// SetSource records url as the loaded source and stops playback.
func (s *DetachedSink) SetSource(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = url
	s.playing = false
	slog.Debug("detached sink source changed", "url", url)
	return nil
}

// Play marks the loaded source as playing. It is a no-op when nothing is loaded.
func (s *DetachedSink) Play(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = s.source != ""
	return nil
}

// Pause marks the output as paused and keeps the source.
func (s *DetachedSink) Pause(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	return nil
}

// SetListener does nothing; a detached sink never reports events.
func (s *DetachedSink) SetListener(ports.MediaListener) {}

// Playing reports whether a source is loaded and playing.
func (s *DetachedSink) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}
