package ports

import "context"

// MediaSink is the audio output. It reports the end of a track, or a failure
// while playing, through the callbacks registered with SetListener.
type MediaSink interface {
	// SetSource loads a stream URL without starting it. An empty URL unloads the output.
	SetSource(ctx context.Context, url string) error

	// Play starts or resumes the loaded stream.
	Play(ctx context.Context) error

	// Pause halts output without unloading it.
	Pause(ctx context.Context) error

	// SetListener registers the callbacks for output events.
	SetListener(listener MediaListener)
}

// MediaListener receives output events from a MediaSink.
type MediaListener struct {
	OnEnded func()
	OnError func(err error)
}
