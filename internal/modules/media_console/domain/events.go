package domain

// Event is implemented by every event published by the console.
type Event interface {
	isEvent()
}

// NowPlayingChangedEvent is published whenever the loaded track or its phase
// changes. Track is nil when the session becomes idle.
type NowPlayingChangedEvent struct {
	Track      *Track
	Phase      PlaybackPhase
	Generation uint64
}

func (NowPlayingChangedEvent) isEvent() {}
