package domain

// PlaybackPhase is the state of the playback session.
type PlaybackPhase int

const (
	PhaseIdle PlaybackPhase = iota
	PhaseResolving
	PhasePlaying
	PhaseEnded
	PhaseErrored
)

// String returns a human-readable phase name.
func (p PlaybackPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// PlaybackSession tracks the loaded track and its phase.
//
// Every change of intent (a new track, a stop) bumps the generation. Async
// continuations capture the generation they were started under and must be
// dropped when it no longer matches.
type PlaybackSession struct {
	current    *Track
	phase      PlaybackPhase
	generation uint64
	streamURL  string
	failure    string
}

// NewPlaybackSession creates an idle session.
func NewPlaybackSession() *PlaybackSession {
	return &PlaybackSession{phase: PhaseIdle}
}

// Current returns the loaded track, if any.
func (s *PlaybackSession) Current() (Track, bool) {
	if s.current == nil {
		return Track{}, false
	}
	return *s.current, true
}

// Phase returns the current phase.
func (s *PlaybackSession) Phase() PlaybackPhase {
	return s.phase
}

// Generation returns the current generation.
func (s *PlaybackSession) Generation() uint64 {
	return s.generation
}

// StreamURL returns the resolved stream URL while playing.
func (s *PlaybackSession) StreamURL() string {
	return s.streamURL
}

// Failure returns the reason of the last failure while errored.
func (s *PlaybackSession) Failure() string {
	return s.failure
}

// IsIdle returns true if nothing is loaded.
func (s *PlaybackSession) IsIdle() bool {
	return s.phase == PhaseIdle
}

// IsCurrent reports whether gen is still the current generation.
func (s *PlaybackSession) IsCurrent(gen uint64) bool {
	return s.generation == gen
}

// Begin loads a track and enters Resolving. It returns the new generation.
func (s *PlaybackSession) Begin(t Track) uint64 {
	s.generation++
	s.current = &t
	s.phase = PhaseResolving
	s.streamURL = ""
	s.failure = ""
	return s.generation
}

// MarkPlaying records a successful resolution. It returns false if gen is
// stale or the session is not resolving.
func (s *PlaybackSession) MarkPlaying(gen uint64, streamURL string) bool {
	if gen != s.generation || s.phase != PhaseResolving {
		return false
	}
	s.phase = PhasePlaying
	s.streamURL = streamURL
	return true
}

// MarkEnded records that the media output finished the track.
func (s *PlaybackSession) MarkEnded() bool {
	if s.phase != PhasePlaying {
		return false
	}
	s.phase = PhaseEnded
	return true
}

// Fail records a resolution or output failure for gen.
func (s *PlaybackSession) Fail(gen uint64, reason string) bool {
	if gen != s.generation {
		return false
	}
	if s.phase != PhaseResolving && s.phase != PhasePlaying {
		return false
	}
	s.phase = PhaseErrored
	s.failure = reason
	s.streamURL = ""
	return true
}

// Expire returns an errored session to Idle once its grace period is over.
// It returns false if a newer intent has superseded gen.
func (s *PlaybackSession) Expire(gen uint64) bool {
	if gen != s.generation || s.phase != PhaseErrored {
		return false
	}
	s.reset()
	return true
}

// Stop unloads the track and returns to Idle, superseding any pending work.
func (s *PlaybackSession) Stop() uint64 {
	s.generation++
	s.reset()
	return s.generation
}

func (s *PlaybackSession) reset() {
	s.current = nil
	s.phase = PhaseIdle
	s.streamURL = ""
	s.failure = ""
}
