package usecases

import (
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// State is the console's session context. It is owned by the console loop;
// services read and mutate it only from there.
type State struct {
	Queue     *domain.Queue
	Session   *domain.PlaybackSession
	Playlists *domain.PlaylistRegistry
	Panels    *domain.PanelCoordinator
	Lyrics    *domain.LyricsView
}

// NewState creates an empty State.
func NewState(policy domain.HistoryPolicy) *State {
	return &State{
		Queue:     domain.NewQueue(policy),
		Session:   domain.NewPlaybackSession(),
		Playlists: domain.NewPlaylistRegistry(),
		Panels:    domain.NewPanelCoordinator(),
	}
}

// Snapshot is an immutable copy of the console state.
type Snapshot struct {
	Queue      []domain.Track
	History    []domain.Track
	Selected   int
	NowPlaying *domain.Track
	Phase      domain.PlaybackPhase
	Failure    string
	Generation uint64
	Playlists  []domain.Playlist
	Panel      domain.Panel
	Lyrics     *domain.LyricsView
}

// Snapshot copies the state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Queue:      s.Queue.Tracks(),
		History:    s.Queue.History(),
		Selected:   s.Queue.Selected(),
		Phase:      s.Session.Phase(),
		Failure:    s.Session.Failure(),
		Generation: s.Session.Generation(),
		Playlists:  s.Playlists.List(),
		Panel:      s.Panels.Current(),
	}
	if current, ok := s.Session.Current(); ok {
		snap.NowPlaying = &current
	}
	if s.Lyrics != nil {
		view := *s.Lyrics
		view.Lines = append([]string(nil), s.Lyrics.Lines...)
		snap.Lyrics = &view
	}
	return snap
}

// PlayerTitle returns the headline of the player slot.
func (s Snapshot) PlayerTitle() string {
	switch {
	case s.Phase == domain.PhaseErrored:
		return "Error Playing Track"
	case s.NowPlaying == nil:
		return ""
	default:
		return s.NowPlaying.Title
	}
}

// PlayerSubtitle returns the second line of the player slot.
func (s Snapshot) PlayerSubtitle() string {
	switch {
	case s.Phase == domain.PhaseErrored && s.Failure != "":
		return s.Failure
	case s.Phase == domain.PhaseErrored:
		return "Could not load audio stream"
	case s.NowPlaying == nil:
		return ""
	default:
		return s.NowPlaying.Artist
	}
}

// Playlist returns the playlist with the given ID.
func (s Snapshot) Playlist(id domain.PlaylistID) (domain.Playlist, bool) {
	for _, p := range s.Playlists {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Playlist{}, false
}
