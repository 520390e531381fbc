package domain

import (
	"encoding/json"

	"github.com/samber/lo"
)

// TrackList is an ordered collection holding at most one track per ID.
// It backs both the queue and playlists.
type TrackList struct {
	tracks []Track
}

// NewTrackList creates a TrackList from tracks, keeping the first occurrence of each ID.
func NewTrackList(tracks ...Track) TrackList {
	return TrackList{
		tracks: lo.UniqBy(tracks, func(t Track) TrackID { return t.ID }),
	}
}

// Len returns the number of tracks.
func (l *TrackList) Len() int {
	return len(l.tracks)
}

// IsEmpty returns true if the list holds no tracks.
func (l *TrackList) IsEmpty() bool {
	return len(l.tracks) == 0
}

// Contains reports whether a track with the given ID is present.
func (l *TrackList) Contains(id TrackID) bool {
	return lo.ContainsBy(l.tracks, func(t Track) bool { return t.ID == id })
}

// IndexOf returns the index of the track with the given ID, or -1.
func (l *TrackList) IndexOf(id TrackID) int {
	_, index, ok := lo.FindIndexOf(l.tracks, func(t Track) bool { return t.ID == id })
	if !ok {
		return -1
	}
	return index
}

// At returns the track at index.
func (l *TrackList) At(index int) (Track, bool) {
	if index < 0 || index >= len(l.tracks) {
		return Track{}, false
	}
	return l.tracks[index], true
}

// Tracks returns a copy of the tracks in order.
func (l *TrackList) Tracks() []Track {
	result := make([]Track, len(l.tracks))
	copy(result, l.tracks)
	return result
}

// Append adds a track to the end. Returns false if the ID is already present.
func (l *TrackList) Append(t Track) bool {
	if l.Contains(t.ID) {
		return false
	}
	l.tracks = append(l.tracks, t)
	return true
}

// PushFront inserts a track at index 0. An existing track with the same ID is
// moved to the front instead of being duplicated.
func (l *TrackList) PushFront(t Track) {
	if index := l.IndexOf(t.ID); index >= 0 {
		l.tracks = append(l.tracks[:index], l.tracks[index+1:]...)
	}
	l.tracks = append([]Track{t}, l.tracks...)
}

// PopFront removes and returns the first track.
func (l *TrackList) PopFront() (Track, bool) {
	if len(l.tracks) == 0 {
		return Track{}, false
	}
	t := l.tracks[0]
	l.tracks = l.tracks[1:]
	return t, true
}

// TakeFront removes and returns the first n tracks in order.
func (l *TrackList) TakeFront(n int) []Track {
	n = min(max(n, 0), len(l.tracks))
	taken := make([]Track, n)
	copy(taken, l.tracks[:n])
	l.tracks = l.tracks[n:]
	return taken
}

// RemoveAt removes and returns the track at index.
func (l *TrackList) RemoveAt(index int) (Track, bool) {
	if index < 0 || index >= len(l.tracks) {
		return Track{}, false
	}
	t := l.tracks[index]
	l.tracks = append(l.tracks[:index:index], l.tracks[index+1:]...)
	return t, true
}

// Swap exchanges the tracks at i and j. Returns false if either index is out of range.
func (l *TrackList) Swap(i, j int) bool {
	if i < 0 || j < 0 || i >= len(l.tracks) || j >= len(l.tracks) {
		return false
	}
	l.tracks[i], l.tracks[j] = l.tracks[j], l.tracks[i]
	return true
}

// Clear removes every track and returns how many were removed.
func (l *TrackList) Clear() int {
	n := len(l.tracks)
	l.tracks = nil
	return n
}

// Clone returns an independent copy of the list.
func (l TrackList) Clone() TrackList {
	return TrackList{tracks: l.Tracks()}
}

// MarshalJSON encodes the list as a plain array of tracks.
func (l TrackList) MarshalJSON() ([]byte, error) {
	if l.tracks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.tracks)
}

// UnmarshalJSON decodes a plain array, dropping invalid tracks and repeated IDs.
func (l *TrackList) UnmarshalJSON(data []byte) error {
	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return err
	}
	*l = NewTrackList(lo.Filter(tracks, func(t Track, _ int) bool { return t.IsValid() })...)
	return nil
}
