package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// PlaylistID identifies a playlist. IDs are allocated from a strictly
// increasing time source, so sorting by ID sorts by creation.
type PlaylistID string

// UnmarshalJSON accepts both string and numeric IDs.
func (id *PlaylistID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] != '"' {
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return err
		}
		*id = PlaylistID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = PlaylistID(s)
	return nil
}

// Playlist is a named, ordered, duplicate-free collection of tracks.
type Playlist struct {
	ID        PlaylistID `json:"id"`
	Name      string     `json:"name"`
	Tracks    TrackList  `json:"tracks"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewPlaylist creates an empty playlist. The name is trimmed and must not be empty.
func NewPlaylist(id PlaylistID, name string, now time.Time) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyPlaylistName
	}
	return &Playlist{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddTrack appends a copy of t. It returns ErrDuplicateTrack if the track is already present.
func (p *Playlist) AddTrack(t Track, now time.Time) error {
	if !p.Tracks.Append(t) {
		return ErrDuplicateTrack
	}
	p.UpdatedAt = now
	return nil
}

// RemoveTrack removes the track at index.
func (p *Playlist) RemoveTrack(index int, now time.Time) (Track, error) {
	t, ok := p.Tracks.RemoveAt(index)
	if !ok {
		return Track{}, ErrInvalidPosition
	}
	p.UpdatedAt = now
	return t, nil
}

// Rename changes the playlist name with the same validation as NewPlaylist.
func (p *Playlist) Rename(name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlaylistName
	}
	p.Name = name
	p.UpdatedAt = now
	return nil
}

// Clone returns a deep copy of the playlist.
func (p Playlist) Clone() Playlist {
	p.Tracks = p.Tracks.Clone()
	return p
}

// PlaylistRegistry holds playlists in creation order.
// PlaylistRegistry is not safe for concurrent use.
type PlaylistRegistry struct {
	playlists []*Playlist
}

// NewPlaylistRegistry creates an empty registry.
func NewPlaylistRegistry() *PlaylistRegistry {
	return &PlaylistRegistry{}
}

// Restore replaces the registry contents, skipping entries with a missing or
// repeated ID or a blank name.
func (r *PlaylistRegistry) Restore(playlists []Playlist) {
	r.playlists = nil
	for _, p := range playlists {
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			continue
		}
		if _, ok := r.find(p.ID); ok {
			continue
		}
		clone := p.Clone()
		r.playlists = append(r.playlists, &clone)
	}
}

// Len returns the number of playlists.
func (r *PlaylistRegistry) Len() int {
	return len(r.playlists)
}

// List returns copies of every playlist in creation order.
func (r *PlaylistRegistry) List() []Playlist {
	result := make([]Playlist, len(r.playlists))
	for i, p := range r.playlists {
		result[i] = p.Clone()
	}
	return result
}

// Get returns a copy of the playlist with the given ID.
func (r *PlaylistRegistry) Get(id PlaylistID) (Playlist, bool) {
	p, ok := r.find(id)
	if !ok {
		return Playlist{}, false
	}
	return p.Clone(), true
}

func (r *PlaylistRegistry) find(id PlaylistID) (*Playlist, bool) {
	for _, p := range r.playlists {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Create adds a new empty playlist.
func (r *PlaylistRegistry) Create(id PlaylistID, name string, now time.Time) (Playlist, error) {
	p, err := NewPlaylist(id, name, now)
	if err != nil {
		return Playlist{}, err
	}
	r.playlists = append(r.playlists, p)
	return p.Clone(), nil
}

// Delete removes a playlist and its tracks. It returns false if no playlist matched.
func (r *PlaylistRegistry) Delete(id PlaylistID) (Playlist, bool) {
	for i, p := range r.playlists {
		if p.ID == id {
			r.playlists = append(r.playlists[:i], r.playlists[i+1:]...)
			return *p, true
		}
	}
	return Playlist{}, false
}

// AddTrack appends a copy of t to the playlist.
func (r *PlaylistRegistry) AddTrack(id PlaylistID, t Track, now time.Time) (Playlist, error) {
	p, ok := r.find(id)
	if !ok {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err := p.AddTrack(t, now); err != nil {
		return p.Clone(), err
	}
	return p.Clone(), nil
}

// RemoveTrack removes the track at index from the playlist.
func (r *PlaylistRegistry) RemoveTrack(id PlaylistID, index int, now time.Time) (Track, error) {
	p, ok := r.find(id)
	if !ok {
		return Track{}, ErrPlaylistNotFound
	}
	return p.RemoveTrack(index, now)
}

// Rename renames the playlist.
func (r *PlaylistRegistry) Rename(id PlaylistID, name string, now time.Time) (Playlist, error) {
	p, ok := r.find(id)
	if !ok {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err := p.Rename(name, now); err != nil {
		return p.Clone(), err
	}
	return p.Clone(), nil
}
