package domain

import "errors"

var (
	// ErrDuplicateTrack is returned when a track with the same ID is already in the collection.
	ErrDuplicateTrack = errors.New("track is already in the list")

	// ErrInvalidPosition is returned when an index is outside the collection.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrEmptyPlaylistName is returned when a playlist name is blank after trimming.
	ErrEmptyPlaylistName = errors.New("playlist name cannot be empty")

	// ErrPlaylistNotFound is returned when no playlist has the requested ID.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNothingPlaying is returned when an operation needs a loaded track.
	ErrNothingPlaying = errors.New("nothing is currently playing")

	// ErrInvalidTrack is returned when a track lacks an ID or a title.
	ErrInvalidTrack = errors.New("invalid track")

	// ErrUnknownPanel is returned when a panel name cannot be parsed.
	ErrUnknownPanel = errors.New("unknown panel")
)
