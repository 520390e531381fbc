package ports

import (
	"context"
	"errors"
)

var (
	// ErrLyricsNotFound is returned when no provider has lyrics for the song.
	ErrLyricsNotFound = errors.New("lyrics not found")

	// ErrLyricsTimeout is returned when the lyrics providers did not answer in time.
	ErrLyricsTimeout = errors.New("lyrics service timed out")
)

// LyricsProvider fetches plain-text lyrics.
type LyricsProvider interface {
	FetchLyrics(ctx context.Context, artist, title string) (string, error)
}
