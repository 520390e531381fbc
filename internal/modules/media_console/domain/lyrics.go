package domain

import "strings"

// LyricsStatus is the state of the lyrics panel content.
type LyricsStatus int

const (
	LyricsLoading LyricsStatus = iota
	LyricsLoaded
	LyricsNotFound
	LyricsTimeout
	LyricsFailed
)

// String returns the status name.
func (s LyricsStatus) String() string {
	switch s {
	case LyricsLoading:
		return "loading"
	case LyricsLoaded:
		return "loaded"
	case LyricsNotFound:
		return "not_found"
	case LyricsTimeout:
		return "timeout"
	case LyricsFailed:
		return "error"
	default:
		return "unknown"
	}
}

// LyricsView is what the lyrics panel shows for a track.
type LyricsView struct {
	TrackID TrackID
	Info    TrackInfo
	Status  LyricsStatus
	Lines   []string
	Message string
	Detail  string
}

// NewLoadingLyrics returns the view shown while lyrics for t are fetched.
func NewLoadingLyrics(t Track) LyricsView {
	return LyricsView{
		TrackID: t.ID,
		Info:    ParseTrackInfo(t.Title, t.Artist),
		Status:  LyricsLoading,
		Message: "Loading lyrics...",
	}
}

// Loaded returns a copy of the view holding text.
func (v LyricsView) Loaded(text string) LyricsView {
	v.Status = LyricsLoaded
	v.Lines = strings.Split(strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n"), "\n")
	v.Message = ""
	v.Detail = ""
	return v
}

// NotFound returns a copy of the view for a terminal miss.
func (v LyricsView) NotFound() LyricsView {
	v.Status = LyricsNotFound
	v.Lines = nil
	v.Message = "Lyrics not available"
	v.Detail = "Couldn't find lyrics for this song"
	return v
}

// TimedOut returns a copy of the view for a provider timeout.
func (v LyricsView) TimedOut() LyricsView {
	v.Status = LyricsTimeout
	v.Lines = nil
	v.Message = "Lyrics service is slow"
	v.Detail = "Please try again in a moment"
	return v
}

// Failed returns a copy of the view for any other error.
func (v LyricsView) Failed(detail string) LyricsView {
	v.Status = LyricsFailed
	v.Lines = nil
	v.Message = "Error loading lyrics"
	v.Detail = detail
	return v
}
