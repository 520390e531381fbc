package domain

import (
	"strconv"
	"strings"
)

// TrackID identifies a track within its source. YouTube tracks use the watch URL.
type TrackID string

// Track is a playable item. It is a value type: copying a Track into a playlist
// or the history never aliases the queue.
type Track struct {
	ID       TrackID     `json:"id"`
	Source   TrackSource `json:"source"`
	Title    string      `json:"title"`
	Artist   string      `json:"artist"`
	Image    string      `json:"image,omitempty"`
	Duration int         `json:"duration,omitempty"` // seconds
}

// IsValid returns true if the track has the minimum required fields.
func (t Track) IsValid() bool {
	return t.ID != "" && strings.TrimSpace(t.Title) != ""
}

// FormattedDuration returns the duration as m:ss (or h:mm:ss), or an empty
// string when the duration is unknown.
func (t Track) FormattedDuration() string {
	if t.Duration <= 0 {
		return ""
	}

	hours := t.Duration / 3600
	minutes := (t.Duration % 3600) / 60
	seconds := t.Duration % 60

	if hours > 0 {
		return strconv.Itoa(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return strconv.Itoa(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
