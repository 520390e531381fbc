package domain

import "strings"

// TrackSource represents the origin platform of a track.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceDirect     TrackSource = "direct"
	TrackSourceOther      TrackSource = "other"
)

// ParseTrackSource converts a source name string to a TrackSource.
func ParseTrackSource(name string) TrackSource {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "youtube", "ytmusic":
		return TrackSourceYouTube
	case "soundcloud":
		return TrackSourceSoundCloud
	case "direct", "http":
		return TrackSourceDirect
	default:
		return TrackSourceOther
	}
}

// Color returns the embed color associated with the source.
func (s TrackSource) Color() int {
	switch s {
	case TrackSourceYouTube:
		return 0xFF0000
	case TrackSourceSoundCloud:
		return 0xFF5500
	default:
		return 0x1A1D23
	}
}

// String returns the source name.
func (s TrackSource) String() string {
	return string(s)
}
