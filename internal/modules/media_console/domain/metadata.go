package domain

import (
	"regexp"
	"strings"
)

// UnknownArtist is used when neither the label nor the fallback name an artist.
const UnknownArtist = "Unknown Artist"

// TrackInfo is the (artist, title) pair used as the lyrics lookup key.
type TrackInfo struct {
	Artist string
	Title  string
}

// noisePatterns are removed from label fragments, in order.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(official\s*(video|audio|music\s*video|lyric\s*video)\)`),
	regexp.MustCompile(`(?i)\[official\s*(video|audio|music\s*video|lyric\s*video)\]`),
	regexp.MustCompile(`(?i)official\s*(video|audio|music\s*video|lyric\s*video)`),
	regexp.MustCompile(`(?i)\(lyric(s)?\s*video\)`),
	regexp.MustCompile(`(?i)\[lyric(s)?\s*video\]`),
	regexp.MustCompile(`(?i)lyric(s)?\s*video`),
	regexp.MustCompile(`(?i)\(.*?\d{4}.*?remaster(ed)?\)`),
	regexp.MustCompile(`(?i)\(.*?remaster(ed)?\)`),
	regexp.MustCompile(`(?i)\[.*?remaster(ed)?\]`),
	regexp.MustCompile(`(?i)\(.*?version\)`),
	regexp.MustCompile(`(?i)\[.*?version\]`),
	regexp.MustCompile(`(?i)\(.*?remix\)`),
	regexp.MustCompile(`(?i)\[.*?remix\]`),
	regexp.MustCompile(`(?i)\(.*?edit\)`),
	regexp.MustCompile(`(?i)\[.*?edit\]`),
	regexp.MustCompile(`【.*?】`),
	regexp.MustCompile(`〈.*?〉`),
	regexp.MustCompile(`(?i)\(ft\.?.*?\)`),
	regexp.MustCompile(`(?i)\[ft\.?.*?\]`),
	regexp.MustCompile(`(?i)feat\.?\s+.*`),
	regexp.MustCompile(`(?i)\s*-\s*topic$`),
}

// artistSuffixPatterns are removed from the end of the resolved artist.
var artistSuffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)VEVO$`),
	regexp.MustCompile(`(?i)official$`),
	regexp.MustCompile(`(?i)\s*-\s*topic$`),
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseTrackInfo derives a clean (artist, title) pair from a raw video label and
// the uploader name. It is total: every input produces a result.
func ParseTrackInfo(rawLabel, fallbackArtist string) TrackInfo {
	artist := fallbackArtist
	if artist == "" {
		artist = UnknownArtist
	}
	var title string

	byIdx := indexFold(rawLabel, " by ")
	switch {
	case strings.Contains(rawLabel, " - "):
		parts := strings.Split(rawLabel, " - ")
		artist = cleanLabel(parts[0])
		title = cleanLabel(strings.Join(parts[1:], " - "))
	case strings.Contains(rawLabel, ": "):
		parts := strings.Split(rawLabel, ": ")
		artist = cleanLabel(parts[0])
		title = cleanLabel(strings.Join(parts[1:], ": "))
	case byIdx >= 0:
		title = cleanLabel(rawLabel[:byIdx])
		artist = cleanLabel(rawLabel[byIdx+len(" by "):])
	default:
		title = cleanLabel(rawLabel)
	}

	for _, re := range artistSuffixPatterns {
		artist = re.ReplaceAllString(artist, "")
	}
	artist = strings.TrimSpace(whitespace.ReplaceAllString(artist, " "))

	if artist == "" || artist == UnknownArtist {
		artist = fallbackArtist
		if artist == "" {
			artist = UnknownArtist
		}
	}

	return TrackInfo{Artist: artist, Title: title}
}

func cleanLabel(s string) string {
	for _, re := range noisePatterns {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// indexFold returns the byte index of the first case-insensitive match of sep in s.
func indexFold(s, sep string) int {
	for i := 0; i+len(sep) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}
