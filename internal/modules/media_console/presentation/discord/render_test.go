package discord

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/usecases"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

func TestRenderQueue(t *testing.T) {
	current := testTrack("now")
	snap := usecases.Snapshot{
		Queue:      []domain.Track{testTrack("a"), testTrack("b")},
		History:    []domain.Track{testTrack("old"), testTrack("older")},
		Selected:   1,
		NowPlaying: &current,
		Phase:      domain.PhasePlaying,
	}

	embed := renderQueue(snap)

	wantDescription := "1. Song a - Artist a `1:01`\n**2. Song b - Artist b `1:01`**\n"
	if embed.Description != wantDescription {
		t.Errorf("unexpected description:\n%s", embed.Description)
	}
	if len(embed.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(embed.Fields))
	}
	if embed.Fields[0].Name != "Now Playing" || !strings.Contains(embed.Fields[0].Value, "Song now") {
		t.Errorf("unexpected player field %+v", embed.Fields[0])
	}
	if embed.Fields[1].Value != "Song older - Artist older\nSong old - Artist old" {
		t.Errorf("expected history newest first, got %q", embed.Fields[1].Value)
	}
}

func TestRenderQueue_Errored(t *testing.T) {
	current := testTrack("x")
	embed := renderQueue(usecases.Snapshot{
		NowPlaying: &current,
		Phase:      domain.PhaseErrored,
		Selected:   -1,
	})

	if embed.Description != "Queue is empty" {
		t.Errorf("unexpected description %q", embed.Description)
	}
	if embed.Fields[0].Name != "Error" ||
		embed.Fields[0].Value != "**Error Playing Track**\nCould not load audio stream" {
		t.Errorf("unexpected player field %+v", embed.Fields[0])
	}
}

func TestRenderQueue_Truncates(t *testing.T) {
	var tracks []domain.Track
	for i := range maxListedTracks + 3 {
		tracks = append(tracks, testTrack(string(rune('a'+i))))
	}

	embed := renderQueue(usecases.Snapshot{Queue: tracks, Selected: -1})

	if !strings.HasSuffix(embed.Description, "...and 3 more") {
		t.Errorf("expected truncation marker, got %q", embed.Description)
	}
	if embed.Footer.Text != "23 tracks in queue" {
		t.Errorf("unexpected footer %q", embed.Footer.Text)
	}
}

func TestRenderLyrics(t *testing.T) {
	base := domain.LyricsView{Info: domain.TrackInfo{Artist: "A", Title: "T"}}

	tests := []struct {
		name string
		view *domain.LyricsView
		want string
	}{
		{"no track", nil, "Nothing is playing"},
		{"loaded", viewPtr(base.Loaded("one\r\ntwo")), "one\ntwo"},
		{"not found", viewPtr(base.NotFound()), "Lyrics not available\nCouldn't find lyrics for this song"},
		{"timeout", viewPtr(base.TimedOut()), "Lyrics service is slow\nPlease try again in a moment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := renderLyrics(usecases.Snapshot{Lyrics: tt.view})
			if embed.Description != tt.want {
				t.Errorf("expected %q, got %q", tt.want, embed.Description)
			}
		})
	}
}

func viewPtr(v domain.LyricsView) *domain.LyricsView {
	return &v
}

func TestRenderPlaylists(t *testing.T) {
	if got := renderPlaylists(usecases.Snapshot{}).Description; got != "No playlists yet" {
		t.Errorf("unexpected empty description %q", got)
	}

	embed := renderPlaylists(usecases.Snapshot{Playlists: []domain.Playlist{
		{ID: "1", Name: "Mix", Tracks: domain.NewTrackList(testTrack("a"))},
	}})
	if embed.Description != "**Mix** (1 track) `1`\n" {
		t.Errorf("unexpected description %q", embed.Description)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", maxDescriptionLength)
	got := truncate(long)

	if len(got) > maxDescriptionLength {
		t.Errorf("expected at most %d bytes, got %d", maxDescriptionLength, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected an ellipsis")
	}
	if !strings.HasPrefix(got, "éé") || !utf8.ValidString(got) {
		t.Error("expected truncation on a rune boundary")
	}
}
