package usecases

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

func lyricsStatus(s Snapshot) domain.LyricsStatus {
	if s.Lyrics == nil {
		return -1
	}
	return s.Lyrics.Status
}

func startPlaying(t *testing.T, f *fixture, id string) {
	t.Helper()
	f.mustDispatch(t, PlayCommand{Track: mockTrack(id)})
	f.waitPlaying(t, id)
}

func TestOpenLyrics_RequiresLoadedTrack(t *testing.T) {
	f := newFixture()
	f.start(t)

	snap, err := f.dispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})

	if !errors.Is(err, domain.ErrNothingPlaying) {
		t.Fatalf("expected ErrNothingPlaying, got %v", err)
	}
	if snap.Panel != domain.PanelNone || snap.Lyrics != nil {
		t.Errorf("expected no panel, got %v", snap.Panel)
	}
	if !f.notifier.has(ports.NotificationInfo, "Play a song to see lyrics") {
		t.Error("expected lyrics hint notification")
	}
	if f.lyrics.callCount() != 0 {
		t.Error("expected no lyrics fetch")
	}
}

func TestOpenLyrics_FetchesParsedTrackInfo(t *testing.T) {
	f := newFixture()
	f.lyrics.hold("Song a")
	f.start(t)
	startPlaying(t, f, "a")

	snap := f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})

	if snap.Panel != domain.PanelLyrics {
		t.Fatalf("expected lyrics panel, got %v", snap.Panel)
	}
	if lyricsStatus(snap) != domain.LyricsLoading || snap.Lyrics.Message != "Loading lyrics..." {
		t.Errorf("expected loading view, got %+v", snap.Lyrics)
	}

	f.waitFor(t, "lyrics fetch", func(Snapshot) bool { return f.lyrics.callCount() == 1 })
	if call := f.lyrics.lastCall(); call.artist != "Artist a" || call.title != "Song a" {
		t.Errorf("expected fetch for Artist a / Song a, got %+v", call)
	}

	f.lyrics.release("Song a", "line one\r\nline two", nil)
	snap = f.waitFor(t, "lyrics loaded", func(s Snapshot) bool {
		return lyricsStatus(s) == domain.LyricsLoaded
	})
	if len(snap.Lyrics.Lines) != 2 || snap.Lyrics.Lines[1] != "line two" {
		t.Errorf("expected two lines, got %q", snap.Lyrics.Lines)
	}
}

func TestOpenLyrics_ErrorViews(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  domain.LyricsStatus
		message string
	}{
		{
			name:    "not found",
			err:     ports.ErrLyricsNotFound,
			status:  domain.LyricsNotFound,
			message: "Lyrics not available",
		},
		{
			name:    "timeout",
			err:     fmt.Errorf("lrclib: %w", ports.ErrLyricsTimeout),
			status:  domain.LyricsTimeout,
			message: "Lyrics service is slow",
		},
		{
			name:    "other",
			err:     errors.New("bad gateway"),
			status:  domain.LyricsFailed,
			message: "Error loading lyrics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.lyrics.setResult("", tt.err)
			f.start(t)
			startPlaying(t, f, "a")

			f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})
			snap := f.waitFor(t, "lyrics settled", func(s Snapshot) bool {
				return lyricsStatus(s) == tt.status
			})

			if snap.Lyrics.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, snap.Lyrics.Message)
			}
		})
	}
}

func TestOpenLyrics_FetchCount(t *testing.T) {
	f := newFixture()
	f.start(t)
	startPlaying(t, f, "a")

	f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})
	f.waitFor(t, "lyrics loaded", func(s Snapshot) bool {
		return lyricsStatus(s) == domain.LyricsLoaded
	})

	f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})
	if got := f.lyrics.callCount(); got != 1 {
		t.Fatalf("expected reopening an open panel not to refetch, got %d fetches", got)
	}

	snap := f.mustDispatch(t, TogglePanelCommand{Panel: domain.PanelLyrics})
	if snap.Panel != domain.PanelNone || snap.Lyrics != nil {
		t.Fatalf("expected toggle to close the panel, got %v", snap.Panel)
	}

	f.mustDispatch(t, TogglePanelCommand{Panel: domain.PanelLyrics})
	f.waitFor(t, "second fetch", func(Snapshot) bool { return f.lyrics.callCount() == 2 })
}

func TestLyrics_FollowTrackChanges(t *testing.T) {
	f := newFixture()
	f.lyrics.hold("Song a")
	f.seedQueue(t, "b")
	f.start(t)
	startPlaying(t, f, "a")

	f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})
	f.waitFor(t, "first fetch", func(Snapshot) bool { return f.lyrics.callCount() == 1 })

	f.mustDispatch(t, NextCommand{})
	f.waitPlaying(t, "b")
	snap := f.waitFor(t, "lyrics for b", func(s Snapshot) bool {
		return s.Lyrics != nil && s.Lyrics.TrackID == "b" && s.Lyrics.Status == domain.LyricsLoaded
	})
	if call := f.lyrics.lastCall(); call.title != "Song b" {
		t.Errorf("expected fetch for Song b, got %+v", call)
	}

	// The superseded request for a was cancelled and must not replace b's view.
	snap = f.mustDispatch(t, SnapshotCommand{})
	if snap.Lyrics.TrackID != "b" {
		t.Errorf("expected lyrics view for b, got %q", snap.Lyrics.TrackID)
	}
}

func TestLyrics_CloseWhenPlaybackStops(t *testing.T) {
	f := newFixture()
	f.start(t)
	startPlaying(t, f, "a")
	f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})

	snap := f.mustDispatch(t, StopCommand{})

	if snap.Panel != domain.PanelNone || snap.Lyrics != nil {
		t.Errorf("expected lyrics panel closed, got %v", snap.Panel)
	}
}

func TestPanels_AreExclusive(t *testing.T) {
	f := newFixture()
	f.start(t)
	startPlaying(t, f, "a")

	f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelLyrics})
	snap := f.mustDispatch(t, OpenPanelCommand{Panel: domain.PanelQueue})

	if snap.Panel != domain.PanelQueue {
		t.Errorf("expected queue panel, got %v", snap.Panel)
	}
	if snap.Lyrics != nil {
		t.Error("expected lyrics view dropped when another panel opens")
	}

	snap = f.mustDispatch(t, ClosePanelCommand{Panel: domain.PanelPlaylists})
	if snap.Panel != domain.PanelQueue {
		t.Errorf("expected closing a closed panel to be a no-op, got %v", snap.Panel)
	}

	_, err := f.dispatch(t, OpenPanelCommand{Panel: domain.PanelNone})
	if !errors.Is(err, domain.ErrUnknownPanel) {
		t.Errorf("expected ErrUnknownPanel, got %v", err)
	}
}
