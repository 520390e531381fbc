package domain

import (
	"errors"
	"testing"
)

func TestPanelCoordinator_Open_IsExclusive(t *testing.T) {
	c := NewPanelCoordinator()

	changed, err := c.Open(PanelQueue, false)
	if err != nil || !changed {
		t.Fatalf("expected queue to open, got changed=%v err=%v", changed, err)
	}

	changed, err = c.Open(PanelPlaylists, false)
	if err != nil || !changed {
		t.Fatalf("expected playlists to open, got changed=%v err=%v", changed, err)
	}

	if c.IsOpen(PanelQueue) {
		t.Error("expected queue to be closed after opening playlists")
	}
	if c.Current() != PanelPlaylists {
		t.Errorf("expected playlists, got %v", c.Current())
	}
}

func TestPanelCoordinator_Open_LyricsNeedsTrack(t *testing.T) {
	c := NewPanelCoordinator()
	_, _ = c.Open(PanelQueue, false)

	_, err := c.Open(PanelLyrics, false)
	if !errors.Is(err, ErrNothingPlaying) {
		t.Fatalf("expected ErrNothingPlaying, got %v", err)
	}
	if c.Current() != PanelQueue {
		t.Errorf("expected state unchanged, got %v", c.Current())
	}

	changed, err := c.Open(PanelLyrics, true)
	if err != nil || !changed {
		t.Errorf("expected lyrics to open, got changed=%v err=%v", changed, err)
	}
}

func TestPanelCoordinator_Open_SamePanelIsNoChange(t *testing.T) {
	c := NewPanelCoordinator()
	_, _ = c.Open(PanelLyrics, true)

	changed, err := c.Open(PanelLyrics, true)
	if err != nil || changed {
		t.Errorf("expected no change, got changed=%v err=%v", changed, err)
	}
}

func TestPanelCoordinator_Close(t *testing.T) {
	c := NewPanelCoordinator()
	_, _ = c.Open(PanelQueue, false)

	if c.Close(PanelLyrics) {
		t.Error("expected closing a closed panel to report false")
	}
	if !c.Close(PanelQueue) {
		t.Error("expected closing the open panel to report true")
	}
	if c.Current() != PanelNone {
		t.Errorf("expected none, got %v", c.Current())
	}
}

func TestParsePanel(t *testing.T) {
	tests := []struct {
		input   string
		want    Panel
		wantErr bool
	}{
		{"queue", PanelQueue, false},
		{"Lyrics", PanelLyrics, false},
		{" playlists ", PanelPlaylists, false},
		{"settings", PanelNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePanel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if err != nil && !errors.Is(err, ErrUnknownPanel) {
				t.Errorf("expected ErrUnknownPanel, got %v", err)
			}
		})
	}
}
