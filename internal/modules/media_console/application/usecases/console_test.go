package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

func TestConsole_HydratesFromStore(t *testing.T) {
	f := newFixture()
	f.seedQueue(t, "a", "b")
	f.store.values[PlaylistsStorageKey] = `[
		{"id": 1700000000000, "name": "Mix", "tracks": [{"id":"c","source":"youtube","title":"Song c"}]},
		{"id": "", "name": "Broken", "tracks": []}
	]`
	f.start(t)

	snap := f.mustDispatch(t, SnapshotCommand{})

	if !sameIDs(snap.Queue, "a", "b") {
		t.Errorf("expected queue [a b], got %v", trackIDs(snap.Queue))
	}
	if snap.NowPlaying != nil || snap.Phase != domain.PhaseIdle {
		t.Error("expected nothing playing after hydration")
	}
	if len(snap.Playlists) != 1 {
		t.Fatalf("expected one valid playlist, got %d", len(snap.Playlists))
	}
	p, ok := snap.Playlist("1700000000000")
	if !ok || !sameIDs(p.Tracks.Tracks(), "c") {
		t.Errorf("expected numeric playlist id to load, got %+v", snap.Playlists)
	}
}

func TestConsole_IgnoresUnreadableStore(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockStore)
	}{
		{
			name: "read error",
			setup: func(s *mockStore) {
				s.getErr = errors.New("storage disabled")
			},
		},
		{
			name: "malformed json",
			setup: func(s *mockStore) {
				s.values[QueueStorageKey] = "{not json"
				s.values[PlaylistsStorageKey] = `"nope"`
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f.store)
			f.start(t)

			snap := f.mustDispatch(t, SnapshotCommand{})
			if len(snap.Queue) != 0 || len(snap.Playlists) != 0 {
				t.Errorf("expected empty state, got %v / %d playlists",
					trackIDs(snap.Queue), len(snap.Playlists))
			}
		})
	}
}

func TestConsole_WriteFailuresDoNotAbort(t *testing.T) {
	f := newFixture()
	f.store.setErr = errors.New("quota exceeded")
	f.start(t)

	f.mustDispatch(t, EnqueueCommand{Track: mockTrack("a")})
	f.mustDispatch(t, CreatePlaylistCommand{Name: "Mix"})
	snap := f.waitPlaying(t, "a")

	if len(snap.Playlists) != 1 {
		t.Errorf("expected playlist in memory, got %d", len(snap.Playlists))
	}
}

func TestConsole_StateSurvivesRestart(t *testing.T) {
	f := newFixture()
	f.start(t)

	f.mustDispatch(t, PlayCommand{Track: mockTrack("p")})
	f.waitPlaying(t, "p")
	f.mustDispatch(t, EnqueueCommand{Track: mockTrack("a")})
	f.mustDispatch(t, EnqueueCommand{Track: mockTrack("b")})
	id := createPlaylist(t, f, "Mix", "c", "d")
	before := f.mustDispatch(t, SnapshotCommand{})

	restarted := newFixture()
	restarted.store = f.store
	restarted.start(t)
	after := restarted.mustDispatch(t, SnapshotCommand{})

	if !sameIDs(after.Queue, trackIDs(before.Queue)...) {
		t.Errorf("expected queue %v, got %v", trackIDs(before.Queue), trackIDs(after.Queue))
	}
	want, _ := before.Playlist(id)
	got, ok := after.Playlist(id)
	if !ok || got.Name != want.Name || !sameIDs(got.Tracks.Tracks(), "c", "d") {
		t.Errorf("expected playlist %+v, got %+v", want, got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("expected createdAt %v, got %v", want.CreatedAt, got.CreatedAt)
	}
}

func TestConsole_DispatchAfterShutdown(t *testing.T) {
	f := newFixture()
	c := NewConsole(f.cfg, ConsoleDependencies{
		Store:    f.store,
		Resolver: f.resolver,
		Sink:     f.sink,
		Lyrics:   f.lyrics,
		IDs:      &sequentialIDs{},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)
	cancel()

	select {
	case <-c.Done():
	case <-time.After(testTimeout):
		t.Fatal("console did not stop")
	}

	_, err := c.Dispatch(context.Background(), SnapshotCommand{})
	if !errors.Is(err, ErrConsoleClosed) {
		t.Errorf("expected ErrConsoleClosed, got %v", err)
	}
}

func TestConsole_DispatchHonorsCallerContext(t *testing.T) {
	f := newFixture()
	c := NewConsole(f.cfg, ConsoleDependencies{
		Store:    f.store,
		Resolver: f.resolver,
		Sink:     f.sink,
		Lyrics:   f.lyrics,
		IDs:      &sequentialIDs{},
	})

	// Not running: the command can never be applied.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Dispatch(ctx, SnapshotCommand{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
