package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

func TestTrackStore_Queue(t *testing.T) {
	ctx := context.Background()
	backing := newMockStore()
	store := NewTrackStore(backing)

	if got := store.LoadQueue(ctx); got != nil {
		t.Fatalf("expected nil queue from empty store, got %v", trackIDs(got))
	}

	store.SaveQueue(ctx, []domain.Track{mockTrack("a"), mockTrack("b")})
	if got := store.LoadQueue(ctx); !sameIDs(got, "a", "b") {
		t.Errorf("expected [a b], got %v", trackIDs(got))
	}

	store.SaveQueue(ctx, nil)
	if got := backing.value(QueueStorageKey); got != "[]" {
		t.Errorf("expected empty queue stored as [], got %s", got)
	}
}

func TestTrackStore_LoadQueueDropsInvalidEntries(t *testing.T) {
	backing := newMockStore()
	backing.values[QueueStorageKey] = `[
		{"id":"a","source":"youtube","title":"Song a"},
		{"id":"","source":"youtube","title":"No id"},
		{"id":"b","source":"youtube","title":"  "},
		{"id":"a","source":"youtube","title":"Song a again"},
		{"id":"c","source":"soundcloud","title":"Song c"}
	]`

	got := NewTrackStore(backing).LoadQueue(context.Background())

	if !sameIDs(got, "a", "c") {
		t.Errorf("expected [a c], got %v", trackIDs(got))
	}
}

func TestTrackStore_Playlists(t *testing.T) {
	ctx := context.Background()
	backing := newMockStore()
	store := NewTrackStore(backing)

	store.SavePlaylists(ctx, nil)
	if got := backing.value(PlaylistsStorageKey); got != "[]" {
		t.Errorf("expected empty playlists stored as [], got %s", got)
	}

	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	p, err := domain.NewPlaylist("42", "Mix", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddTrack(mockTrack("a"), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.SavePlaylists(ctx, []domain.Playlist{*p})
	got := store.LoadPlaylists(ctx)

	if len(got) != 1 || got[0].ID != "42" || got[0].Name != "Mix" {
		t.Fatalf("expected playlist 42/Mix, got %+v", got)
	}
	if !sameIDs(got[0].Tracks.Tracks(), "a") {
		t.Errorf("expected tracks [a], got %v", trackIDs(got[0].Tracks.Tracks()))
	}
}
