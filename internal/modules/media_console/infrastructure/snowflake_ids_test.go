package infrastructure

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

func TestSnowflakeIDs_StrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	g := &SnowflakeIDs{now: func() time.Time { return fixed }}

	var previous snowflake.ID
	for i := range 5 {
		id, err := snowflake.Parse(string(g.NextPlaylistID()))
		if err != nil {
			t.Fatalf("expected snowflake id, got error: %v", err)
		}
		if i > 0 && id <= previous {
			t.Fatalf("expected %d > %d", id, previous)
		}
		previous = id
	}
}

func TestSnowflakeIDs_ClockStepsBack(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	g := &SnowflakeIDs{now: func() time.Time { return now }}

	first, _ := snowflake.Parse(string(g.NextPlaylistID()))
	now = now.Add(-time.Hour)
	second, _ := snowflake.Parse(string(g.NextPlaylistID()))

	if second <= first {
		t.Errorf("expected %d > %d after clock moved back", second, first)
	}
}

func TestSnowflakeIDs_Seed(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	g := &SnowflakeIDs{now: func() time.Time { return now }}

	future := snowflake.New(now.Add(24 * time.Hour))
	g.Seed("not-a-number", domain.PlaylistID(future.String()))

	next, _ := snowflake.Parse(string(g.NextPlaylistID()))
	if next <= future {
		t.Errorf("expected id after seeded %d, got %d", future, next)
	}
}
