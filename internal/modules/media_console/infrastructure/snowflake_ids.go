package infrastructure

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// SnowflakeIDs allocates playlist IDs as snowflakes. IDs are strictly
// increasing even when the clock stalls or steps back.
type SnowflakeIDs struct {
	mu   sync.Mutex
	last snowflake.ID
	now  func() time.Time
}

// Ensure SnowflakeIDs implements ports.PlaylistIDGenerator.
var _ ports.PlaylistIDGenerator = (*SnowflakeIDs)(nil)

// NewSnowflakeIDs creates a generator using the wall clock.
func NewSnowflakeIDs() *SnowflakeIDs {
	return &SnowflakeIDs{now: time.Now}
}

// Seed makes later IDs sort after the given existing ones. Unparseable IDs are ignored.
func (g *SnowflakeIDs) Seed(existing ...domain.PlaylistID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range existing {
		parsed, err := snowflake.Parse(string(id))
		if err != nil {
			continue
		}
		if parsed > g.last {
			g.last = parsed
		}
	}
}

// NextPlaylistID returns a new ID greater than every ID returned before.
func (g *SnowflakeIDs) NextPlaylistID() domain.PlaylistID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := snowflake.New(g.now())
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id

	return domain.PlaylistID(id.String())
}
