package media_console

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Stream resolver backends.
const (
	ResolverYtdlp = "ytdlp"
	ResolverHTTP  = "http"
)

var (
	errUnknownStore        = errors.New("unknown store backend")
	errUnknownResolver     = errors.New("unknown stream resolver")
	errMissingBackendURL   = errors.New("STREAM_BACKEND_URL is required for the http resolver")
	errMissingVoiceChannel = errors.New("CONSOLE_VOICE_CHANNEL_ID is required when Lavalink is configured")
)

// Config holds the media console module configuration.
type Config struct {
	GuildID               snowflake.ID `env:"CONSOLE_GUILD_ID,notEmpty"`
	VoiceChannelID        snowflake.ID `env:"CONSOLE_VOICE_CHANNEL_ID"`
	NotificationChannelID snowflake.ID `env:"CONSOLE_NOTIFICATION_CHANNEL_ID"`

	LavalinkAddress  string `env:"LAVALINK_ADDRESS"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"`

	StoreBackend     string `env:"CONSOLE_STORE"       envDefault:"sqlite"`
	StorePath        string `env:"CONSOLE_STORE_PATH"  envDefault:"heimdall.db"`
	StreamResolver   string `env:"STREAM_RESOLVER"     envDefault:"ytdlp"`
	StreamBackendURL string `env:"STREAM_BACKEND_URL"`

	ErrorGracePeriod time.Duration `env:"PLAYBACK_ERROR_GRACE" envDefault:"3s"`
	NotificationTTL  time.Duration `env:"NOTIFICATION_TTL"     envDefault:"2s"`
	LyricsTimeout    time.Duration `env:"LYRICS_TIMEOUT"       envDefault:"5s"`
	LyricsRateLimit  float64       `env:"LYRICS_RATE_LIMIT"    envDefault:"2"`
	HistoryPolicy    string        `env:"QUEUE_HISTORY_POLICY" envDefault:"ignore"`
}

// LoadConfig loads the configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations env tags cannot express.
func (c *Config) Validate() error {
	if c.StoreBackend != StoreSQLite && c.StoreBackend != StoreMemory {
		return fmt.Errorf("%w: %q", errUnknownStore, c.StoreBackend)
	}

	switch c.StreamResolver {
	case ResolverYtdlp:
	case ResolverHTTP:
		if c.StreamBackendURL == "" {
			return errMissingBackendURL
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownResolver, c.StreamResolver)
	}

	if c.LavalinkEnabled() && c.VoiceChannelID == 0 {
		return errMissingVoiceChannel
	}

	if _, err := c.Policy(); err != nil {
		return err
	}

	return nil
}

// LavalinkEnabled reports whether audio output through Lavalink is configured.
func (c *Config) LavalinkEnabled() bool {
	return c.LavalinkAddress != ""
}

// Policy returns the parsed queue history policy.
func (c *Config) Policy() (domain.HistoryPolicy, error) {
	return domain.ParseHistoryPolicy(c.HistoryPolicy)
}
