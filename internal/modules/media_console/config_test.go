package media_console

import (
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONSOLE_GUILD_ID", "123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GuildID != snowflake.ID(123) {
		t.Errorf("expected guild 123, got %d", cfg.GuildID)
	}
	if cfg.StoreBackend != StoreSQLite {
		t.Errorf("expected sqlite store, got %q", cfg.StoreBackend)
	}
	if cfg.StreamResolver != ResolverYtdlp {
		t.Errorf("expected ytdlp resolver, got %q", cfg.StreamResolver)
	}
	if cfg.ErrorGracePeriod != 3*time.Second {
		t.Errorf("expected 3s grace period, got %v", cfg.ErrorGracePeriod)
	}
	if cfg.NotificationTTL != 2*time.Second {
		t.Errorf("expected 2s notification TTL, got %v", cfg.NotificationTTL)
	}
	if cfg.LavalinkEnabled() {
		t.Error("expected Lavalink to be disabled")
	}
	policy, err := cfg.Policy()
	if err != nil || policy != domain.HistoryPolicyIgnore {
		t.Errorf("expected ignore policy, got %v (%v)", policy, err)
	}
}

func TestLoadConfig_MissingGuild(t *testing.T) {
	t.Setenv("CONSOLE_GUILD_ID", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for missing guild, got nil")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CONSOLE_GUILD_ID", "1")
	t.Setenv("CONSOLE_VOICE_CHANNEL_ID", "2")
	t.Setenv("LAVALINK_ADDRESS", "localhost:2333")
	t.Setenv("STREAM_RESOLVER", "http")
	t.Setenv("STREAM_BACKEND_URL", "http://backend")
	t.Setenv("PLAYBACK_ERROR_GRACE", "500ms")
	t.Setenv("QUEUE_HISTORY_POLICY", "reject")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.LavalinkEnabled() || cfg.VoiceChannelID != snowflake.ID(2) {
		t.Errorf("unexpected Lavalink settings %+v", cfg)
	}
	if cfg.ErrorGracePeriod != 500*time.Millisecond {
		t.Errorf("expected 500ms grace period, got %v", cfg.ErrorGracePeriod)
	}
	if policy, _ := cfg.Policy(); policy != domain.HistoryPolicyReject {
		t.Errorf("expected reject policy, got %v", policy)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			GuildID:        1,
			StoreBackend:   StoreSQLite,
			StreamResolver: ResolverYtdlp,
			HistoryPolicy:  "ignore",
		}
	}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:    "unknown store",
			modify:  func(c *Config) { c.StoreBackend = "redis" },
			wantErr: errUnknownStore,
		},
		{
			name:    "unknown resolver",
			modify:  func(c *Config) { c.StreamResolver = "grpc" },
			wantErr: errUnknownResolver,
		},
		{
			name:    "http resolver without backend",
			modify:  func(c *Config) { c.StreamResolver = ResolverHTTP },
			wantErr: errMissingBackendURL,
		},
		{
			name:    "lavalink without voice channel",
			modify:  func(c *Config) { c.LavalinkAddress = "localhost:2333" },
			wantErr: errMissingVoiceChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unknown history policy", func(t *testing.T) {
		cfg := valid()
		cfg.HistoryPolicy = "sometimes"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown policy, got nil")
		}
	})
}
