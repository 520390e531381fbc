package media_console

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"github.com/sglre6355/heimdall/internal/bot"
	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/application/usecases"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
	"github.com/sglre6355/heimdall/internal/modules/media_console/infrastructure"
	"github.com/sglre6355/heimdall/internal/modules/media_console/presentation/discord"
)

var errConfigNotLoaded = errors.New("media_console configuration not loaded")

// shutdownTimeout bounds how long Shutdown waits for the console loop to stop.
const shutdownTimeout = 5 * time.Second

func init() {
	bot.Register(&MediaConsoleModule{})
}

// Compile-time interface checks.
var (
	_ bot.ConfigurableModule = (*MediaConsoleModule)(nil)
	_ bot.AutocompleteModule = (*MediaConsoleModule)(nil)
)

// MediaConsoleModule provides the media console: queue, playback, playlists and panels.
type MediaConsoleModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers

	console      *usecases.Console
	closeStore   func() error
	eventBus     *infrastructure.ChannelEventBus
	lavalinkSink *infrastructure.LavalinkSink

	// Context for the console loop
	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MediaConsoleModule) Name() string {
	return "media_console"
}

// Commands returns the slash commands for this module.
func (m *MediaConsoleModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MediaConsoleModule) CommandHandlers() map[string]bot.InteractionHandler {
	return m.commandHandlers.Handlers()
}

// AutocompleteHandlers returns the autocomplete handlers for this module.
func (m *MediaConsoleModule) AutocompleteHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"playlist": m.commandHandlers.HandleAutocomplete,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MediaConsoleModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.lavalinkSink != nil {
				m.lavalinkSink.OnVoiceServerUpdate(event)
			}
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.lavalinkSink != nil {
				m.lavalinkSink.OnVoiceStateUpdate(event)
			}
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MediaConsoleModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init builds the adapters, starts the console loop and creates the handlers.
func (m *MediaConsoleModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		return errConfigNotLoaded
	}

	policy, err := m.config.Policy()
	if err != nil {
		return err
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	store, err := m.openStore()
	if err != nil {
		m.cancel()
		return err
	}

	ids := infrastructure.NewSnowflakeIDs()
	existing := usecases.NewTrackStore(store).LoadPlaylists(m.ctx)
	ids.Seed(lo.Map(existing, func(p domain.Playlist, _ int) domain.PlaylistID {
		return p.ID
	})...)

	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	sink, err := m.newSink(deps.Session)
	if err != nil {
		_ = m.Shutdown()
		return err
	}

	notifier, err := m.newNotifier(deps.Session)
	if err != nil {
		_ = m.Shutdown()
		return err
	}

	lyrics := infrastructure.NewLyricsClient(infrastructure.LyricsConfig{
		Timeout:    m.config.LyricsTimeout,
		RatePerSec: m.config.LyricsRateLimit,
	}, &http.Client{Timeout: 2 * m.config.LyricsTimeout})

	m.console = usecases.NewConsole(
		usecases.ConsoleConfig{
			ErrorGracePeriod: m.config.ErrorGracePeriod,
			HistoryPolicy:    policy,
		},
		usecases.ConsoleDependencies{
			Store:     store,
			Resolver:  m.newResolver(),
			Sink:      sink,
			Lyrics:    lyrics,
			Notifier:  notifier,
			Publisher: m.eventBus,
			IDs:       ids,
		},
	)
	go m.console.Run(m.ctx)

	m.commandHandlers = discord.NewCommandHandlers(m.console, infrastructure.NewYtdlpCatalog())

	slog.Info("media_console module initialized",
		"guild", m.config.GuildID,
		"store", m.config.StoreBackend,
		"resolver", m.config.StreamResolver,
		"lavalink", m.lavalinkSink != nil,
		"playlists", len(existing),
	)

	return nil
}

func (m *MediaConsoleModule) openStore() (ports.DurableStore, error) {
	if m.config.StoreBackend == StoreMemory {
		slog.Warn("using in-memory store, the queue and playlists will not survive a restart")
		m.closeStore = func() error { return nil }
		return infrastructure.NewMemoryStore(), nil
	}

	store, err := infrastructure.NewSQLiteStore(m.ctx, m.config.StorePath)
	if err != nil {
		return nil, err
	}
	m.closeStore = store.Close
	return store, nil
}

func (m *MediaConsoleModule) newSink(session *discordgo.Session) (ports.MediaSink, error) {
	if !m.config.LavalinkEnabled() || session == nil {
		slog.Warn("Lavalink not configured, playing without audio output")
		return infrastructure.NewDetachedSink(), nil
	}

	sink, err := infrastructure.NewLavalinkSink(m.ctx, session, infrastructure.LavalinkConfig{
		Address:        m.config.LavalinkAddress,
		Password:       m.config.LavalinkPassword,
		Secure:         m.config.LavalinkSecure,
		GuildID:        m.config.GuildID,
		VoiceChannelID: m.config.VoiceChannelID,
	})
	if err != nil {
		return nil, err
	}
	m.lavalinkSink = sink
	return sink, nil
}

func (m *MediaConsoleModule) newNotifier(session *discordgo.Session) (ports.NotificationSink, error) {
	if m.config.NotificationChannelID == 0 || session == nil {
		return infrastructure.NewLogNotifier(nil), nil
	}

	mirror := infrastructure.NewNowPlayingMirror(session, m.config.NotificationChannelID)
	if err := mirror.Subscribe(m.eventBus); err != nil {
		return nil, err
	}

	return infrastructure.NewDiscordNotifier(
		session,
		m.config.NotificationChannelID,
		m.config.NotificationTTL,
	), nil
}

func (m *MediaConsoleModule) newResolver() ports.StreamResolver {
	if m.config.StreamResolver == ResolverHTTP {
		return infrastructure.NewHTTPResolver(m.config.StreamBackendURL, &http.Client{
			Timeout: 15 * time.Second,
		})
	}
	return infrastructure.NewYtdlpResolver()
}

// Shutdown stops the console loop and releases the adapters.
func (m *MediaConsoleModule) Shutdown() error {
	// Cancel context first to stop the console loop
	if m.cancel != nil {
		m.cancel()
	}

	if m.console != nil {
		select {
		case <-m.console.Done():
		case <-time.After(shutdownTimeout):
			slog.Warn("timed out waiting for the console loop to stop")
		}
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}

	if m.lavalinkSink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		m.lavalinkSink.Close(ctx)
	}

	if m.closeStore != nil {
		return m.closeStore()
	}

	return nil
}
