package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
)

// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
const voiceConnectionTimeout = 10 * time.Second

var (
	// ErrNoLavalinkNode is returned when no Lavalink node is available.
	ErrNoLavalinkNode = errors.New("no available Lavalink node")

	errTrackLoadFailed = errors.New("track failed to load")
	errTrackStuck      = errors.New("track stuck")
)

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address        string
	Password       string
	Secure         bool
	GuildID        snowflake.ID
	VoiceChannelID snowflake.ID
}

// LavalinkSink plays stream URLs into a Discord voice channel through Lavalink.
// The voice channel is joined on the first Play.
type LavalinkSink struct {
	link      disgolink.Client
	session   *discordgo.Session
	botID     snowflake.ID
	guildID   snowflake.ID
	channelID snowflake.ID

	voiceMu   sync.Mutex
	handshake *voiceHandshake
	connected bool

	mu       sync.Mutex
	listener ports.MediaListener
	loaded   string
}

// Ensure LavalinkSink implements ports.MediaSink.
var _ ports.MediaSink = (*LavalinkSink)(nil)

// NewLavalinkSink connects to the Lavalink node.
func NewLavalinkSink(
	ctx context.Context,
	session *discordgo.Session,
	config LavalinkConfig,
) (*LavalinkSink, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	sink := &LavalinkSink{
		session:   session,
		botID:     botID,
		guildID:   config.GuildID,
		channelID: config.VoiceChannelID,
	}

	sink.link = disgolink.New(botID,
		disgolink.WithListenerFunc(sink.onTrackEnd),
		disgolink.WithListenerFunc(sink.onTrackException),
		disgolink.WithListenerFunc(sink.onTrackStuck),
	)

	node, err := sink.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return sink, nil
}

// SetListener registers the callbacks for track end and failure.
func (s *LavalinkSink) SetListener(listener ports.MediaListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
}

// SetSource loads url into the player, paused. An empty url stops the player.
func (s *LavalinkSink) SetSource(ctx context.Context, url string) error {
	if url == "" {
		s.setLoaded("")
		player := s.link.ExistingPlayer(s.guildID)
		if player == nil {
			return nil
		}
		if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
			return fmt.Errorf("failed to stop playback: %w", err)
		}
		return nil
	}

	encoded, err := s.loadTrack(ctx, url)
	if err != nil {
		return err
	}

	s.setLoaded(encoded)
	player := s.link.Player(s.guildID)
	// WithEncodedTrack avoids the userData:null issue
	if err := player.Update(ctx, lavalink.WithEncodedTrack(encoded), lavalink.WithPaused(true)); err != nil {
		return fmt.Errorf("failed to load track: %w", err)
	}
	return nil
}

// Play joins the voice channel if needed and resumes the loaded track.
func (s *LavalinkSink) Play(ctx context.Context) error {
	if err := s.ensureVoice(ctx); err != nil {
		return err
	}
	if err := s.link.Player(s.guildID).Update(ctx, lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}
	return nil
}

// Pause pauses the player.
func (s *LavalinkSink) Pause(ctx context.Context) error {
	player := s.link.ExistingPlayer(s.guildID)
	if player == nil {
		return nil
	}
	if err := player.Update(ctx, lavalink.WithPaused(true)); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	return nil
}

// Close destroys the player, leaves the voice channel and disconnects from Lavalink.
func (s *LavalinkSink) Close(ctx context.Context) {
	if player := s.link.ExistingPlayer(s.guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", s.guildID, "error", err)
		}
	}
	if err := s.session.ChannelVoiceJoinManual(s.guildID.String(), "", false, false); err != nil {
		slog.Warn("failed to leave voice channel", "guild", s.guildID, "error", err)
	}
	s.link.Close()
}

func (s *LavalinkSink) loadTrack(ctx context.Context, url string) (string, error) {
	node := s.link.BestNode()
	if node == nil {
		return "", ErrNoLavalinkNode
	}

	result, err := node.LoadTracks(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to load tracks: %w", err)
	}
	return encodedTrack(result)
}

// encodedTrack picks the track to play from a load result.
func encodedTrack(result *lavalink.LoadResult) (string, error) {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return data.Encoded, nil
	case lavalink.Search:
		if len(data) > 0 {
			return data[0].Encoded, nil
		}
	case lavalink.Playlist:
		if len(data.Tracks) > 0 {
			return data.Tracks[0].Encoded, nil
		}
	case lavalink.Exception:
		return "", fmt.Errorf("%w: %s", ports.ErrStreamUnavailable, data.Message)
	}
	return "", fmt.Errorf("%w: nothing to play", ports.ErrStreamUnavailable)
}

func (s *LavalinkSink) ensureVoice(ctx context.Context) error {
	s.voiceMu.Lock()
	if s.connected {
		s.voiceMu.Unlock()
		return nil
	}
	handshake := newVoiceHandshake()
	s.handshake = handshake
	s.voiceMu.Unlock()

	err := s.session.ChannelVoiceJoinManual(s.guildID.String(), s.channelID.String(), false, false)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	select {
	case <-handshake.Ready():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return errors.New("timeout waiting for voice connection")
	}
}

func (s *LavalinkSink) currentHandshake() *voiceHandshake {
	s.voiceMu.Lock()
	defer s.voiceMu.Unlock()
	if s.handshake == nil {
		s.handshake = newVoiceHandshake()
	}
	return s.handshake
}

// OnVoiceStateUpdate handles Discord voice state updates.
// This must be called from the Discord event handler.
func (s *LavalinkSink) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != s.botID.String() || event.GuildID != s.guildID.String() {
		return
	}

	if event.ChannelID == "" {
		s.link.OnVoiceStateUpdate(context.Background(), s.guildID, nil, event.SessionID)
		s.voiceMu.Lock()
		s.connected = false
		s.handshake = nil
		s.voiceMu.Unlock()
		slog.Info("left voice channel", "guild", s.guildID)
		return
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		slog.Error("failed to parse channel ID in voice state update", "error", err)
		return
	}

	if creds, ok := s.currentHandshake().setState(&channelID, event.SessionID); ok {
		s.forward(creds)
	}
}

// OnVoiceServerUpdate handles Discord voice server updates.
// This must be called from the Discord event handler.
func (s *LavalinkSink) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	if event.GuildID != s.guildID.String() {
		return
	}

	if creds, ok := s.currentHandshake().setServer(event.Token, event.Endpoint); ok {
		s.forward(creds)
	}
}

func (s *LavalinkSink) forward(creds voiceCredentials) {
	slog.Debug("forwarding voice credentials to Lavalink",
		"guild", s.guildID,
		"channel", creds.channelID,
		"hasSessionID", creds.sessionID != "",
	)

	s.link.OnVoiceStateUpdate(context.Background(), s.guildID, creds.channelID, creds.sessionID)
	s.link.OnVoiceServerUpdate(context.Background(), s.guildID, creds.token, creds.endpoint)

	s.voiceMu.Lock()
	s.connected = true
	s.voiceMu.Unlock()
}

func (s *LavalinkSink) setLoaded(encoded string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = encoded
}

// current returns the listener if encoded is the loaded track. Events for
// tracks that were replaced or stopped are ignored.
func (s *LavalinkSink) current(encoded string) (ports.MediaListener, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener, s.loaded != "" && s.loaded == encoded
}

func (s *LavalinkSink) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	listener, ok := s.current(event.Track.Encoded)
	if !ok {
		return
	}

	switch event.Reason {
	case lavalink.TrackEndReasonFinished:
		s.setLoaded("")
		if listener.OnEnded != nil {
			listener.OnEnded()
		}
	case lavalink.TrackEndReasonLoadFailed:
		if listener.OnError != nil {
			listener.OnError(errTrackLoadFailed)
		}
	}
}

func (s *LavalinkSink) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)

	if listener, ok := s.current(event.Track.Encoded); ok && listener.OnError != nil {
		listener.OnError(errors.New(event.Exception.Message))
	}
}

func (s *LavalinkSink) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)

	if listener, ok := s.current(event.Track.Encoded); ok && listener.OnError != nil {
		listener.OnError(errTrackStuck)
	}
}
