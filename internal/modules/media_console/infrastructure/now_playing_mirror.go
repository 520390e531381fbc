package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// NowPlayingMirror keeps a single "Now Playing" message in a text channel in
// sync with the player slot. The message is edited while a track is loaded
// and deleted when the session goes idle.
type NowPlayingMirror struct {
	client    messageClient
	channelID snowflake.ID

	mu        sync.Mutex
	messageID string
}

// NewNowPlayingMirror creates a new NowPlayingMirror.
func NewNowPlayingMirror(client messageClient, channelID snowflake.ID) *NowPlayingMirror {
	return &NowPlayingMirror{client: client, channelID: channelID}
}

// Subscribe registers the mirror with the event bus.
func (m *NowPlayingMirror) Subscribe(subscriber ports.EventSubscriber) error {
	err := subscriber.Subscribe(
		reflect.TypeFor[domain.NowPlayingChangedEvent](),
		m.handleNowPlayingChanged,
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe now playing mirror: %w", err)
	}
	return nil
}

func (m *NowPlayingMirror) handleNowPlayingChanged(_ context.Context, event domain.Event) {
	changed, ok := event.(domain.NowPlayingChangedEvent)
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if changed.Track == nil {
		m.deleteMessage()
		return
	}

	embed := nowPlayingEmbed(*changed.Track, changed.Phase)

	if m.messageID != "" {
		_, err := m.client.ChannelMessageEditEmbed(m.channelID.String(), m.messageID, embed)
		if err == nil {
			return
		}
		slog.Debug("failed to edit now playing message, sending a new one",
			"message", m.messageID,
			"error", err,
		)
		m.messageID = ""
	}

	msg, err := m.client.ChannelMessageSendEmbed(m.channelID.String(), embed)
	if err != nil {
		slog.Warn("failed to send now playing message", "channel", m.channelID, "error", err)
		return
	}
	m.messageID = msg.ID
}

func (m *NowPlayingMirror) deleteMessage() {
	if m.messageID == "" {
		return
	}
	if err := m.client.ChannelMessageDelete(m.channelID.String(), m.messageID); err != nil {
		slog.Debug("failed to delete now playing message", "message", m.messageID, "error", err)
	}
	m.messageID = ""
}

func nowPlayingEmbed(track domain.Track, phase domain.PlaybackPhase) *discordgo.MessageEmbed {
	if phase == domain.PhaseErrored {
		return &discordgo.MessageEmbed{
			Title:       "Error Playing Track",
			Description: track.Title,
			Color:       colorError,
		}
	}

	author := "Now Playing"
	if phase == domain.PhaseResolving {
		author = "Loading"
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{Name: author},
		Title:  track.Title,
		Color:  track.Source.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artist",
				Value:  track.Artist,
				Inline: true,
			},
		},
	}
	if track.Source == domain.TrackSourceYouTube {
		embed.URL = string(track.ID)
	}

	if duration := track.FormattedDuration(); duration != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Duration",
			Value:  duration,
			Inline: true,
		})
	}

	if track.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: track.Image}
	}

	return embed
}
