package infrastructure

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
)

// DefaultNotificationTTL is how long a notification stays in the channel.
const DefaultNotificationTTL = 2 * time.Second

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorInfo    = 0x3498DB
	colorWarning = 0xF1C40F
	colorError   = 0xE74C3C
)

// messageClient is the subset of *discordgo.Session used to post messages.
type messageClient interface {
	ChannelMessageSendEmbed(
		channelID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ChannelMessageEditEmbed(
		channelID, messageID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ChannelMessageDelete(
		channelID, messageID string,
		options ...discordgo.RequestOption,
	) error
}

// DiscordNotifier posts notifications to a text channel and deletes them
// after a TTL.
type DiscordNotifier struct {
	client    messageClient
	channelID snowflake.ID
	ttl       time.Duration
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// Ensure DiscordNotifier implements ports.NotificationSink.
var _ ports.NotificationSink = (*DiscordNotifier)(nil)

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(
	client messageClient,
	channelID snowflake.ID,
	ttl time.Duration,
) *DiscordNotifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &DiscordNotifier{
		client:    client,
		channelID: channelID,
		ttl:       ttl,
		afterFunc: time.AfterFunc,
	}
}

// Notify sends the notification without blocking the caller.
func (n *DiscordNotifier) Notify(notification ports.Notification) {
	go n.send(notification)
}

func (n *DiscordNotifier) send(notification ports.Notification) {
	embed := &discordgo.MessageEmbed{
		Description: notification.Message,
		Color:       notificationColor(notification.Level),
	}

	msg, err := n.client.ChannelMessageSendEmbed(n.channelID.String(), embed)
	if err != nil {
		slog.Warn("failed to send notification",
			"channel", n.channelID,
			"level", notification.Level,
			"error", err,
		)
		return
	}

	n.afterFunc(n.ttl, func() {
		if err := n.client.ChannelMessageDelete(n.channelID.String(), msg.ID); err != nil {
			slog.Debug("failed to delete notification", "message", msg.ID, "error", err)
		}
	})
}

func notificationColor(level ports.NotificationLevel) int {
	switch level {
	case ports.NotificationSuccess:
		return colorSuccess
	case ports.NotificationWarning:
		return colorWarning
	case ports.NotificationError:
		return colorError
	default:
		return colorInfo
	}
}
