package infrastructure

import (
	"errors"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type sentEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
}

// fakeMessageClient records the messages sent, edited and deleted.
type fakeMessageClient struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentEmbed
	edited   map[string]*discordgo.MessageEmbed
	deleted  []string
	sendErr  error
	editErr  error
	onDelete func()
}

func newFakeMessageClient() *fakeMessageClient {
	return &fakeMessageClient{edited: make(map[string]*discordgo.MessageEmbed)}
}

func (f *fakeMessageClient) ChannelMessageSendEmbed(
	channelID string,
	embed *discordgo.MessageEmbed,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentEmbed{channelID: channelID, embed: embed})
	return &discordgo.Message{ID: strconv.Itoa(f.nextID), ChannelID: channelID}, nil
}

func (f *fakeMessageClient) ChannelMessageEditEmbed(
	_, messageID string,
	embed *discordgo.MessageEmbed,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edited[messageID] = embed
	return &discordgo.Message{ID: messageID}, nil
}

func (f *fakeMessageClient) ChannelMessageDelete(
	_, messageID string,
	_ ...discordgo.RequestOption,
) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, messageID)
	onDelete := f.onDelete
	f.mu.Unlock()
	if onDelete != nil {
		onDelete()
	}
	return nil
}

func (f *fakeMessageClient) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMessageClient) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

var errDiscordUnavailable = errors.New("discord unavailable")
