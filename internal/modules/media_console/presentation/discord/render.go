package discord

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/usecases"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorInfo    = 0x3498DB
	colorError   = 0xE74C3C
	colorPanel   = 0x5865F2
)

const (
	// maxListedTracks is the number of rows shown in a track list before truncating.
	maxListedTracks = 20

	// maxListedHistory is the number of history entries shown in the queue panel.
	maxListedHistory = 5

	// maxDescriptionLength is Discord's embed description limit.
	maxDescriptionLength = 4096
)

func renderQueue(snap usecases.Snapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Queue",
		Color: colorPanel,
	}

	if title := snap.PlayerTitle(); title != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  playerHeading(snap.Phase),
			Value: fmt.Sprintf("**%s**\n%s", title, snap.PlayerSubtitle()),
		})
	}

	if len(snap.Queue) == 0 {
		embed.Description = "Queue is empty"
	} else {
		var sb strings.Builder
		for i, track := range snap.Queue {
			if i == maxListedTracks {
				fmt.Fprintf(&sb, "...and %d more", len(snap.Queue)-maxListedTracks)
				break
			}
			line := trackLine(i+1, track)
			if i == snap.Selected {
				line = "**" + line + "**"
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		embed.Description = truncate(sb.String())
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d tracks in queue", len(snap.Queue)),
		}
	}

	if len(snap.History) > 0 {
		start := max(0, len(snap.History)-maxListedHistory)
		lines := make([]string, 0, len(snap.History)-start)
		for i := len(snap.History) - 1; i >= start; i-- {
			lines = append(lines, trackLabel(snap.History[i]))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Recently Played",
			Value: strings.Join(lines, "\n"),
		})
	}

	return embed
}

func renderPlaylists(snap usecases.Snapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Playlists",
		Color: colorPanel,
	}

	if len(snap.Playlists) == 0 {
		embed.Description = "No playlists yet"
		return embed
	}

	var sb strings.Builder
	for _, p := range snap.Playlists {
		fmt.Fprintf(&sb, "**%s** (%s) `%s`\n", p.Name, trackCount(p.Tracks.Len()), p.ID)
	}
	embed.Description = truncate(sb.String())
	return embed
}

func renderPlaylist(p domain.Playlist) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: p.Name,
		Color: colorPanel,
		Footer: &discordgo.MessageEmbedFooter{
			Text: trackCount(p.Tracks.Len()),
		},
	}

	tracks := p.Tracks.Tracks()
	if len(tracks) == 0 {
		embed.Description = "This playlist is empty"
		return embed
	}

	var sb strings.Builder
	for i, track := range tracks {
		if i == maxListedTracks {
			fmt.Fprintf(&sb, "...and %d more", len(tracks)-maxListedTracks)
			break
		}
		sb.WriteString(trackLine(i+1, track))
		sb.WriteString("\n")
	}
	embed.Description = truncate(sb.String())
	return embed
}

func renderLyrics(snap usecases.Snapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Lyrics",
		Color: colorPanel,
	}

	view := snap.Lyrics
	if view == nil {
		embed.Description = "Nothing is playing"
		return embed
	}

	embed.Title = view.Info.Title
	embed.Author = &discordgo.MessageEmbedAuthor{Name: view.Info.Artist}

	if view.Status == domain.LyricsLoaded {
		embed.Description = truncate(strings.Join(view.Lines, "\n"))
		return embed
	}

	embed.Description = view.Message
	if view.Detail != "" {
		embed.Description += "\n" + view.Detail
	}
	return embed
}

func renderPanel(snap usecases.Snapshot) *discordgo.MessageEmbed {
	switch snap.Panel {
	case domain.PanelQueue:
		return renderQueue(snap)
	case domain.PanelLyrics:
		return renderLyrics(snap)
	case domain.PanelPlaylists:
		return renderPlaylists(snap)
	default:
		return successEmbed("All panels are closed.")
	}
}

func playerHeading(phase domain.PlaybackPhase) string {
	switch phase {
	case domain.PhaseResolving:
		return "Loading"
	case domain.PhaseErrored:
		return "Error"
	default:
		return "Now Playing"
	}
}

func trackLine(position int, track domain.Track) string {
	line := fmt.Sprintf("%d. %s", position, trackLabel(track))
	if duration := track.FormattedDuration(); duration != "" {
		line += fmt.Sprintf(" `%s`", duration)
	}
	return line
}

func trackLabel(track domain.Track) string {
	if track.Artist == "" {
		return track.Title
	}
	return fmt.Sprintf("%s - %s", track.Title, track.Artist)
}

func trackCount(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}

func truncate(s string) string {
	if len(s) <= maxDescriptionLength {
		return s
	}
	cut := maxDescriptionLength - len("...")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func successEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	}
}

func infoEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: description,
		Color:       colorInfo,
	}
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}
}
