package discord

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the media console module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a track immediately without touching the queue",
			Options: []*discordgo.ApplicationCommandOption{
				queryOption(),
			},
		},
		{
			Name:        "enqueue",
			Description: "Add a track to the end of the queue",
			Options: []*discordgo.ApplicationCommandOption{
				queryOption(),
			},
		},
		{
			Name:        "next",
			Description: "Play the next track in the queue",
		},
		{
			Name:        "previous",
			Description: "Play the previous track from the history",
		},
		{
			Name:        "stop",
			Description: "Stop playback",
		},
		{
			Name:        "queue",
			Description: "Manage the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the queue and the history",
				},
				positionSubCommand("remove", "Remove a track from the queue"),
				positionSubCommand("up", "Move a track one position up"),
				positionSubCommand("down", "Move a track one position down"),
				positionSubCommand("jump", "Play a track, skipping the ones before it"),
				positionSubCommand("select", "Select or deselect a queue row"),
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Clear the queue and the history",
				},
			},
		},
		{
			Name:        "playlist",
			Description: "Manage playlists",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all playlists",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the tracks of a playlist",
					Options: []*discordgo.ApplicationCommandOption{
						playlistOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create an empty playlist",
					Options: []*discordgo.ApplicationCommandOption{
						nameOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a playlist",
					Options: []*discordgo.ApplicationCommandOption{
						playlistOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rename",
					Description: "Rename a playlist",
					Options: []*discordgo.ApplicationCommandOption{
						playlistOption(),
						nameOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a track to a playlist",
					Options: []*discordgo.ApplicationCommandOption{
						playlistOption(),
						queryOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a track from a playlist",
					Options: []*discordgo.ApplicationCommandOption{
						playlistOption(),
						positionOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "load",
					Description: "Add every track of a playlist to the queue",
					Options: []*discordgo.ApplicationCommandOption{
						playlistOption(),
					},
				},
			},
		},
		{
			Name:        "panel",
			Description: "Open or close a side panel",
			Options: []*discordgo.ApplicationCommandOption{
				panelSubCommand("open", "Open a panel, closing the others"),
				panelSubCommand("close", "Close a panel"),
				panelSubCommand("toggle", "Open a closed panel or close an open one"),
			},
		},
	}
}

func queryOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "query",
		Description: "URL or search term",
		Required:    true,
	}
}

func nameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "name",
		Description: "Playlist name",
		Required:    true,
	}
}

func playlistOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "playlist",
		Description:  "Playlist",
		Required:     true,
		Autocomplete: true,
	}
}

func positionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "position",
		Description: "Position of the track (1-indexed, as shown in the list)",
		Required:    true,
		MinValue:    floatPtr(1),
	}
}

func positionSubCommand(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			positionOption(),
		},
	}
}

func panelSubCommand(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "panel",
				Description: "Panel",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Queue", Value: "queue"},
					{Name: "Lyrics", Value: "lyrics"},
					{Name: "Playlists", Value: "playlists"},
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
