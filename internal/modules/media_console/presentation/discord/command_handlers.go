package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"github.com/sglre6355/heimdall/internal/bot"
	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/application/usecases"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

const (
	// dispatchTimeout bounds how long a handler waits for the console loop.
	dispatchTimeout = 5 * time.Second

	// lookupTimeout bounds catalog lookups, which shell out or hit the network.
	lookupTimeout = 30 * time.Second

	// maxAutocompleteChoices is Discord's limit on autocomplete choices.
	maxAutocompleteChoices = 25
)

// console is the part of *usecases.Console the handlers drive.
type console interface {
	Dispatch(ctx context.Context, cmd usecases.Command) (usecases.Snapshot, error)
	Snapshot(ctx context.Context) (usecases.Snapshot, error)
}

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	console console
	catalog ports.TrackCatalog
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(console console, catalog ports.TrackCatalog) *CommandHandlers {
	return &CommandHandlers{
		console: console,
		catalog: catalog,
	}
}

// Handlers returns the command name to handler mapping.
func (h *CommandHandlers) Handlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"play":     h.HandlePlay,
		"enqueue":  h.HandleEnqueue,
		"next":     h.HandleNext,
		"previous": h.HandlePrevious,
		"stop":     h.HandleStop,
		"queue":    h.HandleQueue,
		"playlist": h.HandlePlaylist,
		"panel":    h.HandlePanel,
	}
}

// HandlePlay handles the /play command.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	query := optionMap(i.ApplicationCommandData().Options).stringValue("query")

	return h.withLookup(r, query, func(track domain.Track) (string, error) {
		if _, err := h.dispatch(usecases.PlayCommand{Track: track}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Playing **%s**.", track.Title), nil
	})
}

// HandleEnqueue handles the /enqueue command.
func (h *CommandHandlers) HandleEnqueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	query := optionMap(i.ApplicationCommandData().Options).stringValue("query")

	return h.withLookup(r, query, func(track domain.Track) (string, error) {
		snap, err := h.dispatch(usecases.EnqueueCommand{Track: track})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"Added **%s** to the queue (position %d).",
			track.Title,
			len(snap.Queue),
		), nil
	})
}

// HandleNext handles the /next command.
func (h *CommandHandlers) HandleNext(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	snap, err := h.dispatch(usecases.NextCommand{})
	if err != nil {
		return respondError(r, errorMessage(err))
	}
	if snap.NowPlaying == nil {
		return respondSuccess(r, "Reached the end of the queue.")
	}
	return respondSuccess(r, fmt.Sprintf("Skipped to **%s**.", snap.NowPlaying.Title))
}

// HandlePrevious handles the /previous command.
func (h *CommandHandlers) HandlePrevious(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	snap, err := h.dispatch(usecases.PreviousCommand{})
	if err != nil {
		return respondError(r, errorMessage(err))
	}
	return respondSuccess(r, fmt.Sprintf("Went back to **%s**.", snap.PlayerTitle()))
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if _, err := h.dispatch(usecases.StopCommand{}); err != nil {
		return respondError(r, errorMessage(err))
	}
	return respondSuccess(r, "Stopped playback.")
}

// HandleQueue handles the /queue command.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	subCmd := options[0]
	index := optionMap(subCmd.Options).position()

	var (
		cmd     usecases.Command
		success func(usecases.Snapshot) string
	)

	switch subCmd.Name {
	case "show":
		snap, err := h.dispatch(usecases.SnapshotCommand{})
		if err != nil {
			return respondError(r, errorMessage(err))
		}
		return respondEmbed(r, renderQueue(snap))
	case "remove":
		cmd = usecases.RemoveCommand{Index: index}
		success = func(usecases.Snapshot) string {
			return fmt.Sprintf("Removed track %d from the queue.", index+1)
		}
	case "up":
		cmd = usecases.MoveUpCommand{Index: index}
	case "down":
		cmd = usecases.MoveDownCommand{Index: index}
	case "jump":
		cmd = usecases.JumpToCommand{Index: index}
		success = func(snap usecases.Snapshot) string {
			return fmt.Sprintf("Jumped to **%s**.", snap.PlayerTitle())
		}
	case "select":
		cmd = usecases.SelectCommand{Index: index}
		success = func(snap usecases.Snapshot) string {
			if snap.Selected < 0 {
				return "Selection cleared."
			}
			return fmt.Sprintf("Selected track %d.", snap.Selected+1)
		}
	case "clear":
		cmd = usecases.ClearQueueCommand{}
		success = func(usecases.Snapshot) string { return "Cleared the queue." }
	default:
		return respondError(r, "Unknown subcommand")
	}

	snap, err := h.dispatch(cmd)
	if errors.Is(err, usecases.ErrQueueAlreadyEmpty) {
		return respondEmbed(r, infoEmbed(errorMessage(err)))
	}
	if err != nil {
		return respondError(r, errorMessage(err))
	}
	if success == nil {
		return respondEmbed(r, renderQueue(snap))
	}
	return respondSuccess(r, success(snap))
}

// HandlePlaylist handles the /playlist command.
func (h *CommandHandlers) HandlePlaylist(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	subCmd := options[0]
	opts := optionMap(subCmd.Options)
	id := domain.PlaylistID(opts.stringValue("playlist"))

	switch subCmd.Name {
	case "list":
		snap, err := h.dispatch(usecases.SnapshotCommand{})
		if err != nil {
			return respondError(r, errorMessage(err))
		}
		return respondEmbed(r, renderPlaylists(snap))
	case "show":
		snap, err := h.dispatch(usecases.SnapshotCommand{})
		if err != nil {
			return respondError(r, errorMessage(err))
		}
		playlist, ok := snap.Playlist(id)
		if !ok {
			return respondError(r, errorMessage(domain.ErrPlaylistNotFound))
		}
		return respondEmbed(r, renderPlaylist(playlist))
	case "create":
		name := opts.stringValue("name")
		if _, err := h.dispatch(usecases.CreatePlaylistCommand{Name: name}); err != nil {
			return respondError(r, errorMessage(err))
		}
		return respondSuccess(r, fmt.Sprintf("Created playlist **%s**.", strings.TrimSpace(name)))
	case "delete":
		if _, err := h.dispatch(usecases.DeletePlaylistCommand{ID: id}); err != nil {
			return respondError(r, errorMessage(err))
		}
		return respondSuccess(r, "Deleted the playlist.")
	case "rename":
		name := opts.stringValue("name")
		if _, err := h.dispatch(usecases.RenamePlaylistCommand{ID: id, Name: name}); err != nil {
			return respondError(r, errorMessage(err))
		}
		return respondSuccess(r, fmt.Sprintf("Renamed the playlist to **%s**.", strings.TrimSpace(name)))
	case "add":
		return h.withLookup(r, opts.stringValue("query"), func(track domain.Track) (string, error) {
			snap, err := h.dispatch(usecases.AddToPlaylistCommand{ID: id, Track: track})
			if err != nil {
				return "", err
			}
			playlist, _ := snap.Playlist(id)
			return fmt.Sprintf("Added **%s** to **%s**.", track.Title, playlist.Name), nil
		})
	case "remove":
		if _, err := h.dispatch(usecases.RemoveFromPlaylistCommand{
			ID:    id,
			Index: opts.position(),
		}); err != nil {
			return respondError(r, errorMessage(err))
		}
		return respondSuccess(r, "Removed the track from the playlist.")
	case "load":
		snap, err := h.dispatch(usecases.LoadPlaylistCommand{ID: id})
		if err != nil {
			return respondError(r, errorMessage(err))
		}
		playlist, _ := snap.Playlist(id)
		return respondSuccess(r, fmt.Sprintf("Loaded **%s** into the queue.", playlist.Name))
	default:
		return respondError(r, "Unknown subcommand")
	}
}

// HandlePanel handles the /panel command.
func (h *CommandHandlers) HandlePanel(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	subCmd := options[0]
	panel, err := domain.ParsePanel(optionMap(subCmd.Options).stringValue("panel"))
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	var cmd usecases.Command
	switch subCmd.Name {
	case "open":
		cmd = usecases.OpenPanelCommand{Panel: panel}
	case "close":
		cmd = usecases.ClosePanelCommand{Panel: panel}
	case "toggle":
		cmd = usecases.TogglePanelCommand{Panel: panel}
	default:
		return respondError(r, "Unknown subcommand")
	}

	snap, err := h.dispatch(cmd)
	if err != nil {
		return respondError(r, errorMessage(err))
	}
	return respondEmbed(r, renderPanel(snap))
}

// HandleAutocomplete suggests playlists for the playlist option.
func (h *CommandHandlers) HandleAutocomplete(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var focused string
	for _, opt := range i.ApplicationCommandData().Options {
		for _, sub := range opt.Options {
			if sub.Focused && sub.Name == "playlist" {
				focused = strings.ToLower(strings.TrimSpace(sub.StringValue()))
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	snap, err := h.console.Snapshot(ctx)
	if err != nil {
		slog.Warn("failed to read console state for autocomplete", "error", err)
	}

	matching := lo.Filter(snap.Playlists, func(p domain.Playlist, _ int) bool {
		return focused == "" || strings.Contains(strings.ToLower(p.Name), focused)
	})
	if len(matching) > maxAutocompleteChoices {
		matching = matching[:maxAutocompleteChoices]
	}

	choices := lo.Map(matching, func(p domain.Playlist, _ int) *discordgo.ApplicationCommandOptionChoice {
		return &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", p.Name, trackCount(p.Tracks.Len())),
			Value: string(p.ID),
		}
	})

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

// withLookup defers the response, resolves query to its first track and
// edits the response with the outcome of apply.
func (h *CommandHandlers) withLookup(
	r bot.Responder,
	query string,
	apply func(track domain.Track) (string, error),
) error {
	if strings.TrimSpace(query) == "" {
		return respondError(r, "Query cannot be empty")
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	tracks, err := h.catalog.Lookup(ctx, query, 1)
	if err == nil && len(tracks) == 0 {
		err = usecases.ErrNoResults
	}
	if err != nil {
		slog.Debug("lookup failed", "query", query, "error", err)
		return editEmbed(r, errorEmbed(errorMessage(err)))
	}

	message, err := apply(tracks[0])
	if err != nil {
		return editEmbed(r, errorEmbed(errorMessage(err)))
	}
	return editEmbed(r, successEmbed(message))
}

func (h *CommandHandlers) dispatch(cmd usecases.Command) (usecases.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	return h.console.Dispatch(ctx, cmd)
}

// errorMessage converts an error into a user-facing sentence.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The console is busy, please try again."
	case errors.Is(err, domain.ErrInvalidPosition):
		return "There is no track at that position."
	}

	msg := err.Error()
	if msg == "" {
		return "Something went wrong."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// options is a name-indexed view of command options.
type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	return lo.SliceToMap(
		opts,
		func(opt *discordgo.ApplicationCommandInteractionDataOption) (
			string,
			*discordgo.ApplicationCommandInteractionDataOption,
		) {
			return opt.Name, opt
		},
	)
}

func (o options) stringValue(name string) string {
	opt, ok := o[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

// position returns the 0-based index for the 1-indexed position option, or -1.
func (o options) position() int {
	opt, ok := o["position"]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return -1
	}
	return int(opt.IntValue()) - 1
}

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondSuccess(r bot.Responder, message string) error {
	return respondEmbed(r, successEmbed(message))
}

func respondError(r bot.Responder, message string) error {
	return respondEmbed(r, errorEmbed(message))
}

func editEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{embed}
	return r.Edit(&discordgo.WebhookEdit{Embeds: &embeds})
}
