package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/messaging"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	"github.com/bwmarrin/discordgo"
	"github.com/golang/glog"
)

// SelectShareSession is the custom ID of the share menu under /colabos upcoming
const SelectShareSession = "colabos_share"

const defaultUpcoming = 10

// ColabosConfig holds configuration for the colabos command
type ColabosConfig struct {
	Schedule  schedule.Service
	Messaging messaging.Service
}

// ColabosCommand handles the read-only /colabos command
type ColabosCommand struct {
	BaseCommand
	schedule  schedule.Service
	messaging messaging.Service
}

// NewColabosCommand creates a new colabos command handler
func NewColabosCommand(cfg *ColabosConfig) (*ColabosCommand, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Schedule == nil {
		return nil, errors.New("schedule service cannot be nil")
	}
	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	minLimit := 1.0
	return &ColabosCommand{
		BaseCommand: BaseCommand{
			Name:        "colabos",
			Description: "Upcoming collaborative photo sessions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "upcoming",
					Description: "List sessions from today on",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "limit",
							Description: "How many sessions to show",
							MinValue:    &minLimit,
							MaxValue:    maxEntries,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "day",
					Description: "Show the sessions of one day",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "date",
							Description: "Day as YYYY-MM-DD",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "share",
					Description: "Get the share text of a session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Session ID",
							Required:    true,
						},
					},
				},
			},
		},
		schedule:  cfg.Schedule,
		messaging: cfg.Messaging,
	}, nil
}

// Handle processes a Discord interaction for the colabos command
func (c *ColabosCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	resp, err := c.respond(context.Background(), data.Options[0])
	if err != nil {
		glog.Errorf("colabos %s failed: %v", data.Options[0].Name, err)
		return RespondWithError(s, i, "Could not read the colabos right now.")
	}

	return Respond(s, i, resp)
}

// CustomIDs implements ComponentHandler
func (c *ColabosCommand) CustomIDs() []string {
	return []string{SelectShareSession}
}

// HandleComponent answers the share menu with the session's share text
func (c *ColabosCommand) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return RespondWithError(s, i, "Pick a colabo to share.")
	}

	resp, err := c.share(context.Background(), values[0])
	if err != nil {
		return err
	}

	return Respond(s, i, resp)
}

// respond builds the reply to one subcommand. Lookup problems the user can
// fix come back as error embeds, not errors.
func (c *ColabosCommand) respond(ctx context.Context, sub *discordgo.ApplicationCommandInteractionDataOption) (*discordgo.InteractionResponseData, error) {
	// Other devices may have written to the shared store since the last read
	if _, err := c.schedule.Load(ctx, &schedule.LoadInput{}); err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	switch sub.Name {
	case "upcoming":
		return c.upcoming(ctx, intOption(sub, "limit", defaultUpcoming))
	case "day":
		return c.day(ctx, stringOption(sub, "date"))
	case "share":
		return c.share(ctx, stringOption(sub, "id"))
	default:
		return renderError(fmt.Sprintf("Unknown subcommand: %s", sub.Name)), nil
	}
}

func (c *ColabosCommand) upcoming(ctx context.Context, limit int) (*discordgo.InteractionResponseData, error) {
	out, err := c.schedule.Upcoming(ctx, &schedule.UpcomingInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	status := ""
	st, err := c.schedule.Status(ctx, &schedule.StatusInput{})
	if err != nil {
		return nil, err
	}
	msg, err := c.messaging.GetStatusMessage(ctx, &messaging.GetStatusMessageInput{
		Status:  st.Status.Status,
		Backend: st.Status.Backend,
		Count:   st.Count,
	})
	if err != nil {
		glog.Warningf("failed to build status line: %v", err)
	} else {
		status = msg.Message
	}

	return renderUpcoming(out.Sessions, status), nil
}

func (c *ColabosCommand) day(ctx context.Context, date string) (*discordgo.InteractionResponseData, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return renderError(fmt.Sprintf("%q is not a YYYY-MM-DD date.", date)), nil
	}

	out, err := c.schedule.ListSessions(ctx, &schedule.ListSessionsInput{Date: date})
	if err != nil {
		return nil, err
	}

	empty := ""
	if len(out.Sessions) == 0 {
		msg, err := c.messaging.GetEmptyDayMessage(ctx, &messaging.GetEmptyDayMessageInput{Date: date})
		if err != nil {
			return nil, err
		}
		empty = msg.Message
	}

	return renderDay(out.Sessions, empty), nil
}

func (c *ColabosCommand) share(ctx context.Context, id string) (*discordgo.InteractionResponseData, error) {
	got, err := c.schedule.GetSession(ctx, &schedule.GetSessionInput{ID: id})
	if err != nil {
		if errors.Is(err, schedule.ErrSessionNotFound) {
			return renderError(fmt.Sprintf("No colabo with ID %s.", id)), nil
		}
		return nil, err
	}

	msg, err := c.messaging.GetShareMessage(ctx, &messaging.GetShareMessageInput{Session: got.Session})
	if err != nil {
		return nil, err
	}

	return renderShare(msg.Message), nil
}

func stringOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func intOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string, fallback int) int {
	for _, opt := range sub.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return int(opt.IntValue())
		}
	}
	return fallback
}
