package discord

import (
	"errors"
	"fmt"

	"github.com/KirkDiggler/lenslink/internal/services/messaging"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	"github.com/bwmarrin/discordgo"
	"github.com/golang/glog"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	components map[string]ComponentHandler
	commandIDs map[string]string // Maps command name to command ID
	schedule   schedule.Service
	messaging  messaging.Service
	config     *Config
	started    bool
}

// ErrBotStarted is returned when a command is registered after Start
var ErrBotStarted = errors.New("commands must be registered before the bot starts")

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Schedule must be safe for concurrent use; discordgo runs handlers in
	// their own goroutines
	Schedule  schedule.Service
	Messaging messaging.Service
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.Schedule == nil {
		return nil, errors.New("schedule service cannot be nil")
	}

	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		components: make(map[string]ComponentHandler),
		commandIDs: make(map[string]string),
		schedule:   cfg.Schedule,
		messaging:  cfg.Messaging,
		config:     cfg,
	}

	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start registers /colabos, opens the gateway connection and then creates
// the registered commands on Discord
func (b *Bot) Start() error {
	cmd, err := NewColabosCommand(&ColabosConfig{
		Schedule:  b.schedule,
		Messaging: b.messaging,
	})
	if err != nil {
		return err
	}
	if err := b.RegisterCommand(cmd); err != nil {
		return fmt.Errorf("failed to register colabos command: %w", err)
	}

	// Handlers may run as soon as the connection is open, so the handler
	// maps are frozen from here on
	b.started = true
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.createCommands(); err != nil {
		return err
	}

	glog.Info("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop removes registered commands and closes the connection
func (b *Bot) Stop() error {
	appID := b.appID()

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			glog.Warningf("failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		} else {
			glog.V(1).Infof("deleted command %s (ID: %s)", cmdName, cmdID)
		}
	}

	return b.session.Close()
}

// RegisterCommand adds a command to the dispatch tables. A command that also
// implements ComponentHandler receives its components' interactions. It must
// be called before Start; Start creates the commands on Discord.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	if b.started {
		return ErrBotStarted
	}

	if _, ok := b.commands[cmd.GetName()]; ok {
		return fmt.Errorf("command %s is already registered", cmd.GetName())
	}

	b.commands[cmd.GetName()] = cmd
	if ch, ok := cmd.(ComponentHandler); ok {
		for _, id := range ch.CustomIDs() {
			b.components[id] = ch
		}
	}

	return nil
}

// createCommands creates every registered command on Discord
func (b *Bot) createCommands() error {
	appID := b.appID()

	for name, cmd := range b.commands {
		// An empty guild registers the command globally
		if b.config.GuildID != "" {
			glog.Infof("registering command %s for guild %s", name, b.config.GuildID)
		} else {
			glog.Infof("registering command %s globally", name)
		}

		createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", name, err)
		}

		b.commandIDs[name] = createdCmd.ID
		glog.Infof("registered command %s with ID %s", name, createdCmd.ID)
	}

	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to the session user when no application ID is configured
	return b.session.State.User.ID
}

// handleInteraction dispatches slash commands and component interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if h, ok := b.commands[name]; ok {
			if err := h.Handle(s, i); err != nil {
				glog.Errorf("error handling command %s: %v", name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		h, ok := b.components[customID]
		if !ok {
			if err := RespondWithError(s, i, fmt.Sprintf("Unknown component: %s", customID)); err != nil {
				glog.Errorf("error responding to component %s: %v", customID, err)
			}
			return
		}
		if err := h.HandleComponent(s, i); err != nil {
			glog.Errorf("error handling component %s: %v", customID, err)
		}
	}
}
