package discord

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/bwmarrin/discordgo"
)

const (
	// Discord caps a message at 10 embeds and an embed or select menu at 25
	// entries
	maxEmbeds  = 10
	maxEntries = 25

	untitled = "Untitled colabo"
)

// renderSessionEmbed renders one session with its team
func renderSessionEmbed(sess *models.Session) *discordgo.MessageEmbed {
	when := sess.Time
	if when == "" {
		when = "All day"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "📅 Date", Value: sess.DisplayDate(), Inline: true},
		{Name: "⏰ Time", Value: when, Inline: true},
	}
	if sess.Location != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "📍 Location", Value: sess.Location, Inline: true})
	}
	if team := teamValue(sess); team != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "👥 Team", Value: team})
	}

	return &discordgo.MessageEmbed{
		Title:       "📸 " + titleOf(sess),
		Description: sess.Description,
		Color:       colorSession,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: sess.ID},
	}
}

// renderUpcoming lists sessions in one embed and attaches a menu to share one
func renderUpcoming(sessions []*models.Session, status string) *discordgo.InteractionResponseData {
	embed := &discordgo.MessageEmbed{
		Title: "Upcoming colabos",
		Color: colorSession,
	}
	if status != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: status}
	}

	if len(sessions) == 0 {
		embed.Description = "Nothing scheduled yet."
		return &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	}

	if len(sessions) > maxEntries {
		sessions = sessions[:maxEntries]
	}

	options := make([]discordgo.SelectMenuOption, 0, len(sessions))
	for _, sess := range sessions {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s · %s", sess.DisplayDate(), titleOf(sess)),
			Value: summaryLine(sess),
		})
		options = append(options, discordgo.SelectMenuOption{
			Label:       titleOf(sess),
			Value:       sess.ID,
			Description: sess.DisplayDate(),
			Emoji:       &discordgo.ComponentEmoji{Name: "📸"},
		})
	}

	menu := discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    SelectShareSession,
		Placeholder: "Pick a colabo to share",
		Options:     options,
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}},
		},
	}
}

// renderDay shows every session of one day, or the empty day message
func renderDay(sessions []*models.Session, emptyMessage string) *discordgo.InteractionResponseData {
	if len(sessions) == 0 {
		return &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "No colabos",
				Description: emptyMessage,
				Color:       colorSession,
			}},
		}
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(sessions))
	for _, sess := range sessions {
		if len(embeds) == maxEmbeds {
			break
		}
		embeds = append(embeds, renderSessionEmbed(sess))
	}

	data := &discordgo.InteractionResponseData{Embeds: embeds}
	if len(sessions) > maxEmbeds {
		data.Content = fmt.Sprintf("Showing %d of %d colabos.", maxEmbeds, len(sessions))
	}
	return data
}

// renderShare wraps the share text so it can be copied as-is
func renderShare(message string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: message,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

func renderError(message string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Error",
			Description: message,
			Color:       colorError,
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	}
}

func titleOf(sess *models.Session) string {
	if strings.TrimSpace(sess.Title) == "" {
		return untitled
	}
	return sess.Title
}

func summaryLine(sess *models.Session) string {
	parts := []string{}
	if sess.Time != "" {
		parts = append(parts, "⏰ "+sess.Time)
	}
	if sess.Location != "" {
		parts = append(parts, "📍 "+sess.Location)
	}
	if len(parts) == 0 {
		return "Details to be confirmed"
	}
	return strings.Join(parts, " · ")
}

func teamValue(sess *models.Session) string {
	var lines []string
	for _, m := range []models.Member{sess.Photographer, sess.Model, sess.MUA} {
		if m.Name == "" {
			continue
		}
		line := fmt.Sprintf("**%s**: %s", m.Role, m.Name)
		if m.Handle() != "" {
			line += fmt.Sprintf(" ([@%s](%s))", m.Handle(), m.InstagramURL())
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
