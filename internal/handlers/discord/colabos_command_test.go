package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
	"github.com/KirkDiggler/lenslink/internal/services/messaging"
	messagingMocks "github.com/KirkDiggler/lenslink/internal/services/messaging/mocks"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	scheduleMocks "github.com/KirkDiggler/lenslink/internal/services/schedule/mocks"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ColabosCommandTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockSchedule  *scheduleMocks.MockService
	mockMessaging *messagingMocks.MockService
	command       *ColabosCommand
	ctx           context.Context
}

func (s *ColabosCommandTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSchedule = scheduleMocks.NewMockService(s.ctrl)
	s.mockMessaging = messagingMocks.NewMockService(s.ctrl)
	s.ctx = context.Background()

	cmd, err := NewColabosCommand(&ColabosConfig{
		Schedule:  s.mockSchedule,
		Messaging: s.mockMessaging,
	})
	s.Require().NoError(err)
	s.command = cmd
}

func (s *ColabosCommandTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestColabosCommandTestSuite(t *testing.T) {
	suite.Run(t, new(ColabosCommandTestSuite))
}

func (s *ColabosCommandTestSuite) expectLoad() {
	s.mockSchedule.EXPECT().Load(s.ctx, &schedule.LoadInput{}).Return(&schedule.LoadOutput{}, nil)
}

func subcommand(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func (s *ColabosCommandTestSuite) TestNewColabosCommandValidation() {
	_, err := NewColabosCommand(nil)
	s.Error(err)

	_, err = NewColabosCommand(&ColabosConfig{Messaging: s.mockMessaging})
	s.Error(err)

	_, err = NewColabosCommand(&ColabosConfig{Schedule: s.mockSchedule})
	s.Error(err)
}

func (s *ColabosCommandTestSuite) TestCommandDefinition() {
	def := s.command.GetCommand()
	s.Equal("colabos", def.Name)

	var names []string
	for _, opt := range def.Options {
		names = append(names, opt.Name)
	}
	s.Equal([]string{"upcoming", "day", "share"}, names)
	s.Equal([]string{SelectShareSession}, s.command.CustomIDs())
}

func (s *ColabosCommandTestSuite) TestUpcomingDefaultLimit() {
	s.expectLoad()
	s.mockSchedule.EXPECT().Upcoming(s.ctx, &schedule.UpcomingInput{Limit: defaultUpcoming}).
		Return(&schedule.UpcomingOutput{Sessions: []*models.Session{goldenHour()}}, nil)
	s.mockSchedule.EXPECT().Status(s.ctx, &schedule.StatusInput{}).Return(&schedule.StatusOutput{
		Status: &cloudsync.StatusOutput{Status: cloudsync.StatusDisconnected, Source: cloudsync.SourceLocal},
		Count:  1,
	}, nil)
	s.mockMessaging.EXPECT().GetStatusMessage(s.ctx, &messaging.GetStatusMessageInput{
		Status: cloudsync.StatusDisconnected,
		Count:  1,
	}).Return(&messaging.GetStatusMessageOutput{Message: "Saved on this device"}, nil)

	data, err := s.command.respond(s.ctx, subcommand("upcoming"))
	s.Require().NoError(err)
	s.Require().Len(data.Embeds, 1)
	s.Equal("Saved on this device", data.Embeds[0].Footer.Text)
	s.Len(data.Embeds[0].Fields, 1)
}

func (s *ColabosCommandTestSuite) TestUpcomingExplicitLimit() {
	s.expectLoad()
	s.mockSchedule.EXPECT().Upcoming(s.ctx, &schedule.UpcomingInput{Limit: 3}).
		Return(&schedule.UpcomingOutput{}, nil)
	s.mockSchedule.EXPECT().Status(s.ctx, gomock.Any()).Return(&schedule.StatusOutput{
		Status: &cloudsync.StatusOutput{Status: cloudsync.StatusConnected},
	}, nil)
	s.mockMessaging.EXPECT().GetStatusMessage(s.ctx, gomock.Any()).Return(nil, errors.New("boom"))

	limit := &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "limit",
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(3),
	}
	data, err := s.command.respond(s.ctx, subcommand("upcoming", limit))
	s.Require().NoError(err)
	s.Nil(data.Embeds[0].Footer, "a failed status line is left out")
}

func (s *ColabosCommandTestSuite) TestDay() {
	s.expectLoad()
	s.mockSchedule.EXPECT().ListSessions(s.ctx, &schedule.ListSessionsInput{Date: "2024-06-05"}).
		Return(&schedule.ListSessionsOutput{Sessions: []*models.Session{goldenHour()}}, nil)

	data, err := s.command.respond(s.ctx, subcommand("day", stringOpt("date", "2024-06-05")))
	s.Require().NoError(err)
	s.Require().Len(data.Embeds, 1)
	s.Equal("📸 Golden Hour", data.Embeds[0].Title)
}

func (s *ColabosCommandTestSuite) TestDayEmpty() {
	s.expectLoad()
	s.mockSchedule.EXPECT().ListSessions(s.ctx, &schedule.ListSessionsInput{Date: "2024-06-06"}).
		Return(&schedule.ListSessionsOutput{Sessions: []*models.Session{}}, nil)
	s.mockMessaging.EXPECT().GetEmptyDayMessage(s.ctx, &messaging.GetEmptyDayMessageInput{Date: "2024-06-06"}).
		Return(&messaging.GetEmptyDayMessageOutput{Message: "Free day."}, nil)

	data, err := s.command.respond(s.ctx, subcommand("day", stringOpt("date", "2024-06-06")))
	s.Require().NoError(err)
	s.Equal("Free day.", data.Embeds[0].Description)
}

func (s *ColabosCommandTestSuite) TestDayRejectsBadDate() {
	s.expectLoad()

	data, err := s.command.respond(s.ctx, subcommand("day", stringOpt("date", "June 5")))
	s.Require().NoError(err)
	s.Equal("Error", data.Embeds[0].Title)
	s.Equal(discordgo.MessageFlagsEphemeral, data.Flags)
}

func (s *ColabosCommandTestSuite) TestShare() {
	sess := goldenHour()
	s.expectLoad()
	s.mockSchedule.EXPECT().GetSession(s.ctx, &schedule.GetSessionInput{ID: "s1"}).
		Return(&schedule.GetSessionOutput{Session: sess}, nil)
	s.mockMessaging.EXPECT().GetShareMessage(s.ctx, &messaging.GetShareMessageInput{Session: sess}).
		Return(&messaging.GetShareMessageOutput{Message: "📸 *COLABO: Golden Hour*"}, nil)

	data, err := s.command.respond(s.ctx, subcommand("share", stringOpt("id", "s1")))
	s.Require().NoError(err)
	s.Equal("📸 *COLABO: Golden Hour*", data.Content)
}

func (s *ColabosCommandTestSuite) TestShareUnknownID() {
	s.expectLoad()
	s.mockSchedule.EXPECT().GetSession(s.ctx, &schedule.GetSessionInput{ID: "nope"}).
		Return(nil, schedule.ErrSessionNotFound)

	data, err := s.command.respond(s.ctx, subcommand("share", stringOpt("id", "nope")))
	s.Require().NoError(err)
	s.Equal("No colabo with ID nope.", data.Embeds[0].Description)
}

func (s *ColabosCommandTestSuite) TestLoadFailure() {
	s.mockSchedule.EXPECT().Load(s.ctx, &schedule.LoadInput{}).Return(nil, errors.New("disk gone"))

	_, err := s.command.respond(s.ctx, subcommand("upcoming"))
	s.Error(err)
}
