package concept_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/lenslink/internal/services/concept"
	"github.com/KirkDiggler/lenslink/internal/services/concept/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockGenerator *mocks.MockTextGenerator
	service       concept.Service
	ctx           context.Context
	input         *concept.GenerateConceptInput
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockGenerator = mocks.NewMockTextGenerator(s.ctrl)
	s.ctx = context.Background()

	svc, err := concept.NewService(&concept.Config{Generator: s.mockGenerator})
	s.Require().NoError(err)
	s.service = svc

	s.input = &concept.GenerateConceptInput{
		Title:            "Neon Rain",
		Location:         "Chinatown",
		PhotographerName: "Ana",
		ModelName:        "Bo",
	}
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestNewServiceRequiresConfig() {
	_, err := concept.NewService(nil)
	s.Equal(concept.ErrNilConfig, err)
}

func (s *ServiceTestSuite) TestGeneratesConcept() {
	s.mockGenerator.EXPECT().Generate(s.ctx, concept.Prompt(s.input)).Return("  Wet asphalt, pink neon.\n", nil)

	out, err := s.service.GenerateConcept(s.ctx, s.input)
	s.Require().NoError(err)
	s.True(out.Generated)
	s.Equal("Wet asphalt, pink neon.", out.Text)
}

func (s *ServiceTestSuite) TestPromptNamesEveryone() {
	prompt := concept.Prompt(s.input)
	s.Contains(prompt, `"Neon Rain"`)
	s.Contains(prompt, `"Chinatown"`)
	s.Contains(prompt, "Ana")
	s.Contains(prompt, "Bo")
	s.Contains(prompt, "3 sentences")
}

func (s *ServiceTestSuite) TestMissingTitleOrLocation() {
	_, err := s.service.GenerateConcept(s.ctx, &concept.GenerateConceptInput{Title: "x"})
	s.Equal(concept.ErrMissingTitleOrLocation, err)

	_, err = s.service.GenerateConcept(s.ctx, &concept.GenerateConceptInput{Location: "x"})
	s.Equal(concept.ErrMissingTitleOrLocation, err)
}

func (s *ServiceTestSuite) TestFailureFallsBack() {
	s.mockGenerator.EXPECT().Generate(s.ctx, gomock.Any()).Return("", errors.New("quota exceeded"))

	out, err := s.service.GenerateConcept(s.ctx, s.input)
	s.Require().NoError(err)
	s.False(out.Generated)
	s.Equal(concept.FailureMessage, out.Text)
}

func (s *ServiceTestSuite) TestEmptyResponseFallsBack() {
	s.mockGenerator.EXPECT().Generate(s.ctx, gomock.Any()).Return("   ", nil)

	out, err := s.service.GenerateConcept(s.ctx, s.input)
	s.Require().NoError(err)
	s.Equal(concept.FailureMessage, out.Text)
}

func (s *ServiceTestSuite) TestUnconfigured() {
	svc, err := concept.NewService(&concept.Config{})
	s.Require().NoError(err)

	out, err := svc.GenerateConcept(s.ctx, s.input)
	s.Require().NoError(err)
	s.False(out.Generated)
	s.Equal(concept.UnconfiguredMessage, out.Text)
}
