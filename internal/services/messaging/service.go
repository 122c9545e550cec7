package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
)

// service implements the Service interface
type service struct {
	signature string

	// Random number generator for selecting random messages. rand.Rand is
	// not safe for concurrent use.
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	if config == nil {
		config = &ServiceConfig{}
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	signature := config.Signature
	if signature == "" {
		signature = DefaultSignature
	}

	return &service{
		signature: signature,
		rand:      rand.New(rand.NewSource(seed)),
	}, nil
}

// GetShareMessage renders the session summary
func (s *service) GetShareMessage(ctx context.Context, input *GetShareMessageInput) (*GetShareMessageOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	sess := input.Session
	var b strings.Builder

	fmt.Fprintf(&b, "📸 *COLABO: %s*\n", sess.Title)
	fmt.Fprintf(&b, "📅 Date: %s\n", sess.DisplayDate())
	fmt.Fprintf(&b, "⏰ Time: %s\n", sess.Time)
	fmt.Fprintf(&b, "📍 Location: %s\n", sess.Location)
	b.WriteString("\n👥 *TEAM:*\n")
	fmt.Fprintf(&b, "- Photographer: %s\n", memberLine(sess.Photographer))
	fmt.Fprintf(&b, "- Model: %s\n", memberLine(sess.Model))
	fmt.Fprintf(&b, "- MUA: %s\n", memberLine(sess.MUA))
	b.WriteString("\n💡 *Concept:*\n")
	b.WriteString(sess.Description)
	b.WriteString("\n\n")
	b.WriteString(s.signature)

	return &GetShareMessageOutput{
		Message: strings.TrimSpace(b.String()),
	}, nil
}

// GetStatusMessage describes the sync state
func (s *service) GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var message string
	switch input.Status {
	case cloudsync.StatusConnected:
		backend := input.Backend
		if backend == "" {
			backend = "remote store"
		}
		message = fmt.Sprintf("Cloud sync on (%s). %s.", backend, countLine(input.Count))
	case cloudsync.StatusError:
		message = fmt.Sprintf("Cloud sync failed, showing the copy saved on this device. %s.", countLine(input.Count))
	default:
		message = fmt.Sprintf("Offline mode: sessions are saved on this device. Export a backup from time to time. %s.", countLine(input.Count))
	}

	return &GetStatusMessageOutput{Message: message}, nil
}

// GetEmptyDayMessage returns a random nudge for a free day
func (s *service) GetEmptyDayMessage(ctx context.Context, input *GetEmptyDayMessageInput) (*GetEmptyDayMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	messages := []string{
		"No sessions on %s. Free day for scouting?",
		"Nothing booked on %s yet.",
		"%s is wide open. Time to plan a colabo!",
		"The calendar is empty on %s.",
	}

	date := input.Date
	sess := &models.Session{Date: input.Date}
	if display := sess.DisplayDate(); display != "" {
		date = display
	}

	// Select a random message
	s.mu.Lock()
	selected := messages[s.rand.Intn(len(messages))]
	s.mu.Unlock()

	return &GetEmptyDayMessageOutput{
		Message: fmt.Sprintf(selected, date),
	}, nil
}

func memberLine(m models.Member) string {
	if m.Instagram == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Instagram)
}

func countLine(n int) string {
	if n == 1 {
		return "1 session"
	}
	return fmt.Sprintf("%d sessions", n)
}
