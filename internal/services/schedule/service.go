package schedule

import (
	"context"
	"time"

	"github.com/KirkDiggler/lenslink/internal/common/clock"
	"github.com/KirkDiggler/lenslink/internal/common/uuid"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
	"github.com/golang/glog"
)

// service implements the Service interface. It owns the in-memory session
// list and is not safe for concurrent use; wrap it with NewLocked when more
// than one goroutine calls in.
type service struct {
	sync          cloudsync.Service
	clock         clock.Clock
	uuidGenerator uuid.UUID
	location      *time.Location

	sessions []*models.Session
	loaded   bool

	// pending is the number of local-only sessions seen by the last Load.
	// The local store is not overwritten while it is non-zero, so that
	// MigrateToCloud still finds them.
	pending int
}

// NewService creates a new schedule service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Sync == nil {
		return nil, ErrNilSync
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &service{
		sync:          cfg.Sync,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		location:      cfg.Location,
		sessions:      []*models.Session{},
	}, nil
}

// Load replaces the in-memory list with whatever the sync service reads. A
// list read from the remote store is mirrored to the local store unless the
// local store still holds sessions the remote lacks.
func (s *service) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	out, err := s.sync.Load(ctx, &cloudsync.LoadInput{})
	if err != nil {
		return nil, err
	}

	s.sessions = append([]*models.Session{}, out.Sessions...)
	models.SortByDate(s.sessions)
	s.loaded = true
	s.pending = out.Pending

	if out.Source == cloudsync.SourceRemote {
		s.mirror(ctx)
	}

	return &LoadOutput{
		Sessions: s.snapshot(),
		Status:   out.Status,
		Pending:  out.Pending,
	}, nil
}

// Create fills in the ID and creation time when missing, validates, and
// writes through the active store. A store failure leaves the list unchanged
// and reports Persisted=false rather than an error.
func (s *service) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil || input.Session == nil {
		return nil, ErrNilInput
	}

	sess := input.Session.Clone()
	if sess.ID == "" {
		sess.ID = s.uuidGenerator.NewUUID()
	}
	if sess.CreatedAt == 0 {
		sess.CreatedAt = clock.Millis(s.clock.Now())
	}
	sess.Normalize()

	if err := sess.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if err := s.sync.Save(ctx, &cloudsync.SaveInput{Session: sess}); err != nil {
		glog.Errorf("failed to store session %s: %v", sess.ID, err)
		return &CreateOutput{Session: sess, Persisted: false}, nil
	}

	// New record goes ahead of same-date records, then a stable sort
	next := make([]*models.Session, 0, len(s.sessions)+1)
	next = append(next, sess)
	for _, existing := range s.sessions {
		if existing.ID != sess.ID {
			next = append(next, existing)
		}
	}
	models.SortByDate(next)
	s.sessions = next
	s.mirror(ctx)

	glog.Infof("created session %s on %s", sess.ID, sess.Date)
	return &CreateOutput{Session: sess, Persisted: true}, nil
}

// Delete removes a session. Nothing is touched unless Confirmed is set.
func (s *service) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if !input.Confirmed {
		return nil, ErrConfirmationRequired
	}

	if input.ID == "" {
		return nil, models.ErrMissingID
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if err := s.sync.Remove(ctx, &cloudsync.RemoveInput{ID: input.ID}); err != nil {
		glog.Errorf("failed to delete session %s: %v", input.ID, err)
		return &DeleteOutput{Persisted: false}, nil
	}

	next := make([]*models.Session, 0, len(s.sessions))
	for _, existing := range s.sessions {
		if existing.ID != input.ID {
			next = append(next, existing)
		}
	}
	s.sessions = next
	s.mirror(ctx)

	glog.Infof("deleted session %s", input.ID)
	return &DeleteOutput{Persisted: true}, nil
}

// ListSessions returns the whole list, or the sessions of one day
func (s *service) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if input.Date == "" {
		return &ListSessionsOutput{Sessions: s.snapshot()}, nil
	}

	matched := []*models.Session{}
	for _, sess := range s.sessions {
		if sess.Date == input.Date {
			matched = append(matched, sess.Clone())
		}
	}

	return &ListSessionsOutput{Sessions: matched}, nil
}

// GetSession looks a session up by ID
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	for _, sess := range s.sessions {
		if sess.ID == input.ID {
			return &GetSessionOutput{Session: sess.Clone()}, nil
		}
	}

	return nil, ErrSessionNotFound
}

// Upcoming returns sessions dated today or later, soonest first
func (s *service) Upcoming(ctx context.Context, input *UpcomingInput) (*UpcomingOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if s.location != nil {
		now = now.In(s.location)
	}
	today := now.Format(models.DateLayout)
	upcoming := []*models.Session{}
	for _, sess := range s.sessions {
		if sess.Date < today {
			continue
		}
		upcoming = append(upcoming, sess.Clone())
		if input.Limit > 0 && len(upcoming) == input.Limit {
			break
		}
	}

	return &UpcomingOutput{Sessions: upcoming}, nil
}

// Import replaces the list with a backup. The result is written to the local
// store only; use MigrateToCloud to push it to a remote store.
func (s *service) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if !input.Confirmed {
		return nil, ErrImportNotConfirmed
	}

	next := make([]*models.Session, 0, len(input.Sessions))
	for _, sess := range input.Sessions {
		c := sess.Clone()
		c.Normalize()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		next = append(next, c)
	}
	models.SortByDate(next)

	if err := s.sync.Mirror(ctx, &cloudsync.MirrorInput{Sessions: next}); err != nil {
		return nil, err
	}

	s.sessions = next
	s.loaded = true
	s.pending = 0

	glog.Infof("imported %d sessions", len(next))
	return &ImportOutput{Imported: len(next)}, nil
}

// TestConnection runs the sync service's check and reloads when the new
// credentials were accepted
func (s *service) TestConnection(ctx context.Context, input *TestConnectionInput) (*TestConnectionOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	result, err := s.sync.TestConnection(ctx, &cloudsync.TestConnectionInput{URL: input.URL, Key: input.Key})
	if err != nil {
		return nil, err
	}

	out := &TestConnectionOutput{Result: result}
	if !result.Success {
		out.Sessions = s.snapshot()
		out.Status = s.sync.Status().Status
		return out, nil
	}

	loaded, err := s.Load(ctx, &LoadInput{})
	if err != nil {
		return nil, err
	}
	out.Sessions = loaded.Sessions
	out.Status = loaded.Status
	out.Pending = loaded.Pending

	return out, nil
}

// MigrateToCloud pushes the local list to the remote store and reloads
func (s *service) MigrateToCloud(ctx context.Context, input *MigrateToCloudInput) (*MigrateToCloudOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	result, err := s.sync.MigrateToCloud(ctx, &cloudsync.MigrateToCloudInput{})
	if err != nil {
		return nil, err
	}

	loaded, err := s.Load(ctx, &LoadInput{})
	if err != nil {
		return nil, err
	}

	return &MigrateToCloudOutput{
		Result:   result,
		Sessions: loaded.Sessions,
		Status:   loaded.Status,
	}, nil
}

// Provision creates the remote sessions table
func (s *service) Provision(ctx context.Context, input *ProvisionInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.sync.Provision(ctx, &cloudsync.ProvisionInput{})
}

// Status reports the sync state without loading
func (s *service) Status(ctx context.Context, input *StatusInput) (*StatusOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	return &StatusOutput{
		Status: s.sync.Status(),
		Count:  len(s.sessions),
		Loaded: s.loaded,
	}, nil
}

func (s *service) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	_, err := s.Load(ctx, &LoadInput{})
	return err
}

// mirror writes the in-memory list to the local store. Failures are logged.
func (s *service) mirror(ctx context.Context) {
	if s.pending > 0 {
		glog.V(1).Infof("keeping local store, %d sessions await migration", s.pending)
		return
	}

	if err := s.sync.Mirror(ctx, &cloudsync.MirrorInput{Sessions: s.sessions}); err != nil {
		glog.Errorf("failed to mirror sessions locally: %v", err)
	}
}

// snapshot copies the list so callers cannot reorder ours
func (s *service) snapshot() []*models.Session {
	out := make([]*models.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out
}
