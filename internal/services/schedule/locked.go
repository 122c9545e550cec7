package schedule

import (
	"context"
	"sync"
)

// locked serializes every call into the wrapped service
type locked struct {
	mu   sync.Mutex
	next Service
}

// NewLocked wraps svc so the HTTP API and the Discord bot can share it
func NewLocked(svc Service) Service {
	return &locked{next: svc}
}

func (l *locked) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Load(ctx, input)
}

func (l *locked) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Create(ctx, input)
}

func (l *locked) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Delete(ctx, input)
}

func (l *locked) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.ListSessions(ctx, input)
}

func (l *locked) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.GetSession(ctx, input)
}

func (l *locked) Upcoming(ctx context.Context, input *UpcomingInput) (*UpcomingOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Upcoming(ctx, input)
}

func (l *locked) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Import(ctx, input)
}

func (l *locked) TestConnection(ctx context.Context, input *TestConnectionInput) (*TestConnectionOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.TestConnection(ctx, input)
}

func (l *locked) MigrateToCloud(ctx context.Context, input *MigrateToCloudInput) (*MigrateToCloudOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.MigrateToCloud(ctx, input)
}

func (l *locked) Provision(ctx context.Context, input *ProvisionInput) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Provision(ctx, input)
}

func (l *locked) Status(ctx context.Context, input *StatusInput) (*StatusOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Status(ctx, input)
}
