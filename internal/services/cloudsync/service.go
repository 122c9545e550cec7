package cloudsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/lenslink/internal/localstore"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/repositories/session"
	"github.com/golang/glog"
)

// service implements the Service interface. It is not safe for concurrent
// use; callers serialize access.
type service struct {
	localStore localstore.Store
	local      session.Repository
	dialer     session.Dialer
	operator   *localstore.Credentials

	// remote is dialed lazily and reused while the credentials stay the same
	remote      session.Remote
	remoteCreds localstore.Credentials

	status  Status
	source  Source
	lastErr string

	// pending counts local sessions the remote store did not hold at the
	// last connected Load
	pending int
}

// NewService creates a new sync service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.LocalStore == nil {
		return nil, ErrNilLocalStore
	}

	if cfg.Dialer == nil {
		return nil, ErrNilDialer
	}

	local, err := session.NewLocal(cfg.LocalStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create local repository: %w", err)
	}

	return &service{
		localStore: cfg.LocalStore,
		local:      local,
		dialer:     cfg.Dialer,
		operator:   cfg.Credentials,
		status:     StatusDisconnected,
		source:     SourceLocal,
	}, nil
}

// Load reads from the remote store when credentials are configured and it
// answers, and falls back to the local store otherwise
func (s *service) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	creds := s.credentials(ctx)
	if !creds.Configured() {
		s.status = StatusDisconnected
		s.lastErr = ""
		s.pending = 0
		return s.loadLocal(ctx), nil
	}

	remote, err := s.connect(ctx, creds)
	if err != nil {
		s.fail("connect", err)
		return s.loadLocal(ctx), nil
	}

	out, err := remote.GetAll(ctx, &session.GetAllInput{})
	if err != nil {
		s.fail("load", err)
		return s.loadLocal(ctx), nil
	}

	s.status = StatusConnected
	s.source = SourceRemote
	s.lastErr = ""
	s.pending = len(unmigrated(s.localStore.ReadAll(ctx), out.Sessions))
	glog.V(1).Infof("loaded %d sessions from %s", len(out.Sessions), remote.Backend())
	if s.pending > 0 {
		glog.Infof("%d local sessions are not in %s yet", s.pending, remote.Backend())
	}

	return &LoadOutput{
		Sessions: out.Sessions,
		Status:   s.status,
		Source:   s.source,
		Pending:  s.pending,
	}, nil
}

// Active returns the remote store after a successful Load, the local store
// otherwise
func (s *service) Active() session.Repository {
	if s.source == SourceRemote && s.remote != nil {
		return s.remote
	}
	return s.local
}

// Save upserts into the active store. A remote failure moves the status to
// error; the remote stays active until the next Load.
func (s *service) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Session == nil {
		return ErrNilInput
	}

	err := s.Active().Upsert(ctx, &session.UpsertInput{Session: input.Session})
	if err != nil {
		if s.source == SourceRemote {
			s.fail("save", err)
		}
		return err
	}

	return nil
}

// Remove deletes from the active store
func (s *service) Remove(ctx context.Context, input *RemoveInput) error {
	if input == nil {
		return ErrNilInput
	}

	err := s.Active().DeleteByID(ctx, &session.DeleteByIDInput{ID: input.ID})
	if err != nil {
		if s.source == SourceRemote {
			s.fail("delete", err)
		}
		return err
	}

	return nil
}

// Mirror overwrites the local store with the given list
func (s *service) Mirror(ctx context.Context, input *MirrorInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.localStore.WriteAll(ctx, input.Sessions)
}

// TestConnection dials the candidate credentials on a client of its own,
// probes the sessions table and classifies the outcome. The candidate pair is
// saved, and the cached handle dropped, only on success.
func (s *service) TestConnection(ctx context.Context, input *TestConnectionInput) (*TestConnectionOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if input.URL == "" || input.Key == "" {
		return &TestConnectionOutput{
			Kind:    KindConfiguration,
			Message: "Both the remote URL and the access key are required.",
		}, nil
	}

	remote, err := s.dialer.Dial(ctx, &session.DialInput{URL: input.URL, Key: input.Key})
	if err != nil {
		return diagnose(err), nil
	}
	defer func() {
		if err := remote.Close(); err != nil {
			glog.Warningf("failed to close test connection: %v", err)
		}
	}()

	if err := remote.Probe(ctx); err != nil {
		return diagnose(err), nil
	}

	if err := s.localStore.SaveCredentials(ctx, &localstore.Credentials{URL: input.URL, Key: input.Key}); err != nil {
		glog.Errorf("connection test passed but credentials were not saved: %v", err)
		return &TestConnectionOutput{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf("Connection works, but the credentials could not be saved: %v", err),
		}, nil
	}

	if err := s.Reset(); err != nil {
		glog.Warningf("failed to close previous remote handle: %v", err)
	}

	if s.operator.Configured() {
		glog.Warningf("saved remote credentials are shadowed by operator-provided credentials")
		return &TestConnectionOutput{
			Success: true,
			Kind:    KindOK,
			Message: fmt.Sprintf("Connected to %s and saved the credentials, but the remote store set in the config file or environment takes precedence. Sessions keep syncing there.", remote.Backend()),
		}, nil
	}

	return &TestConnectionOutput{
		Success: true,
		Kind:    KindOK,
		Message: fmt.Sprintf("Connected to %s. Sessions will now sync with the cloud.", remote.Backend()),
	}, nil
}

// MigrateToCloud upserts every local session into the connected remote store,
// one at a time. Failures are counted and skipped; nothing is rolled back.
func (s *service) MigrateToCloud(ctx context.Context, input *MigrateToCloudInput) (*MigrateToCloudOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if s.status != StatusConnected || s.remote == nil {
		return nil, ErrNotConnected
	}

	sessions := s.localStore.ReadAll(ctx)
	if len(sessions) == 0 {
		return nil, ErrNothingToMigrate
	}

	out := &MigrateToCloudOutput{Total: len(sessions)}
	for _, sess := range sessions {
		if err := s.remote.Upsert(ctx, &session.UpsertInput{Session: sess}); err != nil {
			glog.Errorf("failed to migrate session %s: %v", sess.ID, err)
			out.Failed++
			continue
		}
		out.Migrated++
	}

	glog.Infof("migrated %d of %d sessions to %s", out.Migrated, out.Total, s.remote.Backend())
	return out, nil
}

// Provision creates the sessions table in the configured remote store
func (s *service) Provision(ctx context.Context, input *ProvisionInput) error {
	if input == nil {
		return ErrNilInput
	}

	creds := s.credentials(ctx)
	if !creds.Configured() {
		return ErrNotConfigured
	}

	remote, err := s.connect(ctx, creds)
	if err != nil {
		return err
	}

	return remote.Provision(ctx)
}

// Status reports the current state
func (s *service) Status() *StatusOutput {
	out := &StatusOutput{
		Status:    s.status,
		Source:    s.source,
		LastError: s.lastErr,
		Pending:   s.pending,
	}
	if s.remote != nil {
		out.Backend = s.remote.Backend()
	}
	return out
}

// Reset closes and forgets the remote handle
func (s *service) Reset() error {
	if s.remote == nil {
		return nil
	}

	err := s.remote.Close()
	s.remote = nil
	s.remoteCreds = localstore.Credentials{}
	if s.source == SourceRemote {
		s.source = SourceLocal
	}

	return err
}

// Close releases the remote handle
func (s *service) Close() error {
	return s.Reset()
}

// credentials returns the operator pair when set, else the cached user pair
func (s *service) credentials(ctx context.Context) *localstore.Credentials {
	if s.operator.Configured() {
		return s.operator
	}

	creds, err := s.localStore.Credentials(ctx)
	if err != nil {
		glog.Warningf("ignoring unreadable cached credentials: %v", err)
		return &localstore.Credentials{}
	}

	return creds
}

// connect returns the cached handle for creds, dialing when there is none or
// the credentials changed
func (s *service) connect(ctx context.Context, creds *localstore.Credentials) (session.Remote, error) {
	if s.remote != nil && s.remoteCreds == *creds {
		return s.remote, nil
	}

	if err := s.Reset(); err != nil {
		glog.Warningf("failed to close previous remote handle: %v", err)
	}

	remote, err := s.dialer.Dial(ctx, &session.DialInput{URL: creds.URL, Key: creds.Key})
	if err != nil {
		return nil, err
	}

	s.remote = remote
	s.remoteCreds = *creds
	return remote, nil
}

// unmigrated returns the local sessions whose IDs the remote list lacks
func unmigrated(local, remote []*models.Session) []*models.Session {
	ids := make(map[string]struct{}, len(remote))
	for _, sess := range remote {
		ids[sess.ID] = struct{}{}
	}

	var missing []*models.Session
	for _, sess := range local {
		if _, ok := ids[sess.ID]; !ok {
			missing = append(missing, sess)
		}
	}
	return missing
}

func (s *service) loadLocal(ctx context.Context) *LoadOutput {
	s.source = SourceLocal
	out, err := s.local.GetAll(ctx, &session.GetAllInput{})
	if err != nil {
		// The local adapter does not fail reads
		glog.Errorf("failed to read local sessions: %v", err)
		out = &session.GetAllOutput{Sessions: []*models.Session{}}
	}

	return &LoadOutput{
		Sessions: out.Sessions,
		Status:   s.status,
		Source:   s.source,
	}
}

func (s *service) fail(op string, err error) {
	glog.Errorf("remote %s failed: %v", op, err)
	s.status = StatusError
	s.lastErr = err.Error()
}

// diagnose maps a dial or probe failure to a user-facing outcome. Driver
// messages are passed through so the operator sees the store's own words.
func diagnose(err error) *TestConnectionOutput {
	switch {
	case errors.Is(err, session.ErrUnsupportedScheme):
		return &TestConnectionOutput{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf("The remote URL is not usable (expected redis:// or postgres://): %v", err),
		}
	case errors.Is(err, session.ErrMissingTable):
		return &TestConnectionOutput{
			Kind:    KindMissingTable,
			Message: fmt.Sprintf("Connected, but the sessions table does not exist. Run \"lenslink provision\" to create it: %v", err),
		}
	case errors.Is(err, session.ErrPermissionDenied):
		return &TestConnectionOutput{
			Kind:    KindPermissionDenied,
			Message: fmt.Sprintf("Connected, but access was denied. Check the key and the store's access policy: %v", err),
		}
	}

	return &TestConnectionOutput{
		Kind:    KindConnectivity,
		Message: fmt.Sprintf("Could not reach the remote store: %v", err),
	}
}
