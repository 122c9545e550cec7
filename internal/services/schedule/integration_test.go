package schedule

import (
	"context"
	"fmt"
	"testing"

	"github.com/KirkDiggler/lenslink/internal/common/clock"
	"github.com/KirkDiggler/lenslink/internal/common/uuid"
	"github.com/KirkDiggler/lenslink/internal/localstore"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/repositories/session"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
)

// IntegrationTestSuite runs the schedule service over a real cloudsync
// service, a badger local store and a miniredis remote
type IntegrationTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	store   localstore.Store
	sync    cloudsync.Service
	service *service
	ctx     context.Context
	url     string
}

func (s *IntegrationTestSuite) SetupTest() {
	s.ctx = context.Background()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.mr.RequireAuth("s3cret")
	s.url = "redis://" + s.mr.Addr()

	store, err := localstore.NewBadger(&localstore.Config{Dir: s.T().TempDir()})
	s.Require().NoError(err)
	s.store = store

	syncSvc, err := cloudsync.NewService(&cloudsync.Config{
		LocalStore: s.store,
		Dialer:     session.NewDialer(),
	})
	s.Require().NoError(err)
	s.sync = syncSvc

	svc, err := NewService(&Config{
		Sync:          s.sync,
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
	})
	s.Require().NoError(err)
	s.service = svc

	remote, err := session.NewDialer().Dial(s.ctx, &session.DialInput{URL: s.url, Key: "s3cret"})
	s.Require().NoError(err)
	defer remote.Close()
	s.Require().NoError(remote.Provision(s.ctx))
}

func (s *IntegrationTestSuite) TearDownTest() {
	s.sync.Close()
	s.store.Close()
	s.mr.Close()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) createOffline(titles ...string) []string {
	created := []string{}
	for i, title := range titles {
		out, err := s.service.Create(s.ctx, &CreateInput{Session: &models.Session{
			Title: title,
			Date:  fmt.Sprintf("2024-09-%02d", i+1),
		}})
		s.Require().NoError(err)
		s.Require().True(out.Persisted)
		created = append(created, out.Session.ID)
	}
	return created
}

func (s *IntegrationTestSuite) remoteIDs() []string {
	remote, err := session.NewDialer().Dial(s.ctx, &session.DialInput{URL: s.url, Key: "s3cret"})
	s.Require().NoError(err)
	defer remote.Close()

	out, err := remote.GetAll(s.ctx, &session.GetAllInput{})
	s.Require().NoError(err)
	return ids(out.Sessions)
}

func (s *IntegrationTestSuite) TestOfflineSessionsSurviveConnectAndMigrate() {
	created := s.createOffline("Dunes", "Alley")
	s.Len(s.store.ReadAll(s.ctx), 2)

	conn, err := s.service.TestConnection(s.ctx, &TestConnectionInput{URL: s.url, Key: "s3cret"})
	s.Require().NoError(err)
	s.Require().True(conn.Result.Success, conn.Result.Message)
	s.Equal(cloudsync.StatusConnected, conn.Status)
	s.Equal(2, conn.Pending)
	s.Empty(conn.Sessions)

	// Connecting must not wipe the migration source
	s.Len(s.store.ReadAll(s.ctx), 2)

	// A fresh Load, as a later CLI invocation does, keeps it too
	loaded, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(2, loaded.Pending)
	s.Len(s.store.ReadAll(s.ctx), 2)

	migrated, err := s.service.MigrateToCloud(s.ctx, &MigrateToCloudInput{})
	s.Require().NoError(err)
	s.Equal(&cloudsync.MigrateToCloudOutput{Total: 2, Migrated: 2}, migrated.Result)
	s.Equal(created, ids(migrated.Sessions))
	s.Equal(created, s.remoteIDs())

	st, err := s.service.Status(s.ctx, &StatusInput{})
	s.Require().NoError(err)
	s.Zero(st.Status.Pending)
	s.Equal(created, ids(s.store.ReadAll(s.ctx)))
}

func (s *IntegrationTestSuite) TestConnectedWritesWaitForMigrationBeforeMirroring() {
	offline := s.createOffline("Dunes")

	conn, err := s.service.TestConnection(s.ctx, &TestConnectionInput{URL: s.url, Key: "s3cret"})
	s.Require().NoError(err)
	s.Require().True(conn.Result.Success, conn.Result.Message)

	out, err := s.service.Create(s.ctx, &CreateInput{Session: &models.Session{Title: "Pier", Date: "2024-10-01"}})
	s.Require().NoError(err)
	s.Require().True(out.Persisted)

	s.Equal([]string{out.Session.ID}, s.remoteIDs())
	s.Equal(offline, ids(s.store.ReadAll(s.ctx)))

	_, err = s.service.MigrateToCloud(s.ctx, &MigrateToCloudInput{})
	s.Require().NoError(err)

	want := []string{offline[0], out.Session.ID}
	s.Equal(want, s.remoteIDs())
	s.Equal(want, ids(s.store.ReadAll(s.ctx)))
}
