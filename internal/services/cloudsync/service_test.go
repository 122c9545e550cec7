package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/KirkDiggler/lenslink/internal/localstore"
	storeMocks "github.com/KirkDiggler/lenslink/internal/localstore/mocks"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/repositories/session"
	sessionMocks "github.com/KirkDiggler/lenslink/internal/repositories/session/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockStore  *storeMocks.MockStore
	mockDialer *sessionMocks.MockDialer
	mockRemote *sessionMocks.MockRemote
	service    *service
	ctx        context.Context

	creds     *localstore.Credentials
	localList []*models.Session
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = storeMocks.NewMockStore(s.ctrl)
	s.mockDialer = sessionMocks.NewMockDialer(s.ctrl)
	s.mockRemote = sessionMocks.NewMockRemote(s.ctrl)
	s.ctx = context.Background()

	svc, err := NewService(&Config{
		LocalStore: s.mockStore,
		Dialer:     s.mockDialer,
	})
	s.Require().NoError(err)
	s.service = svc

	s.creds = &localstore.Credentials{URL: "redis://cloud:6379", Key: "k"}
	s.localList = []*models.Session{
		{ID: "local-1", Date: "2024-03-01"},
		{ID: "local-2", Date: "2024-03-05"},
	}

	s.mockRemote.EXPECT().Backend().Return("redis").AnyTimes()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

// connect drives a successful Load so the remote becomes active
func (s *ServiceTestSuite) connect(remoteList []*models.Session) {
	s.mockStore.EXPECT().Credentials(s.ctx).Return(s.creds, nil)
	s.mockDialer.EXPECT().Dial(s.ctx, &session.DialInput{URL: s.creds.URL, Key: s.creds.Key}).Return(s.mockRemote, nil)
	s.mockRemote.EXPECT().GetAll(s.ctx, &session.GetAllInput{}).Return(&session.GetAllOutput{Sessions: remoteList}, nil)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(remoteList)

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Require().Equal(StatusConnected, out.Status)
}

func (s *ServiceTestSuite) TestNewServiceValidatesConfig() {
	_, err := NewService(nil)
	s.Equal(ErrNilConfig, err)

	_, err = NewService(&Config{Dialer: s.mockDialer})
	s.Equal(ErrNilLocalStore, err)

	_, err = NewService(&Config{LocalStore: s.mockStore})
	s.Equal(ErrNilDialer, err)
}

func (s *ServiceTestSuite) TestInitialStatusIsDisconnected() {
	st := s.service.Status()
	s.Equal(StatusDisconnected, st.Status)
	s.Equal(SourceLocal, st.Source)
	s.Empty(st.Backend)
}

func (s *ServiceTestSuite) TestLoadWithoutCredentialsReadsLocal() {
	s.mockStore.EXPECT().Credentials(s.ctx).Return(&localstore.Credentials{}, nil)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(s.localList)

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(StatusDisconnected, out.Status)
	s.Equal(SourceLocal, out.Source)
	s.Equal(s.localList, out.Sessions)
}

func (s *ServiceTestSuite) TestLoadWithUnreadableCredentialsReadsLocal() {
	s.mockStore.EXPECT().Credentials(s.ctx).Return(nil, errors.New("badger closed"))
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(s.localList)

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(StatusDisconnected, out.Status)
}

func (s *ServiceTestSuite) TestLoadConnected() {
	remoteList := []*models.Session{{ID: "remote-1", Date: "2024-01-01"}}
	s.mockStore.EXPECT().Credentials(s.ctx).Return(s.creds, nil)
	s.mockDialer.EXPECT().Dial(s.ctx, &session.DialInput{URL: s.creds.URL, Key: s.creds.Key}).Return(s.mockRemote, nil)
	s.mockRemote.EXPECT().GetAll(s.ctx, &session.GetAllInput{}).Return(&session.GetAllOutput{Sessions: remoteList}, nil)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(remoteList)

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(StatusConnected, out.Status)
	s.Equal(SourceRemote, out.Source)
	s.Equal(remoteList, out.Sessions)
	s.Zero(out.Pending)
	s.Equal(s.mockRemote, s.service.Active())
	s.Equal("redis", s.service.Status().Backend)
}

func (s *ServiceTestSuite) TestLoadConnectedCountsLocalOnlySessions() {
	remoteList := []*models.Session{{ID: "local-1", Date: "2024-03-01"}, {ID: "remote-1", Date: "2024-04-01"}}
	s.mockStore.EXPECT().Credentials(s.ctx).Return(s.creds, nil)
	s.mockDialer.EXPECT().Dial(s.ctx, gomock.Any()).Return(s.mockRemote, nil)
	s.mockRemote.EXPECT().GetAll(s.ctx, &session.GetAllInput{}).Return(&session.GetAllOutput{Sessions: remoteList}, nil)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(s.localList)

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(SourceRemote, out.Source)
	s.Equal(remoteList, out.Sessions)
	s.Equal(1, out.Pending)
	s.Equal(1, s.service.Status().Pending)

	// Losing the credentials clears the count
	s.mockStore.EXPECT().Credentials(s.ctx).Return(&localstore.Credentials{}, nil)
	s.mockRemote.EXPECT().Close().Return(nil).AnyTimes()
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(s.localList)

	out, err = s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Zero(out.Pending)
	s.Zero(s.service.Status().Pending)
}

func (s *ServiceTestSuite) TestLoadReusesHandle() {
	s.connect(nil)

	s.mockStore.EXPECT().Credentials(s.ctx).Return(s.creds, nil)
	s.mockRemote.EXPECT().GetAll(s.ctx, &session.GetAllInput{}).Return(&session.GetAllOutput{}, nil)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return([]*models.Session{})

	_, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestLoadRedialsWhenCredentialsChange() {
	s.connect(nil)

	next := &localstore.Credentials{URL: "redis://other:6379", Key: "k2"}
	other := sessionMocks.NewMockRemote(s.ctrl)
	s.mockStore.EXPECT().Credentials(s.ctx).Return(next, nil)
	s.mockRemote.EXPECT().Close().Return(nil)
	s.mockDialer.EXPECT().Dial(s.ctx, &session.DialInput{URL: next.URL, Key: next.Key}).Return(other, nil)
	other.EXPECT().GetAll(s.ctx, &session.GetAllInput{}).Return(&session.GetAllOutput{}, nil)
	other.EXPECT().Backend().Return("redis").AnyTimes()
	s.mockStore.EXPECT().ReadAll(s.ctx).Return([]*models.Session{})

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(StatusConnected, out.Status)
	s.Equal(other, s.service.Active())
}

func (s *ServiceTestSuite) TestLoadDialFailureFallsBackToLocal() {
	s.mockStore.EXPECT().Credentials(s.ctx).Return(s.creds, nil)
	s.mockDialer.EXPECT().Dial(s.ctx, gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(s.localList)

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(StatusError, out.Status)
	s.Equal(SourceLocal, out.Source)
	s.Equal(s.localList, out.Sessions)
	s.Contains(s.service.Status().LastError, "connection refused")
}

func (s *ServiceTestSuite) TestLoadReadFailureFallsBackToLocal() {
	s.mockStore.EXPECT().Credentials(s.ctx).Return(s.creds, nil)
	s.mockDialer.EXPECT().Dial(s.ctx, gomock.Any()).Return(s.mockRemote, nil)
	s.mockRemote.EXPECT().GetAll(s.ctx, gomock.Any()).Return(nil, session.ErrMissingTable)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(s.localList)

	out, err := s.service.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(StatusError, out.Status)
	s.Equal(s.localList, out.Sessions)
	s.NotEqual(s.mockRemote, s.service.Active())
}

func (s *ServiceTestSuite) TestOperatorCredentialsWin() {
	operator := &localstore.Credentials{URL: "postgres://db/lenslink", Key: "pw"}
	svc, err := NewService(&Config{
		LocalStore:  s.mockStore,
		Dialer:      s.mockDialer,
		Credentials: operator,
	})
	s.Require().NoError(err)

	s.mockDialer.EXPECT().Dial(s.ctx, &session.DialInput{URL: operator.URL, Key: operator.Key}).Return(s.mockRemote, nil)
	s.mockRemote.EXPECT().GetAll(s.ctx, gomock.Any()).Return(&session.GetAllOutput{}, nil)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return([]*models.Session{})

	out, err := svc.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(StatusConnected, out.Status)
}

func (s *ServiceTestSuite) TestTestConnectionReportsShadowedCredentials() {
	operator := &localstore.Credentials{URL: "postgres://db/lenslink", Key: "pw"}
	svc, err := NewService(&Config{
		LocalStore:  s.mockStore,
		Dialer:      s.mockDialer,
		Credentials: operator,
	})
	s.Require().NoError(err)

	input := &TestConnectionInput{URL: "redis://candidate:6379", Key: "k"}
	s.mockDialer.EXPECT().Dial(s.ctx, &session.DialInput{URL: input.URL, Key: input.Key}).Return(s.mockRemote, nil)
	s.mockRemote.EXPECT().Probe(s.ctx).Return(nil)
	s.mockRemote.EXPECT().Close().Return(nil)
	s.mockStore.EXPECT().SaveCredentials(s.ctx, &localstore.Credentials{URL: input.URL, Key: input.Key}).Return(nil)

	out, err := svc.TestConnection(s.ctx, input)
	s.Require().NoError(err)
	s.True(out.Success)
	s.Contains(out.Message, "takes precedence")
	s.NotContains(out.Message, "will now sync")
}

func (s *ServiceTestSuite) TestLoadNilInput() {
	_, err := s.service.Load(s.ctx, nil)
	s.Equal(ErrNilInput, err)
}

func (s *ServiceTestSuite) TestSaveRoutesToRemoteWhenConnected() {
	s.connect(nil)

	sess := &models.Session{ID: "a", Date: "2024-01-01"}
	s.mockRemote.EXPECT().Upsert(s.ctx, &session.UpsertInput{Session: sess}).Return(nil)

	s.NoError(s.service.Save(s.ctx, &SaveInput{Session: sess}))
	s.Equal(StatusConnected, s.service.Status().Status)
}

func (s *ServiceTestSuite) TestRemoteSaveFailureSetsErrorStatus() {
	s.connect(nil)

	boom := errors.New("timeout")
	s.mockRemote.EXPECT().Upsert(s.ctx, gomock.Any()).Return(boom)

	err := s.service.Save(s.ctx, &SaveInput{Session: &models.Session{ID: "a", Date: "2024-01-01"}})
	s.True(errors.Is(err, boom))
	s.Equal(StatusError, s.service.Status().Status)

	// The remote stays active until the next Load
	s.Equal(s.mockRemote, s.service.Active())
}

func (s *ServiceTestSuite) TestSaveRoutesToLocalWhenDisconnected() {
	sess := &models.Session{ID: "a", Date: "2024-01-01"}
	s.mockStore.EXPECT().ReadAll(s.ctx).Return([]*models.Session{})
	s.mockStore.EXPECT().WriteAll(s.ctx, []*models.Session{sess}).Return(nil)

	s.NoError(s.service.Save(s.ctx, &SaveInput{Session: sess}))
	s.Equal(StatusDisconnected, s.service.Status().Status)
}

func (s *ServiceTestSuite) TestRemoveRoutesToRemote() {
	s.connect(nil)

	s.mockRemote.EXPECT().DeleteByID(s.ctx, &session.DeleteByIDInput{ID: "a"}).Return(nil)
	s.NoError(s.service.Remove(s.ctx, &RemoveInput{ID: "a"}))
}

func (s *ServiceTestSuite) TestMirrorWritesLocal() {
	s.mockStore.EXPECT().WriteAll(s.ctx, s.localList).Return(nil)
	s.NoError(s.service.Mirror(s.ctx, &MirrorInput{Sessions: s.localList}))
}

func (s *ServiceTestSuite) TestTestConnectionRequiresBothHalves() {
	out, err := s.service.TestConnection(s.ctx, &TestConnectionInput{URL: "redis://x"})
	s.Require().NoError(err)
	s.False(out.Success)
	s.Equal(KindConfiguration, out.Kind)
}

func (s *ServiceTestSuite) TestTestConnectionClassifiesFailures() {
	cases := []struct {
		name    string
		dialErr error
		probe   error
		want    Kind
	}{
		{name: "unreachable", dialErr: errors.New("dial tcp 10.0.0.1:6379: i/o timeout"), want: KindConnectivity},
		{name: "bad scheme", dialErr: fmt.Errorf("%w: %q", session.ErrUnsupportedScheme, "https"), want: KindConfiguration},
		{name: "auth at dial", dialErr: fmt.Errorf("failed to connect: %w", session.ErrPermissionDenied), want: KindPermissionDenied},
		{name: "missing table", probe: session.ErrMissingTable, want: KindMissingTable},
		{name: "policy block", probe: fmt.Errorf("%w: new row violates row-level security policy", session.ErrPermissionDenied), want: KindPermissionDenied},
		{name: "probe network", probe: errors.New("connection reset by peer"), want: KindConnectivity},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			input := &TestConnectionInput{URL: "redis://candidate:6379", Key: "k"}
			if tc.dialErr != nil {
				s.mockDialer.EXPECT().Dial(s.ctx, &session.DialInput{URL: input.URL, Key: input.Key}).Return(nil, tc.dialErr)
			} else {
				probed := sessionMocks.NewMockRemote(s.ctrl)
				s.mockDialer.EXPECT().Dial(s.ctx, gomock.Any()).Return(probed, nil)
				probed.EXPECT().Probe(s.ctx).Return(tc.probe)
				probed.EXPECT().Close().Return(nil)
			}

			out, err := s.service.TestConnection(s.ctx, input)
			s.Require().NoError(err)
			s.False(out.Success)
			s.Equal(tc.want, out.Kind)
			s.NotEmpty(out.Message)
		})
	}
}

func (s *ServiceTestSuite) TestTestConnectionMessagesDiffer() {
	missing := diagnose(session.ErrMissingTable)
	denied := diagnose(session.ErrPermissionDenied)
	s.NotEqual(missing.Message, denied.Message)
}

func (s *ServiceTestSuite) TestTestConnectionSuccessSavesAndResets() {
	s.connect(nil)

	input := &TestConnectionInput{URL: "postgres://new/db", Key: "pw"}
	probed := sessionMocks.NewMockRemote(s.ctrl)
	probed.EXPECT().Backend().Return("postgres").AnyTimes()

	gomock.InOrder(
		s.mockDialer.EXPECT().Dial(s.ctx, &session.DialInput{URL: input.URL, Key: input.Key}).Return(probed, nil),
		probed.EXPECT().Probe(s.ctx).Return(nil),
		s.mockStore.EXPECT().SaveCredentials(s.ctx, &localstore.Credentials{URL: input.URL, Key: input.Key}).Return(nil),
		s.mockRemote.EXPECT().Close().Return(nil),
		probed.EXPECT().Close().Return(nil),
	)

	out, err := s.service.TestConnection(s.ctx, input)
	s.Require().NoError(err)
	s.True(out.Success)
	s.Equal(KindOK, out.Kind)
	s.Contains(out.Message, "postgres")

	// The cached handle is gone until the next Load re-dials
	s.Empty(s.service.Status().Backend)
}

func (s *ServiceTestSuite) TestMigrateRequiresConnection() {
	_, err := s.service.MigrateToCloud(s.ctx, &MigrateToCloudInput{})
	s.Equal(ErrNotConnected, err)
}

func (s *ServiceTestSuite) TestMigrateRequiresLocalRecords() {
	s.connect(nil)
	s.mockStore.EXPECT().ReadAll(s.ctx).Return([]*models.Session{})

	_, err := s.service.MigrateToCloud(s.ctx, &MigrateToCloudInput{})
	s.Equal(ErrNothingToMigrate, err)
}

func (s *ServiceTestSuite) TestMigrateContinuesPastFailures() {
	s.connect(nil)

	list := []*models.Session{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-01-02"},
		{ID: "c", Date: "2024-01-03"},
	}
	s.mockStore.EXPECT().ReadAll(s.ctx).Return(list)
	gomock.InOrder(
		s.mockRemote.EXPECT().Upsert(s.ctx, &session.UpsertInput{Session: list[0]}).Return(nil),
		s.mockRemote.EXPECT().Upsert(s.ctx, &session.UpsertInput{Session: list[1]}).Return(errors.New("boom")),
		s.mockRemote.EXPECT().Upsert(s.ctx, &session.UpsertInput{Session: list[2]}).Return(nil),
	)

	out, err := s.service.MigrateToCloud(s.ctx, &MigrateToCloudInput{})
	s.Require().NoError(err)
	s.Equal(&MigrateToCloudOutput{Total: 3, Migrated: 2, Failed: 1}, out)
}

func (s *ServiceTestSuite) TestProvisionRequiresCredentials() {
	s.mockStore.EXPECT().Credentials(s.ctx).Return(&localstore.Credentials{}, nil)

	s.Equal(ErrNotConfigured, s.service.Provision(s.ctx, &ProvisionInput{}))
}

func (s *ServiceTestSuite) TestProvisionUsesConfiguredRemote() {
	s.mockStore.EXPECT().Credentials(s.ctx).Return(s.creds, nil)
	s.mockDialer.EXPECT().Dial(s.ctx, gomock.Any()).Return(s.mockRemote, nil)
	s.mockRemote.EXPECT().Provision(s.ctx).Return(nil)

	s.NoError(s.service.Provision(s.ctx, &ProvisionInput{}))
}

func (s *ServiceTestSuite) TestCloseReleasesHandle() {
	s.connect(nil)
	s.mockRemote.EXPECT().Close().Return(nil)

	s.NoError(s.service.Close())
	s.NoError(s.service.Close())
}
