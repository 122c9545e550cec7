package cloudsync

import (
	"github.com/KirkDiggler/lenslink/internal/localstore"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/repositories/session"
)

// Status is the connection state of the remote store
type Status string

const (
	// StatusDisconnected means no remote credentials are configured
	StatusDisconnected Status = "disconnected"

	// StatusConnected means the last remote read succeeded
	StatusConnected Status = "connected"

	// StatusError means credentials exist but the remote store failed
	StatusError Status = "error"
)

// Source names the store the session list was read from
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Kind classifies a connection test outcome
type Kind string

const (
	KindOK               Kind = "ok"
	KindMissingTable     Kind = "missing_table"
	KindPermissionDenied Kind = "permission_denied"
	KindConnectivity     Kind = "connectivity"
	KindConfiguration    Kind = "configuration"
)

// Config holds configuration for the sync service
type Config struct {
	// LocalStore is the on-device store, always available
	LocalStore localstore.Store

	// Dialer builds remote stores from credentials
	Dialer session.Dialer

	// Credentials provided by the operator (config file or environment).
	// When configured they take precedence over the pair cached in the
	// local store.
	Credentials *localstore.Credentials
}

type LoadInput struct {
}

type LoadOutput struct {
	Sessions []*models.Session
	Status   Status
	Source   Source

	// Pending is the number of local sessions missing from the remote list.
	// Zero unless Source is remote.
	Pending int
}

type SaveInput struct {
	Session *models.Session
}

type RemoveInput struct {
	ID string
}

type MirrorInput struct {
	Sessions []*models.Session
}

type TestConnectionInput struct {
	URL string
	Key string
}

type TestConnectionOutput struct {
	Success bool
	Kind    Kind
	Message string
}

type MigrateToCloudInput struct {
}

// MigrateToCloudOutput reports totals only. Migrated records are not rolled
// back when a later record fails.
type MigrateToCloudOutput struct {
	Total    int
	Migrated int
	Failed   int
}

type ProvisionInput struct {
}

type StatusOutput struct {
	Status  Status
	Source  Source
	Backend string

	// LastError is the most recent remote failure, empty when none
	LastError string

	// Pending is the number of local sessions awaiting MigrateToCloud
	Pending int
}
