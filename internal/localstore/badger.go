package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/dgraph-io/badger"
	"github.com/golang/glog"
)

// Config holds configuration for the badger local store
type Config struct {
	// Dir is the directory holding the badger files
	Dir string
}

// badgerStore implements the Store interface on an embedded badger database
type badgerStore struct {
	db *badger.DB
}

// NewBadger opens (creating if needed) the badger database in cfg.Dir
func NewBadger(cfg *Config) (*badgerStore, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Dir == "" {
		return nil, errors.New("data directory cannot be empty")
	}

	opts := badger.DefaultOptions(cfg.Dir).WithLogger(glogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger kv dir %s: %w", cfg.Dir, err)
	}

	return &badgerStore{db: db}, nil
}

// ReadAll returns the stored session list, or an empty list when the key is
// absent or holds something that is not a session array
func (s *badgerStore) ReadAll(ctx context.Context) []*models.Session {
	raw, err := s.get(SessionsKey)
	if err != nil {
		glog.Errorf("failed to read %s: %v", SessionsKey, err)
		return []*models.Session{}
	}
	if raw == nil {
		return []*models.Session{}
	}

	var sessions []*models.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		glog.Warningf("discarding unreadable %s: %v", SessionsKey, err)
		return []*models.Session{}
	}

	// A literal "null" decodes cleanly into a nil slice
	if sessions == nil {
		return []*models.Session{}
	}

	return sessions
}

// WriteAll overwrites the stored session list in one transaction
func (s *badgerStore) WriteAll(ctx context.Context, sessions []*models.Session) error {
	if sessions == nil {
		sessions = []*models.Session{}
	}

	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(SessionsKey), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", SessionsKey, err)
	}

	glog.V(1).Infof("mirrored %d sessions to local store", len(sessions))
	return nil
}

// Credentials returns the cached user-entered remote credentials. Missing keys
// come back as empty strings.
func (s *badgerStore) Credentials(ctx context.Context) (*Credentials, error) {
	creds := &Credentials{}

	err := s.db.View(func(txn *badger.Txn) error {
		url, err := valueOf(txn, RemoteURLKey)
		if err != nil {
			return err
		}
		key, err := valueOf(txn, RemoteKeyKey)
		if err != nil {
			return err
		}
		creds.URL = string(url)
		creds.Key = string(key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read remote credentials: %w", err)
	}

	return creds, nil
}

// SaveCredentials stores both halves of the pair in one transaction
func (s *badgerStore) SaveCredentials(ctx context.Context, creds *Credentials) error {
	if creds == nil {
		return errors.New("credentials cannot be nil")
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(RemoteURLKey), []byte(creds.URL)); err != nil {
			return err
		}
		return txn.Set([]byte(RemoteKeyKey), []byte(creds.Key))
	})
	if err != nil {
		return fmt.Errorf("failed to save remote credentials: %w", err)
	}

	return nil
}

// Close closes the badger database
func (s *badgerStore) Close() error {
	return s.db.Close()
}

func (s *badgerStore) get(key string) ([]byte, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		raw, err = valueOf(txn, key)
		return err
	})
	return raw, err
}

// valueOf returns nil, nil for a missing key
func valueOf(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
