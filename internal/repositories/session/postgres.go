package session

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/golang/glog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/001_create_sessions.sql
var createSessionsSQL string

const (
	selectSessionsSQL = `SELECT id, title, date, time, location, description,
	        photographer, model, mua, created_at
	 FROM sessions
	 ORDER BY date ASC`

	upsertSessionSQL = `INSERT INTO sessions
	        (id, title, date, time, location, description, photographer, model, mua, created_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9::jsonb, $10)
	 ON CONFLICT (id) DO UPDATE SET
	        title = EXCLUDED.title,
	        date = EXCLUDED.date,
	        time = EXCLUDED.time,
	        location = EXCLUDED.location,
	        description = EXCLUDED.description,
	        photographer = EXCLUDED.photographer,
	        model = EXCLUDED.model,
	        mua = EXCLUDED.mua,
	        created_at = EXCLUDED.created_at`

	deleteSessionSQL = `DELETE FROM sessions WHERE id = $1`

	probeSessionsSQL = `SELECT id FROM sessions LIMIT 1`
)

// SQLSTATE codes the adapter classifies
const (
	pgUndefinedTable        = "42P01"
	pgInsufficientPrivilege = "42501"
	pgInvalidPassword       = "28P01"
	pgInvalidAuthorization  = "28000"
)

// PostgresConfig holds configuration for the Postgres session repository
type PostgresConfig struct {
	Pool *pgxpool.Pool
}

// postgresRepository implements the Remote interface on a pgx pool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres-backed session repository
func NewPostgres(cfg *PostgresConfig) (*postgresRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Pool == nil {
		return nil, errors.New("postgres pool cannot be nil")
	}

	return &postgresRepository{pool: cfg.Pool}, nil
}

// GetAll returns every row ordered by date
func (r *postgresRepository) GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error) {
	rows, err := r.pool.Query(ctx, selectSessionsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", classifyPostgres(err))
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		s := &models.Session{}
		var photographer, model, mua []byte
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Date, &s.Time, &s.Location, &s.Description,
			&photographer, &model, &mua, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if err := unmarshalMembers(s, photographer, model, mua); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", classifyPostgres(err))
	}

	return &GetAllOutput{Sessions: sessions}, nil
}

// Upsert inserts the row or replaces every column of the existing one
func (r *postgresRepository) Upsert(ctx context.Context, input *UpsertInput) error {
	if err := validateUpsert(input); err != nil {
		return err
	}

	s := input.Session
	photographer, model, mua, err := marshalMembers(s)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, upsertSessionSQL,
		s.ID, s.Title, s.Date, s.Time, s.Location, s.Description,
		photographer, model, mua, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", s.ID, classifyPostgres(err))
	}

	return nil
}

// DeleteByID deletes the row if it exists
func (r *postgresRepository) DeleteByID(ctx context.Context, input *DeleteByIDInput) error {
	if err := validateDelete(input); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, deleteSessionSQL, input.ID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", input.ID, classifyPostgres(err))
	}

	glog.V(1).Infof("deleted %d row(s) for session %s", tag.RowsAffected(), input.ID)
	return nil
}

// Probe selects at most one id
func (r *postgresRepository) Probe(ctx context.Context) error {
	var id string
	err := r.pool.QueryRow(ctx, probeSessionsSQL).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to probe sessions: %w", classifyPostgres(err))
	}

	return nil
}

// Provision applies the embedded migration
func (r *postgresRepository) Provision(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createSessionsSQL); err != nil {
		return fmt.Errorf("failed to provision sessions table: %w", classifyPostgres(err))
	}

	glog.Info("provisioned postgres sessions table")
	return nil
}

// Backend returns "postgres"
func (r *postgresRepository) Backend() string {
	return "postgres"
}

// Close closes the pool
func (r *postgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func marshalMembers(s *models.Session) (photographer, model, mua []byte, err error) {
	if photographer, err = json.Marshal(s.Photographer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal photographer: %w", err)
	}
	if model, err = json.Marshal(s.Model); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal model: %w", err)
	}
	if mua, err = json.Marshal(s.MUA); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal mua: %w", err)
	}
	return photographer, model, mua, nil
}

func unmarshalMembers(s *models.Session, photographer, model, mua []byte) error {
	if err := json.Unmarshal(photographer, &s.Photographer); err != nil {
		return fmt.Errorf("failed to unmarshal photographer of %s: %w", s.ID, err)
	}
	if err := json.Unmarshal(model, &s.Model); err != nil {
		return fmt.Errorf("failed to unmarshal model of %s: %w", s.ID, err)
	}
	if err := json.Unmarshal(mua, &s.MUA); err != nil {
		return fmt.Errorf("failed to unmarshal mua of %s: %w", s.ID, err)
	}
	return nil
}

// classifyPostgres tags the SQLSTATEs for a missing table and for rejected
// credentials or privileges (row level security violations included)
func classifyPostgres(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUndefinedTable:
		return fmt.Errorf("%w: %v", ErrMissingTable, err)
	case pgInsufficientPrivilege, pgInvalidPassword, pgInvalidAuthorization:
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	return err
}
