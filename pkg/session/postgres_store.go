package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	insertSessionQuery = `INSERT INTO sessions (id, payload, expires_at) VALUES ($1, $2, $3)`
	upsertSessionQuery = `INSERT INTO sessions (id, payload, expires_at) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at`
	selectSessionQuery = `SELECT payload FROM sessions WHERE id = $1 AND expires_at > $2`
	deleteSessionQuery = `DELETE FROM sessions WHERE id = $1`
	deleteExpiredQuery = `DELETE FROM sessions WHERE expires_at <= $1`
)

// PostgresStore keeps payloads in the sessions table. Expired rows are
// filtered on read and removed by DeleteExpired.
type PostgresStore struct {
	db  DB
	cfg storeConfig
}

// NewPostgresStore creates a store backed by db, usually a *pgxpool.Pool.
func NewPostgresStore(db DB, opts ...StoreOption) *PostgresStore {
	return &PostgresStore{db: db, cfg: newStoreConfig(opts)}
}

// CreateData inserts p under a fresh id.
func (s *PostgresStore) CreateData(ctx context.Context, p Payload, expires *time.Time) (string, error) {
	at, ttl := ResolveExpiry(s.cfg.now(), expires)
	id := NewID()
	if ttl <= 0 {
		// Nothing to persist; the id reads as absent.
		return id, nil
	}

	data, err := encodePayload(p)
	if err != nil {
		return "", errors.Join(ErrMalformedPayload, err)
	}

	if _, err := s.db.Exec(ctx, insertSessionQuery, id, string(data), at); err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}
	return id, nil
}

// ReadData returns nil, nil for unknown or expired ids.
func (s *PostgresStore) ReadData(ctx context.Context, id string) (*Payload, error) {
	if !ValidID(id) {
		return nil, nil
	}

	var data []byte
	err := s.db.QueryRow(ctx, selectSessionQuery, id, s.cfg.now()).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return decodePayload(data)
}

// UpdateData upserts the row with the new expiry. An expiry at or before now
// deletes the row instead.
func (s *PostgresStore) UpdateData(ctx context.Context, id string, p Payload, expires *time.Time) (string, error) {
	if !ValidID(id) {
		return "", ErrInvalidID
	}

	at, ttl := ResolveExpiry(s.cfg.now(), expires)
	if ttl <= 0 {
		return id, s.DeleteData(ctx, id)
	}

	data, err := encodePayload(p)
	if err != nil {
		return "", errors.Join(ErrMalformedPayload, err)
	}

	if _, err := s.db.Exec(ctx, upsertSessionQuery, id, string(data), at); err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}
	return id, nil
}

// DeleteData removes the row. Missing rows are ignored.
func (s *PostgresStore) DeleteData(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	if _, err := s.db.Exec(ctx, deleteSessionQuery, id); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteExpired removes expired rows and returns how many were deleted.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredQuery, s.cfg.now())
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return tag.RowsAffected(), nil
}
