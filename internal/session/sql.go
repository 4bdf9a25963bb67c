package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLBackend stores session values in the session_values table created by
// db.Open. Works against both the sqlite and pgx drivers.
type SQLBackend struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

func (s *SQLBackend) Get(ctx context.Context, sid, key string) (string, bool, error) {
	var (
		value   string
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM session_values WHERE session_id=$1 AND key=$2`,
		sid, key).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if expires != 0 && s.now().Unix() > expires {
		return "", false, nil
	}
	return value, true, nil
}

func (s *SQLBackend) Set(ctx context.Context, sid, key, value string, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = s.now().Add(ttl).Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_values (session_id, key, value, expires_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT(session_id, key) DO UPDATE SET value=excluded.value, expires_at=excluded.expires_at`,
		sid, key, value, expires)
	return err
}

// Purge drops expired rows; main runs it on a ticker.
func (s *SQLBackend) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_values WHERE expires_at <> 0 AND expires_at < $1`, s.now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLBackend) Close() error { return s.db.Close() }
