package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type postgresStore struct{ db *sql.DB }

func openPostgres(ctx context.Context, dsn string) (*postgresStore, error) {
	dbh, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	dbh.SetMaxOpenConns(4)
	dbh.SetMaxIdleConns(2)
	dbh.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := dbh.PingContext(pingCtx); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if _, err := dbh.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &postgresStore{db: dbh}, nil
}

func (s *postgresStore) get(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s *postgresStore) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, string(value), time.Now().UTC())
	return err
}

func (s *postgresStore) Close() error { return s.db.Close() }
