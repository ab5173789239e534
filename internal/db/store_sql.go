package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLKV keeps values in the kv_store table of a SQLite or Postgres database.
type SQLKV struct {
	db     *sql.DB
	driver Driver
}

func NewSQLKV(db *sql.DB, driver Driver) *SQLKV {
	return &SQLKV{db: db, driver: driver}
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (s *SQLKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_store (key,value,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		key, string(value), time.Now().Unix())
	return err
}

func (s *SQLKV) Close() error { return s.db.Close() }
