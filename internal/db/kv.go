package db

import (
	"context"
	"fmt"
)

// KV stores whole values under string keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// OpenKV picks a backend by driver name. For bolt the dsn is a file path.
func OpenKV(ctx context.Context, driver Driver, dsn string) (KV, error) {
	switch driver {
	case DriverBolt, "":
		if dsn == "" {
			dsn = "data/gabarita.db"
		}
		return OpenBolt(dsn)
	case DriverSQLite, DriverPostgres:
		sqlDB, err := Open(ctx, driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", driver, err)
		}
		return NewSQLKV(sqlDB, driver), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}
