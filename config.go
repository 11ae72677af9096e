package docstore

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// Configuration defaults
const (
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 30 * time.Minute
)

// Config describes how to reach the backing database and which read
// policies apply.
type Config struct {
	// Driver is the database/sql driver name: "pgx" or "sqlite3".
	Driver string

	// DSN is the driver-specific connection string.
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// SkipCorrupt switches corrupt-payload handling from fail-loud (the
	// default: reads return ErrCorruptDocument) to skip-and-log, for
	// best-effort deployments that prefer availability over strictness.
	SkipCorrupt bool
}

// DefaultConfig returns a Config with production pool defaults.
func DefaultConfig(driver, dsn string) Config {
	return Config{
		Driver:          driver,
		DSN:             dsn,
		MaxOpenConns:    DefaultMaxOpenConns,
		MaxIdleConns:    DefaultMaxIdleConns,
		ConnMaxLifetime: DefaultConnMaxLifetime,
	}
}

// Validate checks if the Config is usable.
func (c Config) Validate() error {
	if c.Driver == "" {
		return WithContext(ErrInvalidConfig, map[string]any{
			"field":  "Driver",
			"reason": "must not be empty",
		})
	}
	if _, err := DialectFor(c.Driver); err != nil {
		return WithContext(ErrInvalidConfig, map[string]any{
			"field": "Driver",
			"value": c.Driver,
		})
	}
	if c.DSN == "" {
		return WithContext(ErrInvalidConfig, map[string]any{
			"field":  "DSN",
			"reason": "must not be empty",
		})
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return WithContext(ErrInvalidConfig, map[string]any{
			"field":  "MaxOpenConns/MaxIdleConns",
			"reason": "must be non-negative",
		})
	}
	return nil
}

// Open connects to the database described by cfg and returns a Store wired
// with the matching dialect. The caller owns the store and should Close it.
func Open(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, storageError(err, map[string]any{"driver": cfg.Driver})
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store := NewStore(db, dialect)
	store.skipCorrupt = cfg.SkipCorrupt
	return store, nil
}
