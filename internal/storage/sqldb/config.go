package sqldb

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Driver selects the SQL dialect
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config holds SQL connection settings
type Config struct {
	Driver Driver
	// DSN is a file path for sqlite or a connection URL for postgres
	DSN          string
	MaxOpenConns int
}

// DefaultConfig returns a config for a local sqlite file
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "scout.db",
		MaxOpenConns: 10,
	}
}

// driverName maps the dialect onto the registered database/sql driver
func (d Driver) driverName() (string, error) {
	switch d {
	case DriverSQLite:
		return "sqlite", nil
	case DriverPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unknown sql driver %q", d)
	}
}

func (d Driver) placeholders() sq.PlaceholderFormat {
	if d == DriverPostgres {
		return sq.Dollar
	}
	return sq.Question
}
