package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"larry/internal/platform/config"
)

// NewDB opens the sqlite database described by cfg and checks the connection.
func NewDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	// mattn/go-sqlite3 expects a plain path; "file:" is accepted in config for
	// readability.
	dsn := strings.TrimPrefix(cfg.URL, "file:")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
