package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// SQLiteCache stores predictions in a local SQLite file
type SQLiteCache struct {
	*sqlStore
}

var _ core.CacheRepository = (*SQLiteCache)(nil)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS prediction_cache (
		message_key TEXT PRIMARY KEY,
		label INTEGER NOT NULL,
		classifier TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prediction_expires_at ON prediction_cache(expires_at)`,
}

const sqliteUpsert = `
	INSERT OR REPLACE INTO prediction_cache (message_key, label, classifier, created_at, expires_at)
	VALUES (?, ?, ?, ?, ?)`

// NewSQLiteCache opens (or creates) the cache database at dbPath
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	store, err := openStore(db, "sqlite", sqliteUpsert, sqliteSchema, logger, cleanupFreq)
	if err != nil {
		return nil, err
	}
	return &SQLiteCache{sqlStore: store}, nil
}
