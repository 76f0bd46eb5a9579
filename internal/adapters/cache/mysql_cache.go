package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// MySQLCache stores predictions in a shared MySQL table
type MySQLCache struct {
	*sqlStore
}

var _ core.CacheRepository = (*MySQLCache)(nil)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS prediction_cache (
		message_key CHAR(64) PRIMARY KEY,
		label TINYINT NOT NULL,
		classifier VARCHAR(64) NOT NULL,
		created_at BIGINT NOT NULL,
		expires_at BIGINT NOT NULL,
		INDEX idx_prediction_expires_at (expires_at)
	)`,
}

const mysqlUpsert = `
	INSERT INTO prediction_cache (message_key, label, classifier, created_at, expires_at)
	VALUES (?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		label = VALUES(label),
		classifier = VALUES(classifier),
		created_at = VALUES(created_at),
		expires_at = VALUES(expires_at)`

// NewMySQLCache connects to dsn and creates the cache table if needed
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	store, err := openStore(db, "mysql", mysqlUpsert, mysqlSchema, logger, cleanupFreq)
	if err != nil {
		return nil, err
	}
	return &MySQLCache{sqlStore: store}, nil
}
