package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// sqlStore implements the prediction_cache queries shared by the SQL backends.
// Timestamps are stored as Unix nanoseconds.
type sqlStore struct {
	db        *sql.DB
	name      string
	upsert    string
	logger    *zap.Logger
	janitor   *janitor
	closeOnce sync.Once
}

// openStore runs the schema statements on db and starts the cleanup loop
func openStore(db *sql.DB, name, upsert string, schema []string, logger *zap.Logger, cleanupFreq time.Duration) (*sqlStore, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare %s schema: %w", name, err)
		}
	}

	s := &sqlStore{
		db:     db,
		name:   name,
		upsert: upsert,
		logger: logger,
	}
	s.janitor = startJanitor(cleanupFreq, logger, s.Cleanup)
	return s, nil
}

// Get retrieves an unexpired cache entry
func (s *sqlStore) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var entry core.CacheEntry
	var label int
	var createdAt, expiresAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT message_key, label, classifier, created_at, expires_at
		FROM prediction_cache
		WHERE message_key = ? AND expires_at > ?
	`, key, time.Now().UnixNano()).Scan(&entry.Key, &label, &entry.Classifier, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s cache: %w", s.name, err)
	}

	entry.Label = core.Label(label)
	entry.CreatedAt = time.Unix(0, createdAt)
	entry.ExpiresAt = time.Unix(0, expiresAt)
	return &entry, nil
}

// Set stores a cache entry, replacing any entry with the same key
func (s *sqlStore) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := s.db.ExecContext(ctx, s.upsert,
		entry.Key, int(entry.Label), entry.Classifier, entry.CreatedAt.UnixNano(), entry.ExpiresAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store %s cache entry: %w", s.name, err)
	}
	return nil
}

// Delete removes a cache entry
func (s *sqlStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM prediction_cache WHERE message_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s cache entry: %w", s.name, err)
	}
	return nil
}

// Cleanup removes expired entries
func (s *sqlStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prediction_cache WHERE expires_at <= ?`, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to clean up %s cache: %w", s.name, err)
	}

	if n, err := result.RowsAffected(); err == nil {
		s.logger.Debug("Cleaned up expired cache entries",
			zap.String("backend", s.name),
			zap.Int64("expired_count", n))
	}
	return nil
}

// Stop stops the cleanup loop and closes the database
func (s *sqlStore) Stop() {
	s.closeOnce.Do(func() {
		s.janitor.stop()
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close cache database", zap.String("backend", s.name), zap.Error(err))
		}
	})
}
