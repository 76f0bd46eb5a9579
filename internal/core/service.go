package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PredictionService is the core service for classifying single messages
type PredictionService struct {
	classifier   Classifier
	encoder      FeatureEncoder
	version      ModelVersion
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	classifier Classifier,
	encoder FeatureEncoder,
	version ModelVersion,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *PredictionService {
	return &PredictionService{
		classifier:   classifier,
		encoder:      encoder,
		version:      version,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
	}
}

// ClassifierName returns the display name of the served classifier
func (s *PredictionService) ClassifierName() string {
	return strings.ToLower(s.classifier.Name())
}

// CacheKey derives the cache key of a message classified by the given model
func CacheKey(version ModelVersion, sms string) string {
	h := sha256.New()
	h.Write([]byte(version))
	h.Write([]byte{0})
	h.Write([]byte(sms))
	return hex.EncodeToString(h.Sum(nil))
}

// Classify predicts the label of a single message
func (s *PredictionService) Classify(ctx context.Context, sms string) (*Prediction, error) {
	key := CacheKey(s.version, sms)

	// Check cache if enabled
	if s.cacheEnabled {
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.logger.Debug("Cache hit for message", zap.String("key", key))
			return &Prediction{
				Label:       entry.Label,
				Classifier:  entry.Classifier,
				Message:     sms,
				Cached:      true,
				PredictedAt: time.Now(),
			}, nil
		case !errors.Is(err, ErrNotFound):
			s.logger.Warn("Failed to read cache", zap.Error(err))
		}
	}

	features, err := s.encoder.Encode([]string{sms})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	labels, err := s.classifier.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("failed to predict label: %w", err)
	}
	if len(labels) != 1 {
		return nil, fmt.Errorf("%w: expected 1 prediction, got %d", ErrShapeMismatch, len(labels))
	}

	result := &Prediction{
		Label:       labels[0],
		Classifier:  s.ClassifierName(),
		Message:     sms,
		PredictedAt: time.Now(),
	}

	// Update cache with result if enabled
	if s.cacheEnabled {
		entry := &CacheEntry{
			Key:        key,
			Label:      result.Label,
			Classifier: result.Classifier,
			CreatedAt:  result.PredictedAt,
			ExpiresAt:  result.PredictedAt.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	s.logger.Debug("Classified message",
		zap.String("label", result.Label.String()),
		zap.String("classifier", result.Classifier),
		zap.Int("length", len(sms)))

	return result, nil
}
