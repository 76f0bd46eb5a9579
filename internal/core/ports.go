package core

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// Classifier maps feature rows to labels
type Classifier interface {
	// Name returns the human readable classifier name
	Name() string

	// Fit trains the classifier; rows of features align with labels
	Fit(features mat.Matrix, labels []Label) error

	// Predict returns one label per row of features
	Predict(features mat.Matrix) ([]Label, error)
}

// FeatureEncoder turns raw messages into the feature rows a classifier was trained on
type FeatureEncoder interface {
	Encode(messages []string) (*mat.Dense, error)
}

// CacheRepository defines the interface for caching predictions
type CacheRepository interface {
	// Get retrieves a cached prediction
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
