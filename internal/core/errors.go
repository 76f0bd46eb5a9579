package core

import "errors"

var (
	// ErrShapeMismatch is returned when matrices or label vectors disagree on row or column counts
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrEmptyDataset is returned when a stage receives no rows
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInvalidLabel is returned for labels other than spam or ham
	ErrInvalidLabel = errors.New("invalid label")
	// ErrNotFitted is returned when predicting with an untrained model
	ErrNotFitted = errors.New("classifier not fitted")
	// ErrUnsupportedBundle is returned when a model bundle cannot be used
	ErrUnsupportedBundle = errors.New("unsupported model bundle")
	// ErrNotFound is returned when a cache entry does not exist or has expired
	ErrNotFound = errors.New("cache entry not found")
)
