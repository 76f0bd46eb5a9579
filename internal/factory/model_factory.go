package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/bundle"
	"github.com/mikey/sms-spam-classifier/internal/config"
)

// ModelFactory loads persisted models
type ModelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger) *ModelFactory {
	return &ModelFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// LoadBundle reads the model bundle from output.model
func (f *ModelFactory) LoadBundle() (*bundle.Bundle, error) {
	path := f.cfg.GetPaths().Model
	b, err := bundle.Load(path)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Loaded model",
		zap.String("file", path),
		zap.String("classifier", b.ClassifierKey),
		zap.Int("features", b.NumFeatures),
		zap.Time("created_at", b.CreatedAt))
	return b, nil
}
