package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/adapters/bayes"
	"github.com/mikey/sms-spam-classifier/internal/adapters/svm"
	"github.com/mikey/sms-spam-classifier/internal/adapters/tree"
	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/core"
)

// Classifier keys accepted in train.classifiers and train.persist
const (
	KeySVM          = "svm"
	KeyDecisionTree = "decision_tree"
	KeyNaiveBayes   = "naive_bayes"
)

// Candidate is a configured classifier and the key it was created from
type Candidate struct {
	Key        string
	Classifier core.Classifier
}

// ClassifierFactory creates classifiers
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates an unfitted classifier for key
func (f *ClassifierFactory) CreateClassifier(key string) (core.Classifier, error) {
	switch key {
	case KeySVM:
		svmCfg := f.cfg.GetSVM()
		return svm.New(svm.Options{
			C:         svmCfg.C,
			Tolerance: svmCfg.Tolerance,
			MaxIter:   svmCfg.MaxIter,
			CacheRows: svmCfg.CacheRows,
		}, f.logger.Named("svm")), nil
	case KeyDecisionTree:
		return tree.New(
			f.cfg.GetTree().MaxDepth,
			f.cfg.GetTraining().Seed,
			f.logger.Named("tree"),
		), nil
	case KeyNaiveBayes:
		return bayes.New(f.cfg.GetBayes().Alpha, f.logger.Named("bayes")), nil
	default:
		return nil, fmt.Errorf("unsupported classifier: %s", key)
	}
}

// CreateCandidates creates every classifier listed in train.classifiers, in order
func (f *ClassifierFactory) CreateCandidates() ([]Candidate, error) {
	keys := f.cfg.GetTraining().Classifiers
	if len(keys) == 0 {
		return nil, fmt.Errorf("no classifiers configured")
	}

	seen := make(map[string]struct{}, len(keys))
	candidates := make([]Candidate, 0, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("classifier %s configured twice", key)
		}
		seen[key] = struct{}{}

		c, err := f.CreateClassifier(key)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{Key: key, Classifier: c})
	}
	return candidates, nil
}
