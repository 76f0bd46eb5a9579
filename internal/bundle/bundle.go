// Package bundle persists a trained classifier together with the feature
// transform it was trained on.
package bundle

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/mikey/sms-spam-classifier/internal/adapters/bayes"
	"github.com/mikey/sms-spam-classifier/internal/adapters/svm"
	"github.com/mikey/sms-spam-classifier/internal/adapters/tree"
	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/features"
)

// FormatVersion is bumped whenever the encoded layout changes
const FormatVersion = 1

// Bundle is the on-disk model artifact
type Bundle struct {
	FormatVersion int
	CreatedAt     time.Time
	ClassifierKey string
	NumFeatures   int
	Vectorizer    features.VectorizerState

	Tree  *tree.Classifier
	SVM   *svm.Classifier
	Bayes *bayes.Classifier
}

// New packs a fitted classifier and vectorizer
func New(key string, classifier core.Classifier, vectorizer *features.Vectorizer) (*Bundle, error) {
	b := &Bundle{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		ClassifierKey: key,
		NumFeatures:   vectorizer.NumTerms() + 1,
		Vectorizer:    vectorizer.State(),
	}

	var fitted int
	switch c := classifier.(type) {
	case *tree.Classifier:
		b.Tree, fitted = c, c.NumFeatures
	case *svm.Classifier:
		b.SVM, fitted = c, c.NumFeatures
	case *bayes.Classifier:
		b.Bayes, fitted = c, c.NumFeatures
	default:
		return nil, fmt.Errorf("%w: cannot persist classifier %T", core.ErrUnsupportedBundle, classifier)
	}
	if fitted == 0 {
		return nil, core.ErrNotFitted
	}
	if fitted != b.NumFeatures {
		return nil, fmt.Errorf("%w: classifier fitted on %d features, vectorizer produces %d",
			core.ErrShapeMismatch, fitted, b.NumFeatures)
	}
	return b, nil
}

// Version identifies this bundle by classifier key and creation time
func (b *Bundle) Version() core.ModelVersion {
	return core.ModelVersion(b.ClassifierKey + "@" + b.CreatedAt.UTC().Format(time.RFC3339Nano))
}

// Classifier returns the packed classifier
func (b *Bundle) Classifier() (core.Classifier, error) {
	switch {
	case b.Tree != nil:
		return b.Tree, nil
	case b.SVM != nil:
		return b.SVM, nil
	case b.Bayes != nil:
		return b.Bayes, nil
	default:
		return nil, fmt.Errorf("%w: bundle holds no classifier", core.ErrUnsupportedBundle)
	}
}

// Encoder rebuilds the feature encoder the classifier was trained with
func (b *Bundle) Encoder() (*features.Encoder, error) {
	v, err := features.NewVectorizerFromState(b.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("failed to restore vectorizer: %w", err)
	}
	return features.NewEncoder(v), nil
}

// Validate checks the format version and that the classifier and vectorizer agree on shape
func (b *Bundle) Validate() error {
	if b.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: format version %d, want %d", core.ErrUnsupportedBundle, b.FormatVersion, FormatVersion)
	}
	if want := len(b.Vectorizer.Terms) + 1; b.NumFeatures != want {
		return fmt.Errorf("%w: bundle declares %d features, vectorizer produces %d",
			core.ErrUnsupportedBundle, b.NumFeatures, want)
	}
	c, err := b.Classifier()
	if err != nil {
		return err
	}
	var fitted int
	switch c := c.(type) {
	case *tree.Classifier:
		fitted = c.NumFeatures
	case *svm.Classifier:
		fitted = c.NumFeatures
	case *bayes.Classifier:
		fitted = c.NumFeatures
	}
	if fitted != b.NumFeatures {
		return fmt.Errorf("%w: classifier expects %d features, bundle declares %d",
			core.ErrUnsupportedBundle, fitted, b.NumFeatures)
	}
	return nil
}

// Save writes the bundle to path, creating parent directories
func Save(path string, b *Bundle) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if err := gob.NewEncoder(f).Encode(b); err != nil {
		return fmt.Errorf("failed to encode model bundle: %w", err)
	}
	return nil
}

// Load reads and validates a bundle written by Save
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode model bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
