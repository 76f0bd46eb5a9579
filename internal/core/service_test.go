package core_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/adapters/cache"
	"github.com/mikey/sms-spam-classifier/internal/core"
)

const testVersion core.ModelVersion = "decision_tree@2024-01-01T00:00:00Z"

// keywordEncoder marks "win a prize" with a 1
type keywordEncoder struct{}

func (keywordEncoder) Encode(messages []string) (*mat.Dense, error) {
	x := mat.NewDense(len(messages), 1, nil)
	for i, m := range messages {
		if m == "win a prize" {
			x.Set(i, 0, 1)
		}
	}
	return x, nil
}

type thresholdClassifier struct {
	calls int
	err   error
}

func (c *thresholdClassifier) Name() string                       { return "Decision Tree" }
func (c *thresholdClassifier) Fit(mat.Matrix, []core.Label) error { return nil }
func (c *thresholdClassifier) Predict(x mat.Matrix) ([]core.Label, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	r, _ := x.Dims()
	out := make([]core.Label, r)
	for i := range out {
		if x.At(i, 0) > 0.5 {
			out[i] = core.Spam
		}
	}
	return out, nil
}

func TestClassify(t *testing.T) {
	clf := &thresholdClassifier{}
	svc := core.NewPredictionService(clf, keywordEncoder{}, testVersion, nil, zap.NewNop(), true, time.Hour)

	assert.Equal(t, "decision tree", svc.ClassifierName())

	p, err := svc.Classify(context.Background(), "win a prize")
	require.NoError(t, err)
	assert.Equal(t, core.Spam, p.Label)
	assert.Equal(t, "decision tree", p.Classifier)
	assert.False(t, p.Cached)

	p, err = svc.Classify(context.Background(), "lunch?")
	require.NoError(t, err)
	assert.Equal(t, core.Ham, p.Label)
	assert.Equal(t, 2, clf.calls)
}

func TestClassifyUsesCache(t *testing.T) {
	repo := cache.NewMemoryCache(zap.NewNop(), 0)
	defer repo.Stop()

	clf := &thresholdClassifier{}
	svc := core.NewPredictionService(clf, keywordEncoder{}, testVersion, repo, zap.NewNop(), true, time.Hour)
	ctx := context.Background()

	first, err := svc.Classify(ctx, "win a prize")
	require.NoError(t, err)
	second, err := svc.Classify(ctx, "win a prize")
	require.NoError(t, err)

	assert.Equal(t, 1, clf.calls)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Label, second.Label)

	entry, err := repo.Get(ctx, core.CacheKey(testVersion, "win a prize"))
	require.NoError(t, err)
	assert.Equal(t, core.Spam, entry.Label)
}

type fixedClassifier struct {
	name  string
	label core.Label
}

func (c fixedClassifier) Name() string                       { return c.name }
func (c fixedClassifier) Fit(mat.Matrix, []core.Label) error { return nil }
func (c fixedClassifier) Predict(x mat.Matrix) ([]core.Label, error) {
	r, _ := x.Dims()
	out := make([]core.Label, r)
	for i := range out {
		out[i] = c.label
	}
	return out, nil
}

func TestClassifyCacheScopedToModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	repo, err := cache.NewSQLiteCache(path, zap.NewNop(), 0)
	require.NoError(t, err)
	old := core.NewPredictionService(fixedClassifier{"Decision Tree", core.Ham}, keywordEncoder{},
		"decision_tree@2024-01-01T00:00:00Z", repo, zap.NewNop(), true, time.Hour)
	p, err := old.Classify(ctx, "win a prize")
	require.NoError(t, err)
	assert.Equal(t, core.Ham, p.Label)
	repo.Stop()

	// retrained model, same cache file
	repo, err = cache.NewSQLiteCache(path, zap.NewNop(), 0)
	require.NoError(t, err)
	defer repo.Stop()
	retrained := core.NewPredictionService(fixedClassifier{"SVM", core.Spam}, keywordEncoder{},
		"svm@2024-02-01T00:00:00Z", repo, zap.NewNop(), true, time.Hour)

	p, err = retrained.Classify(ctx, "win a prize")
	require.NoError(t, err)
	assert.False(t, p.Cached)
	assert.Equal(t, core.Spam, p.Label)
	assert.Equal(t, "svm", p.Classifier)

	p, err = retrained.Classify(ctx, "win a prize")
	require.NoError(t, err)
	assert.True(t, p.Cached)
	assert.Equal(t, core.Spam, p.Label)
}

func TestClassifyCacheDisabled(t *testing.T) {
	repo := cache.NewMemoryCache(zap.NewNop(), 0)
	defer repo.Stop()

	clf := &thresholdClassifier{}
	svc := core.NewPredictionService(clf, keywordEncoder{}, testVersion, repo, zap.NewNop(), false, time.Hour)

	for i := 0; i < 2; i++ {
		_, err := svc.Classify(context.Background(), "win a prize")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, clf.calls)
	assert.Equal(t, 0, repo.Len())
}

func TestClassifyError(t *testing.T) {
	boom := errors.New("boom")
	svc := core.NewPredictionService(&thresholdClassifier{err: boom}, keywordEncoder{}, testVersion, nil, zap.NewNop(), false, 0)

	_, err := svc.Classify(context.Background(), "anything")
	assert.ErrorIs(t, err, boom)
}

func TestCacheKey(t *testing.T) {
	assert.Len(t, core.CacheKey(testVersion, "hello"), 64)
	assert.Equal(t, core.CacheKey(testVersion, "hello"), core.CacheKey(testVersion, "hello"))
	assert.NotEqual(t, core.CacheKey(testVersion, "hello"), core.CacheKey(testVersion, "hello "))
	assert.NotEqual(t, core.CacheKey("a", "bc"), core.CacheKey("ab", "c"))
	assert.NotEqual(t, core.CacheKey(testVersion, "hello"), core.CacheKey("svm@2024-01-01T00:00:00Z", "hello"))
}

func TestParseLabel(t *testing.T) {
	l, err := core.ParseLabel(" SPAM ")
	require.NoError(t, err)
	assert.Equal(t, core.Spam, l)
	assert.Equal(t, "Spam", l.Title())
	assert.Equal(t, "ham", core.Ham.String())

	_, err = core.ParseLabel("eggs")
	assert.ErrorIs(t, err, core.ErrInvalidLabel)
}
