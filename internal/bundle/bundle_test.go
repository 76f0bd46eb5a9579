package bundle

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/adapters/bayes"
	"github.com/mikey/sms-spam-classifier/internal/adapters/svm"
	"github.com/mikey/sms-spam-classifier/internal/adapters/tree"
	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/features"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

var (
	texts = []string{
		"Are we still meeting for lunch",
		"Free entry win cash prize now",
		"Ok see you at home later",
		"URGENT you have won a prize call now",
		"Sorry I will call you later",
		"Claim your free prize text WIN",
	}
	labels  = []core.Label{core.Ham, core.Spam, core.Ham, core.Spam, core.Ham, core.Spam}
	samples = []string{"free prize", "see you at lunch", "totally unknown words"}
)

func fitVectorizer(t *testing.T) (*features.Vectorizer, *mat.Dense) {
	t.Helper()
	v := features.NewVectorizer(textproc.NewDefaultTokenizer())
	_, err := v.FitTransform(texts)
	require.NoError(t, err)
	x, err := features.NewEncoder(v).Encode(texts)
	require.NoError(t, err)
	return v, x
}

func TestSaveLoadPreservesPredictions(t *testing.T) {
	v, x := fitVectorizer(t)
	classifiers := map[string]core.Classifier{
		"decision_tree": tree.New(0, 101, zap.NewNop()),
		"svm":           svm.New(svm.DefaultOptions(), zap.NewNop()),
		"naive_bayes":   bayes.New(1, zap.NewNop()),
	}

	for key, c := range classifiers {
		t.Run(key, func(t *testing.T) {
			require.NoError(t, c.Fit(x, labels))

			b, err := New(key, c, v)
			require.NoError(t, err)
			assert.Equal(t, v.NumTerms()+1, b.NumFeatures)

			path := filepath.Join(t.TempDir(), "output", "model.bundle")
			require.NoError(t, Save(path, b))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, key, loaded.ClassifierKey)
			assert.Equal(t, b.Version(), loaded.Version())

			restored, err := loaded.Classifier()
			require.NoError(t, err)
			assert.Equal(t, c.Name(), restored.Name())

			enc, err := loaded.Encoder()
			require.NoError(t, err)
			encoded, err := enc.Encode(samples)
			require.NoError(t, err)

			origEncoded, err := features.NewEncoder(v).Encode(samples)
			require.NoError(t, err)
			want, err := c.Predict(origEncoded)
			require.NoError(t, err)
			got, err := restored.Predict(encoded)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestVersion(t *testing.T) {
	b := &Bundle{
		ClassifierKey: "decision_tree",
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC),
	}
	assert.Equal(t, core.ModelVersion("decision_tree@2024-01-02T03:04:05.000000006Z"), b.Version())

	retrained := *b
	retrained.CreatedAt = b.CreatedAt.Add(time.Nanosecond)
	assert.NotEqual(t, b.Version(), retrained.Version())
}

func TestNewRejectsInvalidClassifiers(t *testing.T) {
	v, x := fitVectorizer(t)

	_, err := New("decision_tree", tree.New(0, 1, nil), v)
	assert.ErrorIs(t, err, core.ErrNotFitted)

	narrow := tree.New(0, 1, nil)
	require.NoError(t, narrow.Fit(x.Slice(0, 6, 0, 3), labels))
	_, err = New("decision_tree", narrow, v)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = New("other", fakeClassifier{}, v)
	assert.ErrorIs(t, err, core.ErrUnsupportedBundle)
}

func TestLoadRejectsIncompatibleBundles(t *testing.T) {
	v, x := fitVectorizer(t)
	c := tree.New(0, 1, nil)
	require.NoError(t, c.Fit(x, labels))
	dir := t.TempDir()

	b, err := New("decision_tree", c, v)
	require.NoError(t, err)
	b.FormatVersion = FormatVersion + 1
	path := filepath.Join(dir, "future.bundle")
	require.NoError(t, Save(path, b))
	_, err = Load(path)
	assert.ErrorIs(t, err, core.ErrUnsupportedBundle)

	b, err = New("decision_tree", c, v)
	require.NoError(t, err)
	b.Vectorizer.Terms = b.Vectorizer.Terms[1:]
	b.Vectorizer.IDF = b.Vectorizer.IDF[1:]
	path = filepath.Join(dir, "truncated.bundle")
	require.NoError(t, Save(path, b))
	_, err = Load(path)
	assert.ErrorIs(t, err, core.ErrUnsupportedBundle)

	empty := &Bundle{FormatVersion: FormatVersion, NumFeatures: 1}
	assert.ErrorIs(t, empty.Validate(), core.ErrUnsupportedBundle)

	_, err = Load(filepath.Join(dir, "missing.bundle"))
	assert.Error(t, err)
}

type fakeClassifier struct{}

func (fakeClassifier) Name() string                       { return "fake" }
func (fakeClassifier) Fit(mat.Matrix, []core.Label) error { return nil }
func (fakeClassifier) Predict(x mat.Matrix) ([]core.Label, error) {
	r, _ := x.Dims()
	return make([]core.Label, r), nil
}
