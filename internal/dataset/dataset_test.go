package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/features"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

const rawCollection = "ham\tGo until jurong point, crazy..\n" +
	"spam\tFree entry in 2 a wkly comp to win FA Cup final tkts\n" +
	"\n" +
	"not-a-label\tsomething\n" +
	"ham\t\n" +
	"ham no tab here\n" +
	"ham\tOk lar... Joking wif u oni...\n"

func TestReadRaw(t *testing.T) {
	msgs, skipped, err := ReadRaw(strings.NewReader(rawCollection), textproc.NewTextProcessor(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, skipped)
	require.Len(t, msgs, 3)
	assert.Equal(t, core.Spam, msgs[1].Label)
	assert.Equal(t, "Go until jurong point, crazy..", msgs[0].Text)
	assert.Equal(t, len("Go until jurong point, crazy.."), msgs[0].Length)

	_, _, err = ReadRaw(strings.NewReader("\n\n"), textproc.NewTextProcessor(zap.NewNop()), zap.NewNop())
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestPrepareRoundTrip(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "SMSSpamCollection")
	out := filepath.Join(dir, "output", "processed_msgs.csv")
	require.NoError(t, os.WriteFile(raw, []byte(rawCollection), 0o644))

	n, err := Prepare(raw, out, textproc.NewTextProcessor(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	msgs, err := LoadMessages(out)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []core.Label{core.Ham, core.Spam, core.Ham}, LabelsOf(msgs))
	assert.Equal(t, "Ok lar... Joking wif u oni...", msgs[2].Text)
}

func TestPreparedRowsMatchServedFeatures(t *testing.T) {
	long := "  " + strings.Repeat("привет ", 100) + "\xff  "
	raw := "ham\t" + long + "\n" +
		"spam\tFree prize, call now\n" +
		"ham\tsee you at lunch\n"

	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw")
	outPath := filepath.Join(dir, "processed_msgs.csv")
	require.NoError(t, os.WriteFile(rawPath, []byte(raw), 0o644))

	tp := textproc.NewTextProcessor(zap.NewNop())
	_, err := Prepare(rawPath, outPath, tp, zap.NewNop())
	require.NoError(t, err)
	msgs, err := LoadMessages(outPath)
	require.NoError(t, err)
	assert.Equal(t, 699, msgs[0].Length)

	// training rows, built the way the trainer builds them
	v := features.NewVectorizer(textproc.NewDefaultTokenizer())
	text, err := v.FitTransform(Texts(msgs))
	require.NoError(t, err)
	x, err := features.Assemble(text, Lengths(msgs))
	require.NoError(t, err)

	served, err := tp.ProcessText(long, 4096)
	require.NoError(t, err)
	got, err := features.NewEncoder(v).Encode([]string{served})
	require.NoError(t, err)

	want := TakeRows(x, []int{0})
	assert.True(t, mat.EqualApprox(want, got, 1e-12), "served %v\ntrained %v", mat.Formatted(got), mat.Formatted(want))
	_, cols := got.Dims()
	assert.Equal(t, 699.0, got.At(0, cols-1))
}

func TestWriteMessagesQuotesFields(t *testing.T) {
	var buf bytes.Buffer
	msgs := []core.Message{{Text: `He said "hi", then left`, Length: 23, Label: core.Ham}}
	require.NoError(t, WriteMessages(&buf, msgs))

	assert.True(t, strings.HasPrefix(buf.String(), "message,length,label\n"))

	back, err := ReadMessages(&buf)
	require.NoError(t, err)
	assert.Equal(t, msgs, back)
}

func TestReadMessages(t *testing.T) {
	t.Run("columns in any order with BOM and float lengths", func(t *testing.T) {
		in := "\ufefflabel,message,length\nspam,Win now,7.0\nham,\"hi, you\",7\n"
		msgs, err := ReadMessages(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []core.Message{
			{Text: "Win now", Length: 7, Label: core.Spam},
			{Text: "hi, you", Length: 7, Label: core.Ham},
		}, msgs)
		assert.Equal(t, []string{"Win now", "hi, you"}, Texts(msgs))
		assert.Equal(t, []float64{7, 7}, Lengths(msgs))
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadMessages(strings.NewReader("message,label\nhi,ham\n"))
		assert.Error(t, err)
	})

	t.Run("invalid label", func(t *testing.T) {
		_, err := ReadMessages(strings.NewReader("message,length,label\nhi,2,eggs\n"))
		assert.ErrorIs(t, err, core.ErrInvalidLabel)
	})

	t.Run("fractional length", func(t *testing.T) {
		_, err := ReadMessages(strings.NewReader("message,length,label\nhi,2.5,ham\n"))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ReadMessages(strings.NewReader(""))
		assert.ErrorIs(t, err, core.ErrEmptyDataset)

		_, err = ReadMessages(strings.NewReader("message,length,label\n"))
		assert.ErrorIs(t, err, core.ErrEmptyDataset)
	})
}

func TestTrainTestSplit(t *testing.T) {
	split, err := TrainTestSplit(10, 0.3, 101)
	require.NoError(t, err)
	assert.Len(t, split.Test, 3)
	assert.Len(t, split.Train, 7)

	all := append(append([]int(nil), split.Train...), split.Test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	again, err := TrainTestSplit(10, 0.3, 101)
	require.NoError(t, err)
	assert.Equal(t, split, again)

	other, err := TrainTestSplit(10, 0.3, 102)
	require.NoError(t, err)
	assert.NotEqual(t, split, other)
}

func TestTrainTestSplitSizes(t *testing.T) {
	split, err := TrainTestSplit(5572, 0.3, 101)
	require.NoError(t, err)
	assert.Len(t, split.Test, 1672)
	assert.Len(t, split.Train, 3900)

	_, err = TrainTestSplit(1, 0.3, 101)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)

	_, err = TrainTestSplit(10, 0, 101)
	assert.Error(t, err)
	_, err = TrainTestSplit(10, 1, 101)
	assert.Error(t, err)
}

func TestTake(t *testing.T) {
	assert.Equal(t, []string{"c", "a"}, Take([]string{"a", "b", "c"}, []int{2, 0}))

	m := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	rows := TakeRows(m, []int{2, 0})
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{5, 6, 1, 2}), rows))
}
