package textproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenize(t *testing.T) {
	tok := NewDefaultTokenizer()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "drops stopwords and single characters",
			text: "Free entry in 2 a wkly comp to win FA Cup final tkts",
			want: []string{"free", "entry", "wkly", "comp", "win", "fa", "cup", "final", "tkts"},
		},
		{
			name: "punctuation separates terms",
			text: "Call 09061701461. Claim code KL341!!",
			want: []string{"call", "09061701461", "claim", "code", "kl341"},
		},
		{
			name: "apostrophes are removed before stopword matching",
			text: "I don't think he goes to usf",
			want: []string{"think", "goes", "usf"},
		},
		{
			name: "full width and case variants fold together",
			text: "ＷＩＮ Win win",
			want: []string{"win", "win", "win"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "only stopwords",
			text: "I am the one",
			want: []string{"one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.text))
		})
	}
}

func TestNewTokenizerFoldsStopwords(t *testing.T) {
	tok := NewTokenizer([]string{" Hello ", "WORLD", ""})

	assert.Equal(t, []string{"hello", "world"}, tok.Stopwords())
	assert.True(t, tok.IsStopword("hello"))
	assert.Empty(t, tok.Tokenize("Hello world"))
	assert.Equal(t, []string{"again"}, tok.Tokenize("hello again"))
}

func TestDefaultStopwordsIsCopy(t *testing.T) {
	a := DefaultStopwords()
	a[0] = "changed"
	assert.NotEqual(t, "changed", DefaultStopwords()[0])
}

func TestLoadStoplist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stoplist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terms:\n  - lol\n  - ok\n"), 0o644))

	sl, err := LoadStoplist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"lol", "ok"}, sl.Terms)

	tok := NewTokenizer(sl.Terms)
	assert.Equal(t, []string{"see", "you"}, tok.Tokenize("ok lol see you"))
}

func TestLoadStoplistErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadStoplist(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("terms: [unclosed"), 0o644))
	_, err = LoadStoplist(bad)
	assert.Error(t, err)
}

func TestTextProcessor(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "a b", tp.Normalize(" \xffa b\n"))

	got, err := tp.ProcessText("  hello  ", 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// the limit applies after trimming
	got, err = tp.ProcessText("  hello  ", 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// "é" is two bytes
	_, err = tp.ProcessText("café", 4)
	assert.ErrorIs(t, err, ErrMessageTooLarge)
	got, err = tp.ProcessText("café", 5)
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}

func TestMessageLength(t *testing.T) {
	assert.Equal(t, 0, MessageLength(""))
	assert.Equal(t, 4, MessageLength("café"))
	assert.Equal(t, 5, MessageLength("hello"))
}
