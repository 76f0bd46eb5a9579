package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// Vectorizer learns a vocabulary and inverse document frequencies,
// then maps messages to L2-normalized TF-IDF rows.
type Vectorizer struct {
	tokenizer  *textproc.Tokenizer
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// VectorizerState is the serializable form of a fitted vectorizer
type VectorizerState struct {
	Terms     []string
	IDF       []float64
	Stopwords []string
}

// NewVectorizer creates an unfitted vectorizer
func NewVectorizer(tokenizer *textproc.Tokenizer) *Vectorizer {
	return &Vectorizer{tokenizer: tokenizer}
}

// NewVectorizerFromState restores a fitted vectorizer
func NewVectorizerFromState(state VectorizerState) (*Vectorizer, error) {
	if len(state.Terms) != len(state.IDF) {
		return nil, fmt.Errorf("%w: %d terms, %d idf weights", core.ErrShapeMismatch, len(state.Terms), len(state.IDF))
	}
	v := &Vectorizer{
		tokenizer:  textproc.NewTokenizer(state.Stopwords),
		vocabulary: make(map[string]int, len(state.Terms)),
		terms:      append([]string(nil), state.Terms...),
		idf:        append([]float64(nil), state.IDF...),
	}
	for i, term := range v.terms {
		if _, dup := v.vocabulary[term]; dup {
			return nil, fmt.Errorf("duplicate vocabulary term %q", term)
		}
		v.vocabulary[term] = i
	}
	return v, nil
}

// Fit learns the vocabulary and idf weights of a corpus.
// idf(t) = ln((1+n)/(1+df(t))) + 1
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents to fit", core.ErrEmptyDataset)
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenizer.Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("%w: empty vocabulary, documents contain only stopwords", core.ErrEmptyDataset)
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.terms = terms
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// Transform maps documents to TF-IDF rows; unknown terms are ignored
func (v *Vectorizer) Transform(docs []string) (*CSR, error) {
	if v.vocabulary == nil {
		return nil, core.ErrNotFitted
	}

	m := NewCSR(len(v.terms))
	for _, doc := range docs {
		counts := make(map[int]float64)
		for _, tok := range v.tokenizer.Tokenize(doc) {
			if idx, ok := v.vocabulary[tok]; ok {
				counts[idx]++
			}
		}

		indices := make([]int, 0, len(counts))
		for idx := range counts {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		values := make([]float64, len(indices))
		var norm float64
		for k, idx := range indices {
			values[k] = counts[idx] * v.idf[idx]
			norm += values[k] * values[k]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range values {
				values[k] /= norm
			}
		}

		if err := m.AppendRow(indices, values); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FitTransform fits the corpus and returns its TF-IDF matrix
func (v *Vectorizer) FitTransform(docs []string) (*CSR, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

// Vocabulary returns the fitted terms in column order
func (v *Vectorizer) Vocabulary() []string {
	return append([]string(nil), v.terms...)
}

// NumTerms returns the vocabulary size
func (v *Vectorizer) NumTerms() int {
	return len(v.terms)
}

// State returns the serializable form of the vectorizer
func (v *Vectorizer) State() VectorizerState {
	return VectorizerState{
		Terms:     v.Vocabulary(),
		IDF:       append([]float64(nil), v.idf...),
		Stopwords: v.tokenizer.Stopwords(),
	}
}
