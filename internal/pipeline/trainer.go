// Package pipeline runs the vectorize, split, train and evaluate sequence.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/bundle"
	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/dataset"
	"github.com/mikey/sms-spam-classifier/internal/evaluation"
	"github.com/mikey/sms-spam-classifier/internal/factory"
	"github.com/mikey/sms-spam-classifier/internal/features"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// Options carries everything a training run reads or writes.
// Empty artifact paths skip writing that artifact.
type Options struct {
	DatasetPath      string
	MatrixPath       string
	ModelPath        string
	MisclassifiedLog string
	TestSize         float64
	Seed             uint64
	Persist          string
}

// Result summarizes a training run
type Result struct {
	Evaluations []*core.EvaluationResult
	Split       dataset.Split
	NumFeatures int
	Bundle      *bundle.Bundle
}

// Trainer fits and evaluates a set of classifiers
type Trainer struct {
	opts       Options
	tokenizer  *textproc.Tokenizer
	candidates []factory.Candidate
	logger     *zap.Logger
	out        io.Writer
}

// NewTrainer creates a trainer; reports are written to out
func NewTrainer(
	opts Options,
	tokenizer *textproc.Tokenizer,
	candidates []factory.Candidate,
	logger *zap.Logger,
	out io.Writer,
) *Trainer {
	if out == nil {
		out = io.Discard
	}
	return &Trainer{
		opts:       opts,
		tokenizer:  tokenizer,
		candidates: candidates,
		logger:     logger,
		out:        out,
	}
}

// Run loads the processed dataset and trains on it
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	msgs, err := dataset.LoadMessages(t.opts.DatasetPath)
	if err != nil {
		return nil, err
	}
	t.logger.Info("Loaded dataset", zap.String("file", t.opts.DatasetPath), zap.Int("messages", len(msgs)))
	return t.Train(ctx, msgs)
}

// Train vectorizes msgs, evaluates every candidate on a held-out split and
// persists the configured one
func (t *Trainer) Train(ctx context.Context, msgs []core.Message) (*Result, error) {
	if len(msgs) == 0 {
		return nil, core.ErrEmptyDataset
	}

	texts := dataset.Texts(msgs)
	labels := dataset.LabelsOf(msgs)

	vectorizer := features.NewVectorizer(t.tokenizer)
	tfidf, err := vectorizer.FitTransform(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize messages: %w", err)
	}
	t.logger.Info("Vectorized messages",
		zap.Int("vocabulary", vectorizer.NumTerms()),
		zap.Int("non_zero", tfidf.NNZ()))

	if t.opts.MatrixPath != "" {
		if err := features.SaveMatrix(t.opts.MatrixPath, tfidf); err != nil {
			return nil, err
		}
	}

	x, err := features.Assemble(tfidf, dataset.Lengths(msgs))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble features: %w", err)
	}
	_, numFeatures := x.Dims()

	split, err := dataset.TrainTestSplit(len(msgs), t.opts.TestSize, t.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}

	xTrain, xTest := dataset.TakeRows(x, split.Train), dataset.TakeRows(x, split.Test)
	yTrain, yTest := dataset.Take(labels, split.Train), dataset.Take(labels, split.Test)
	testMessages := dataset.Take(texts, split.Test)

	if rows, _ := xTest.Dims(); rows != len(yTest) || rows != len(testMessages) {
		return nil, fmt.Errorf("%w: %d test rows, %d labels, %d messages",
			core.ErrShapeMismatch, rows, len(yTest), len(testMessages))
	}

	t.logger.Info("Split dataset",
		zap.Int("train", len(split.Train)),
		zap.Int("test", len(split.Test)),
		zap.Uint64("seed", t.opts.Seed))

	result := &Result{Split: split, NumFeatures: numFeatures}
	var persisted *factory.Candidate
	for i, c := range t.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := c.Classifier.Name()
		t.logger.Info("Training classifier", zap.String("classifier", name))
		if err := c.Classifier.Fit(xTrain, yTrain); err != nil {
			return nil, fmt.Errorf("failed to fit %s: %w", name, err)
		}
		predicted, err := c.Classifier.Predict(xTest)
		if err != nil {
			return nil, fmt.Errorf("failed to predict with %s: %w", name, err)
		}

		eval, err := evaluation.Evaluate(name, testMessages, yTest, predicted)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", name, err)
		}
		result.Evaluations = append(result.Evaluations, eval)

		evaluation.PrintReport(t.out, eval)
		if t.opts.MisclassifiedLog != "" {
			if err := evaluation.AppendMisclassified(t.opts.MisclassifiedLog, []*core.EvaluationResult{eval}); err != nil {
				return nil, err
			}
		}

		t.logger.Info("Evaluated classifier",
			zap.String("classifier", name),
			zap.Float64("accuracy", eval.Accuracy),
			zap.Int("misclassified_spam", len(eval.MisclassifiedSpam)),
			zap.Int("misclassified_ham", len(eval.MisclassifiedHam)))

		if c.Key == t.opts.Persist {
			persisted = &t.candidates[i]
		}
	}

	evaluation.PrintAccuracy(t.out, result.Evaluations)

	if t.opts.Persist == "" {
		return result, nil
	}
	if persisted == nil {
		return nil, fmt.Errorf("classifier %q selected for persistence was not trained", t.opts.Persist)
	}

	b, err := bundle.New(persisted.Key, persisted.Classifier, vectorizer)
	if err != nil {
		return nil, fmt.Errorf("failed to bundle %s: %w", persisted.Key, err)
	}
	result.Bundle = b

	if t.opts.ModelPath != "" {
		if err := bundle.Save(t.opts.ModelPath, b); err != nil {
			return nil, err
		}
		t.logger.Info("Saved model",
			zap.String("classifier", persisted.Classifier.Name()),
			zap.String("file", t.opts.ModelPath))
	}

	return result, nil
}
