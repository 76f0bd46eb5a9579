package di

import (
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/factory"
	"github.com/mikey/sms-spam-classifier/internal/pipeline"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// BuildCLIContainer creates a container for the offline commands; reports are written to out
func BuildCLIContainer(flags *Flags, out io.Writer) (*dig.Container, error) {
	container, err := BuildContainer(flags)
	if err != nil {
		return nil, err
	}

	// Register training options
	if err := container.Provide(func(cfg *config.Config) pipeline.Options {
		paths := cfg.GetPaths()
		training := cfg.GetTraining()
		return pipeline.Options{
			DatasetPath:      paths.ProcessedData,
			MatrixPath:       paths.TFIDFMatrix,
			ModelPath:        paths.Model,
			MisclassifiedLog: paths.MisclassifiedLog,
			TestSize:         training.TestSize,
			Seed:             training.Seed,
			Persist:          training.Persist,
		}
	}); err != nil {
		return nil, err
	}

	// Register trainer
	if err := container.Provide(func(
		opts pipeline.Options,
		tokenizer *textproc.Tokenizer,
		candidates []factory.Candidate,
		logger *zap.Logger,
	) *pipeline.Trainer {
		return pipeline.NewTrainer(opts, tokenizer, candidates, logger.Named("pipeline"), out)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
