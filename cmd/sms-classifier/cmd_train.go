package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/dataset"
	"github.com/mikey/sms-spam-classifier/internal/pipeline"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// prepareCmd converts the raw tab-separated collection into the processed CSV
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Convert the raw SMS collection into the processed dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(cmd, func(
			cfg *config.Config,
			logger *zap.Logger,
			textProcessor *textproc.TextProcessor,
		) error {
			defer logger.Sync()

			paths := cfg.GetPaths()
			_, err := dataset.Prepare(paths.RawData, paths.ProcessedData, textProcessor, logger)
			return err
		})
	},
}

// trainCmd fits and evaluates the configured classifiers
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train, evaluate and persist classifiers",
	Long: `Vectorize the processed dataset, hold out a seeded test split, fit every
classifier in train.classifiers, print a classification report for each,
append misclassified test messages to the log and persist train.persist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(cmd, func(trainer *pipeline.Trainer, logger *zap.Logger) error {
			defer logger.Sync()

			if _, err := trainer.Run(cmd.Context()); err != nil {
				logger.Error("Training failed", zap.Error(err))
				return err
			}
			return nil
		})
	},
}
