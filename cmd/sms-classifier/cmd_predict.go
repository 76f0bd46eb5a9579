package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/di"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// predictCmd classifies one message with the persisted model
var predictCmd = &cobra.Command{
	Use:   "predict [message]",
	Short: "Classify a single message (reads stdin when no message is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sms string
		if len(args) == 1 {
			sms = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read message from stdin: %w", err)
			}
			sms = strings.TrimRight(string(data), "\r\n")
		}

		return invoke(cmd, func(
			cfg *config.Config,
			logger *zap.Logger,
			service *core.PredictionService,
			textProcessor *textproc.TextProcessor,
			cacheRepo core.CacheRepository,
		) error {
			defer logger.Sync()
			defer di.StopCache(cacheRepo)

			text, err := textProcessor.ProcessText(sms, cfg.GetText().MaxMessageSize)
			if err != nil {
				return err
			}
			prediction, err := service.Classify(cmd.Context(), text)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Result: %s\n", prediction.Label.Title())
			fmt.Fprintf(cmd.OutOrStdout(), "Classifier: %s\n", prediction.Classifier)
			fmt.Fprintf(cmd.OutOrStdout(), "Cached: %t\n", prediction.Cached)
			return nil
		})
	},
}
