package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// TextProcessorFactory creates text processors and tokenizers
type TextProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(cfg *config.Config, logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *textproc.TextProcessor {
	return textproc.NewTextProcessor(f.logger)
}

// CreateTokenizer creates a tokenizer from the configured stoplist, or the built-in one
func (f *TextProcessorFactory) CreateTokenizer() (*textproc.Tokenizer, error) {
	path := f.cfg.GetText().StoplistPath
	if path == "" {
		return textproc.NewDefaultTokenizer(), nil
	}

	stoplist, err := textproc.LoadStoplist(path)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Loaded stoplist", zap.String("file", path), zap.Int("terms", len(stoplist.Terms)))
	return textproc.NewTokenizer(stoplist.Terms), nil
}
