package textproc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrMessageTooLarge is returned for messages over the configured size limit
var ErrMessageTooLarge = errors.New("message too large")

// TextProcessor cleans raw message text before it reaches the tokenizer.
// Training and serving both go through Normalize so the length feature and
// tokens of a message are the same on both paths.
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// SanitizeUTF8 drops invalid UTF-8 bytes
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// Normalize sanitizes and trims text
func (tp *TextProcessor) Normalize(text string) string {
	return strings.TrimSpace(tp.SanitizeUTF8(text))
}

// ProcessText normalizes text and rejects it when it exceeds maxSize bytes.
// A non-positive maxSize disables the limit.
func (tp *TextProcessor) ProcessText(text string, maxSize int) (string, error) {
	normalized := tp.Normalize(text)
	if maxSize > 0 && len(normalized) > maxSize {
		tp.logger.Debug("Text rejected",
			zap.Int("size", len(normalized)),
			zap.Int("max_size", maxSize))
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrMessageTooLarge, len(normalized), maxSize)
	}
	return normalized, nil
}

// MessageLength is the auxiliary length feature of a message, in runes
func MessageLength(text string) int {
	return utf8.RuneCountInString(text)
}
