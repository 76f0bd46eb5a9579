package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// ReadRaw parses the raw collection format, one "<label>\t<message>" per line.
// Messages are normalized with tp; malformed lines are skipped and counted.
func ReadRaw(r io.Reader, tp *textproc.TextProcessor, logger *zap.Logger) ([]core.Message, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var msgs []core.Message
	skipped := 0
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}

		labelField, text, ok := strings.Cut(raw, "\t")
		label, err := core.ParseLabel(labelField)
		text = tp.Normalize(text)
		if !ok || err != nil || text == "" {
			logger.Warn("Skipping malformed line", zap.Int("line", line))
			skipped++
			continue
		}

		msgs = append(msgs, core.Message{
			Text:   text,
			Length: textproc.MessageLength(text),
			Label:  label,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("failed to scan raw dataset: %w", err)
	}
	if len(msgs) == 0 {
		return nil, skipped, core.ErrEmptyDataset
	}
	return msgs, skipped, nil
}

// WriteMessages writes messages in the processed CSV format
func WriteMessages(w io.Writer, msgs []core.Message) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{ColumnMessage, ColumnLength, ColumnLabel}); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := writer.Write([]string{m.Text, strconv.Itoa(m.Length), m.Label.String()}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Prepare converts the raw collection at rawPath into the processed CSV at outPath
func Prepare(rawPath, outPath string, tp *textproc.TextProcessor, logger *zap.Logger) (n int, err error) {
	in, err := os.Open(rawPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open raw dataset: %w", err)
	}
	defer in.Close()

	msgs, skipped, err := ReadRaw(in, tp, logger)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create processed dataset: %w", err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if err := WriteMessages(out, msgs); err != nil {
		return 0, fmt.Errorf("failed to write processed dataset: %w", err)
	}

	logger.Info("Prepared dataset",
		zap.String("input", rawPath),
		zap.String("output", outPath),
		zap.Int("messages", len(msgs)),
		zap.Int("skipped", skipped))

	return len(msgs), nil
}
