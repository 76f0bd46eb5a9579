// Package dataset reads, prepares and partitions labeled SMS messages.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// Column names of the processed dataset
const (
	ColumnMessage = "message"
	ColumnLength  = "length"
	ColumnLabel   = "label"
)

// LoadMessages reads the processed messages CSV at path
func LoadMessages(path string) ([]core.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	msgs, err := ReadMessages(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return msgs, nil
}

// ReadMessages parses a CSV with message, length and label columns in any order
func ReadMessages(r io.Reader) ([]core.Message, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", core.ErrEmptyDataset)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{ColumnMessage, ColumnLength, ColumnLabel} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var msgs []core.Message
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) < len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(record))
		}

		length, err := parseLength(record[cols[ColumnLength]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		label, err := core.ParseLabel(record[cols[ColumnLabel]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		msgs = append(msgs, core.Message{
			Text:   record[cols[ColumnMessage]],
			Length: length,
			Label:  label,
		})
	}

	if len(msgs) == 0 {
		return nil, core.ErrEmptyDataset
	}
	return msgs, nil
}

// parseLength accepts integers and integral floats such as "42.0"
func parseLength(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return int(f), nil
}

// Texts returns the message texts in row order
func Texts(msgs []core.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

// LabelsOf returns the message labels in row order
func LabelsOf(msgs []core.Message) []core.Label {
	out := make([]core.Label, len(msgs))
	for i, m := range msgs {
		out[i] = m.Label
	}
	return out
}

// Lengths returns the message lengths in row order
func Lengths(msgs []core.Message) []float64 {
	out := make([]float64, len(msgs))
	for i, m := range msgs {
		out[i] = float64(m.Length)
	}
	return out
}
