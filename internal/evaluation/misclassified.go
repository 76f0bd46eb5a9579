package evaluation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// WriteMisclassified writes the misclassified messages of one classifier
func WriteMisclassified(w io.Writer, r *core.EvaluationResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n#################### %s ####################\n", r.Classifier)
	fmt.Fprint(bw, "\nMisclassified Spam:\n\n")
	for _, msg := range r.MisclassifiedSpam {
		fmt.Fprintf(bw, "%s\n", msg)
	}
	fmt.Fprint(bw, "\nMisclassified Ham:\n\n")
	for _, msg := range r.MisclassifiedHam {
		fmt.Fprintf(bw, "%s\n", msg)
	}
	return bw.Flush()
}

// AppendMisclassified appends the misclassified messages of every result to the log at path
func AppendMisclassified(path string, results []*core.EvaluationResult) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open misclassified log: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	for _, r := range results {
		if err := WriteMisclassified(f, r); err != nil {
			return fmt.Errorf("failed to write misclassified messages for %s: %w", r.Classifier, err)
		}
	}
	return nil
}
