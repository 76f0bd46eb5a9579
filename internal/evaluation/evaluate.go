package evaluation

import (
	"fmt"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// Evaluate scores one classifier's test predictions and sorts every test message
// into correct, misclassified as spam, or misclassified as ham.
func Evaluate(name string, messages []string, truth, predicted []core.Label) (*core.EvaluationResult, error) {
	if len(messages) != len(truth) {
		return nil, fmt.Errorf("%w: %d messages, %d labels", core.ErrShapeMismatch, len(messages), len(truth))
	}

	report, err := Report(truth, predicted)
	if err != nil {
		return nil, err
	}

	result := &core.EvaluationResult{
		Classifier: name,
		Accuracy:   report.Accuracy,
		Report:     report,
	}
	for i, msg := range messages {
		switch {
		case truth[i] == predicted[i]:
			result.Correct = append(result.Correct, msg)
		case truth[i] < predicted[i]:
			result.MisclassifiedSpam = append(result.MisclassifiedSpam, msg)
		default:
			result.MisclassifiedHam = append(result.MisclassifiedHam, msg)
		}
	}
	return result, nil
}
