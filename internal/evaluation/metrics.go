// Package evaluation scores predictions and renders reports.
package evaluation

import (
	"fmt"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// Accuracy returns the fraction of predictions equal to the truth
func Accuracy(truth, predicted []core.Label) (float64, error) {
	if len(truth) != len(predicted) {
		return 0, fmt.Errorf("%w: %d true labels, %d predictions", core.ErrShapeMismatch, len(truth), len(predicted))
	}
	if len(truth) == 0 {
		return 0, core.ErrEmptyDataset
	}
	correct := 0
	for i := range truth {
		if truth[i] == predicted[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(truth)), nil
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Report computes per-class precision, recall, F1 and support with macro and weighted averages.
// Undefined ratios are reported as 0.
func Report(truth, predicted []core.Label) (core.ClassificationReport, error) {
	acc, err := Accuracy(truth, predicted)
	if err != nil {
		return core.ClassificationReport{}, err
	}

	var tp, fp, fn, support [2]int
	for i := range truth {
		t, p := truth[i], predicted[i]
		support[t]++
		if t == p {
			tp[t]++
		} else {
			fp[p]++
			fn[t]++
		}
	}

	report := core.ClassificationReport{Accuracy: acc, Total: len(truth)}
	macro := core.ClassMetrics{Name: "macro avg", Support: len(truth)}
	weighted := core.ClassMetrics{Name: "weighted avg", Support: len(truth)}
	for _, l := range core.Labels {
		precision := safeDiv(float64(tp[l]), float64(tp[l]+fp[l]))
		recall := safeDiv(float64(tp[l]), float64(tp[l]+fn[l]))
		f1 := safeDiv(2*precision*recall, precision+recall)
		m := core.ClassMetrics{
			Name:      l.String(),
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[l],
		}
		report.Classes = append(report.Classes, m)

		n := float64(len(core.Labels))
		macro.Precision += precision / n
		macro.Recall += recall / n
		macro.F1 += f1 / n

		w := float64(support[l]) / float64(len(truth))
		weighted.Precision += precision * w
		weighted.Recall += recall * w
		weighted.F1 += f1 * w
	}
	report.MacroAvg = macro
	report.WeightedAvg = weighted
	return report, nil
}
