package core

import (
	"fmt"
	"strings"
	"time"
)

// Label is the class assigned to an SMS message
type Label int

const (
	// Ham is a legitimate message
	Ham Label = iota
	// Spam is an unsolicited message
	Spam
)

// Labels lists every label in sort order
var Labels = []Label{Ham, Spam}

// ParseLabel parses a dataset label, case-insensitively
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ham":
		return Ham, nil
	case "spam":
		return Spam, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
}

// String returns the dataset spelling of the label
func (l Label) String() string {
	switch l {
	case Ham:
		return "ham"
	case Spam:
		return "spam"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// Title returns the label as reported by the prediction API
func (l Label) Title() string {
	switch l {
	case Ham:
		return "Ham"
	case Spam:
		return "Spam"
	default:
		return l.String()
	}
}

// Message represents a labeled SMS record
type Message struct {
	Text   string
	Length int
	Label  Label
}

// ClassMetrics holds precision, recall and F1 for one row of a classification report
type ClassMetrics struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassificationReport summarizes predictions against ground truth
type ClassificationReport struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

// EvaluationResult is the outcome of fitting and testing one classifier
type EvaluationResult struct {
	Classifier        string
	Accuracy          float64
	Report            ClassificationReport
	Correct           []string
	MisclassifiedSpam []string // true ham predicted as spam
	MisclassifiedHam  []string // true spam predicted as ham
}

// Prediction represents the result of classifying a single message
type Prediction struct {
	Label       Label
	Classifier  string
	Message     string
	Cached      bool
	PredictedAt time.Time
}

// ModelVersion identifies one trained model; cached predictions are scoped to it
type ModelVersion string

// CacheEntry is a cached prediction keyed by model version and message digest
type CacheEntry struct {
	Key        string
	Label      Label
	Classifier string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}
