package evaluation

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return t
}

// RenderReport formats a classification report as a table
func RenderReport(r core.ClassificationReport) string {
	t := newTable()
	t.AppendHeader(table.Row{"", "precision", "recall", "f1-score", "support"})
	for _, m := range r.Classes {
		t.AppendRow(metricsRow(m))
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"accuracy", "", "", fmt.Sprintf("%.2f", r.Accuracy), r.Total})
	t.AppendRow(metricsRow(r.MacroAvg))
	t.AppendRow(metricsRow(r.WeightedAvg))
	return t.Render()
}

func metricsRow(m core.ClassMetrics) table.Row {
	return table.Row{
		m.Name,
		fmt.Sprintf("%.2f", m.Precision),
		fmt.Sprintf("%.2f", m.Recall),
		fmt.Sprintf("%.2f", m.F1),
		m.Support,
	}
}

// RenderAccuracy formats the accuracy of every classifier, in evaluation order
func RenderAccuracy(results []*core.EvaluationResult) string {
	t := newTable()
	t.AppendHeader(table.Row{"", "Accuracy Rate"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Classifier, fmt.Sprintf("%.6f", r.Accuracy)})
	}
	return t.Render()
}

// PrintReport writes the banner and classification report of one result
func PrintReport(w io.Writer, r *core.EvaluationResult) {
	fmt.Fprintf(w, "\n############### %s ###############\n\n", r.Classifier)
	fmt.Fprintln(w, RenderReport(r.Report))
}

// PrintAccuracy writes the accuracy table of all results
func PrintAccuracy(w io.Writer, results []*core.EvaluationResult) {
	fmt.Fprintf(w, "\n############### Accuracy Scores ###############\n\n")
	fmt.Fprintln(w, RenderAccuracy(results))
	fmt.Fprintln(w)
}
