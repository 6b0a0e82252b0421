package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/montanaflynn/stats"
)

func shortName(model string) string {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

// WriteReport prints the detection analysis the way the study reports
// it: metric tables in plain, Markdown and LaTeX form, a comparative
// block, per-model confusion matrices and pairwise agreement.
func WriteReport(w io.Writer, metrics []ModelMetrics, agreement []PairAgreement) {
	if len(metrics) == 0 {
		fmt.Fprintln(w, "No detection results to analyze.")
		return
	}

	fmt.Fprintln(w)
	rule(w)
	fmt.Fprintln(w, "PERFORMANCE METRICS BY MODEL (NonPort = Positive)")
	rule(w)

	fmt.Fprintln(w, "\nLaTeX Format:")
	writeLatexTable(w, metrics)

	fmt.Fprintln(w, "\nMarkdown Format:")
	writeMarkdownTable(w, metrics)

	fmt.Fprintln(w, "\nSimple Table:")
	writePlainTable(w, metrics)

	fmt.Fprintln(w)
	rule(w)
	fmt.Fprintln(w, "COMPARATIVE ANALYSIS")
	rule(w)
	writeComparative(w, metrics)

	fmt.Fprintln(w)
	rule(w)
	fmt.Fprintln(w, "CONFUSION MATRICES (NonPort = Positive)")
	rule(w)
	for _, m := range metrics {
		writeConfusion(w, m)
	}

	if len(agreement) > 0 {
		fmt.Fprintln(w)
		rule(w)
		fmt.Fprintln(w, "INTER-MODEL AGREEMENT")
		rule(w)
		for _, pair := range agreement {
			fmt.Fprintf(w, "%s vs %s: %.3f observed, kappa %.3f (%d shared)\n",
				shortName(pair.ModelA), shortName(pair.ModelB), pair.Observed, pair.Kappa, pair.Shared)
		}
	}
}

func writePlainTable(w io.Writer, metrics []ModelMetrics) {
	fmt.Fprintf(w, "%-32s %9s %9s %9s %9s %8s %8s\n",
		"Model", "Precision", "Recall", "F1-Score", "Accuracy", "Unknown", "Samples")
	for _, m := range metrics {
		fmt.Fprintf(w, "%-32s %9.3f %9.3f %9.3f %9.3f %8d %8d\n",
			shortName(m.Model), m.Precision, m.Recall, m.F1, m.Accuracy, m.Unknown, m.Samples)
	}

	var accuracies []float64
	for _, m := range metrics {
		accuracies = append(accuracies, m.Accuracy)
	}
	mean, _ := stats.Mean(accuracies)
	stddev, _ := stats.StandardDeviationSample(accuracies)
	fmt.Fprintf(w, "\nMean accuracy across models: %.3f (stddev %.3f)\n", mean, stddev)
}

func writeMarkdownTable(w io.Writer, metrics []ModelMetrics) {
	fmt.Fprintln(w, "| Model | Precision | Recall | F1-Score | Accuracy | Samples |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, m := range metrics {
		fmt.Fprintf(w, "| %s | %.3f | %.3f | %.3f | %.3f | %d |\n",
			shortName(m.Model), m.Precision, m.Recall, m.F1, m.Accuracy, m.Samples)
	}
}

func writeLatexTable(w io.Writer, metrics []ModelMetrics) {
	fmt.Fprintln(w, `\begin{tabular}{lrrrrr}`)
	fmt.Fprintln(w, `\toprule`)
	fmt.Fprintln(w, `Model & Precision & Recall & F1-Score & Accuracy & Samples \\`)
	fmt.Fprintln(w, `\midrule`)
	for _, m := range metrics {
		fmt.Fprintf(w, `%s & %.3f & %.3f & %.3f & %.3f & %d \\`+"\n",
			strings.ReplaceAll(shortName(m.Model), "_", `\_`), m.Precision, m.Recall, m.F1, m.Accuracy, m.Samples)
	}
	fmt.Fprintln(w, `\bottomrule`)
	fmt.Fprintln(w, `\end{tabular}`)
}

func writeComparative(w io.Writer, metrics []ModelMetrics) {
	best := func(pick func(ModelMetrics) float64) (string, float64) {
		name, top := "", -1.0
		for _, m := range metrics {
			if v := pick(m); v > top {
				name, top = shortName(m.Model), v
			}
		}
		return name, top
	}

	name, v := best(func(m ModelMetrics) float64 { return m.Precision })
	fmt.Fprintf(w, "\nBest Precision: %s (%.3f)\n", name, v)
	name, v = best(func(m ModelMetrics) float64 { return m.Recall })
	fmt.Fprintf(w, "Best Recall: %s (%.3f)\n", name, v)
	name, v = best(func(m ModelMetrics) float64 { return m.F1 })
	fmt.Fprintf(w, "Best F1-Score: %s (%.3f)\n", name, v)
	name, v = best(func(m ModelMetrics) float64 { return m.Accuracy })
	fmt.Fprintf(w, "Best Accuracy: %s (%.3f)\n", name, v)
}

func writeConfusion(w io.Writer, m ModelMetrics) {
	fmt.Fprintf(w, "\n%s:\n", shortName(m.Model))
	fmt.Fprintln(w, "                 Predicted")
	fmt.Fprintln(w, "               Port  NonPort")
	fmt.Fprintf(w, "Actual Port    %4d    %4d\n", m.Matrix.TN, m.Matrix.FP)
	fmt.Fprintf(w, "       NonPort %4d    %4d\n", m.Matrix.FN, m.Matrix.TP)
	if m.Unknown > 0 {
		fmt.Fprintf(w, "       (unclassified responses: %d)\n", m.Unknown)
	}
}
