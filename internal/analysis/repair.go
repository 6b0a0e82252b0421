package analysis

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/portability-study/portbench/internal/types"
)

// RepairStats aggregates fixed_correctly verdicts for one model.
type RepairStats struct {
	Model      string  `json:"model"`
	Total      int     `json:"total"`
	Correct    int     `json:"correct"`
	Unverified int     `json:"unverified"`
	Accuracy   float64 `json:"accuracy"`
}

// ComputeRepairStats tallies a repair summary per model, sorted by
// accuracy descending. Rows with an empty verdict count toward Total
// and Unverified but not Correct.
func ComputeRepairStats(records []types.RepairRecord) []RepairStats {
	byModel := make(map[string]*RepairStats)
	var order []string

	for _, record := range records {
		stats, ok := byModel[record.Model]
		if !ok {
			stats = &RepairStats{Model: record.Model}
			byModel[record.Model] = stats
			order = append(order, record.Model)
		}

		stats.Total++
		switch strings.ToUpper(strings.TrimSpace(record.FixedCorrectly)) {
		case "YES":
			stats.Correct++
		case "NO":
		default:
			stats.Unverified++
		}
	}

	var results []RepairStats
	for _, model := range order {
		stats := byModel[model]
		stats.Accuracy = ratio(stats.Correct, stats.Total)
		results = append(results, *stats)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Accuracy > results[j].Accuracy })
	return results
}

// WriteRepairReport prints overall and per-model repair accuracy in
// the study's report shape.
func WriteRepairReport(w io.Writer, strategy types.RepairStrategy, results []RepairStats) {
	total, correct := 0, 0
	for _, stats := range results {
		total += stats.Total
		correct += stats.Correct
	}

	fmt.Fprintf(w, "\n=== General Statistics (%s strategy) ===\n", strategy)
	fmt.Fprintf(w, "Total samples: %d\n", total)
	fmt.Fprintf(w, "Total correctly fixed: %d\n", correct)
	fmt.Fprintf(w, "Overall accuracy rate: %.2f%%\n", 100*ratio(correct, total))

	fmt.Fprintln(w, "\n=== Model ranking by accuracy rate ===")
	for _, stats := range results {
		fmt.Fprintf(w, "%s: %.2f%% (%d/%d correct)", stats.Model, 100*stats.Accuracy, stats.Correct, stats.Total)
		if stats.Unverified > 0 {
			fmt.Fprintf(w, " [%d unverified]", stats.Unverified)
		}
		fmt.Fprintln(w)
	}
}
