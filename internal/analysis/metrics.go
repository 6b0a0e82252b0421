package analysis

import (
	log "github.com/sirupsen/logrus"

	"github.com/portability-study/portbench/internal/types"
)

// ConfusionMatrix counts detection outcomes with nonportable as the
// positive class. Unknown verdicts on a positive-class snippet are
// folded into FN (the issue was missed); unknown verdicts on a
// negative-class snippet are excluded from both TN and FP so precision
// stays a statement about actual nonportable predictions. Accuracy is
// computed over all samples, so unknowns always count against the
// model.
type ConfusionMatrix struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// ModelMetrics is the per-model row of the detection analysis.
type ModelMetrics struct {
	Model     string          `json:"model"`
	Samples   int             `json:"samples"`
	Unknown   int             `json:"unknown"`
	Matrix    ConfusionMatrix `json:"confusion_matrix"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1        float64         `json:"f1"`
	Accuracy  float64         `json:"accuracy"`
}

// ComputeMetrics aggregates summary rows into per-model metrics, in
// the order the models are listed. Models with no rows are skipped
// with a warning rather than reported as zeros.
func ComputeMetrics(records []types.DetectionRecord, models []string) []ModelMetrics {
	byModel := make(map[string][]types.DetectionRecord)
	for _, record := range records {
		byModel[record.Model] = append(byModel[record.Model], record)
	}

	var results []ModelMetrics
	for _, model := range models {
		rows := byModel[model]
		if len(rows) == 0 {
			log.Warnf("no detection rows found for %s", model)
			continue
		}
		results = append(results, computeModel(model, rows))
	}
	return results
}

func computeModel(model string, rows []types.DetectionRecord) ModelMetrics {
	m := ModelMetrics{Model: model, Samples: len(rows)}

	for _, row := range rows {
		truth := row.Label.GroundTruth()
		switch row.Verdict {
		case types.VerdictNonportable:
			if truth == types.VerdictNonportable {
				m.Matrix.TP++
			} else {
				m.Matrix.FP++
			}
		case types.VerdictPortable:
			if truth == types.VerdictPortable {
				m.Matrix.TN++
			} else {
				m.Matrix.FN++
			}
		default:
			m.Unknown++
			if truth == types.VerdictNonportable {
				m.Matrix.FN++
			}
		}
	}

	m.Precision = ratio(m.Matrix.TP, m.Matrix.TP+m.Matrix.FP)
	m.Recall = ratio(m.Matrix.TP, m.Matrix.TP+m.Matrix.FN)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.Accuracy = ratio(m.Matrix.TP+m.Matrix.TN, m.Samples)

	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
