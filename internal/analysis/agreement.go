package analysis

import (
	"github.com/portability-study/portbench/internal/types"
)

// PairAgreement reports how often two models issued the same verdict
// over the snippets both classified.
type PairAgreement struct {
	ModelA   string  `json:"model_a"`
	ModelB   string  `json:"model_b"`
	Shared   int     `json:"shared"`
	Observed float64 `json:"observed_agreement"`
	Kappa    float64 `json:"cohen_kappa"`
}

// ComputeAgreement produces pairwise agreement statistics for every
// model pair, in listed order.
func ComputeAgreement(records []types.DetectionRecord, models []string) []PairAgreement {
	verdicts := make(map[string]map[string]types.Verdict)
	for _, record := range records {
		if verdicts[record.Model] == nil {
			verdicts[record.Model] = make(map[string]types.Verdict)
		}
		verdicts[record.Model][record.Filename] = record.Verdict
	}

	var pairs []PairAgreement
	for i := 0; i < len(models); i++ {
		for j := i + 1; j < len(models); j++ {
			pairs = append(pairs, agreeOnPair(models[i], models[j], verdicts[models[i]], verdicts[models[j]]))
		}
	}
	return pairs
}

func agreeOnPair(modelA, modelB string, a, b map[string]types.Verdict) PairAgreement {
	pair := PairAgreement{ModelA: modelA, ModelB: modelB}

	classes := []types.Verdict{types.VerdictPortable, types.VerdictNonportable, types.VerdictUnknown}
	countA := make(map[types.Verdict]int)
	countB := make(map[types.Verdict]int)

	agreed := 0
	for filename, va := range a {
		vb, ok := b[filename]
		if !ok {
			continue
		}
		pair.Shared++
		countA[va]++
		countB[vb]++
		if va == vb {
			agreed++
		}
	}

	if pair.Shared == 0 {
		return pair
	}

	pair.Observed = float64(agreed) / float64(pair.Shared)

	// Chance agreement from the marginal verdict distributions.
	expected := 0.0
	n := float64(pair.Shared)
	for _, class := range classes {
		expected += (float64(countA[class]) / n) * (float64(countB[class]) / n)
	}
	if expected < 1 {
		pair.Kappa = (pair.Observed - expected) / (1 - expected)
	} else {
		pair.Kappa = 1
	}

	return pair
}
