package analysis

import (
	"math"
	"testing"

	"github.com/portability-study/portbench/internal/types"
)

func TestComputeAgreement_PerfectAgreement(t *testing.T) {
	records := []types.DetectionRecord{
		record("a.py", types.LabelNonportable, "m1", types.VerdictNonportable),
		record("b.py", types.LabelFixed, "m1", types.VerdictPortable),
		record("a.py", types.LabelNonportable, "m2", types.VerdictNonportable),
		record("b.py", types.LabelFixed, "m2", types.VerdictPortable),
	}

	pairs := ComputeAgreement(records, []string{"m1", "m2"})
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}

	pair := pairs[0]
	if pair.Shared != 2 {
		t.Errorf("Expected 2 shared snippets, got %d", pair.Shared)
	}
	if pair.Observed != 1 {
		t.Errorf("Expected observed agreement 1.0, got %.4f", pair.Observed)
	}
	if math.Abs(pair.Kappa-1) > 1e-9 {
		t.Errorf("Expected kappa 1.0, got %.4f", pair.Kappa)
	}
}

func TestComputeAgreement_PartialAgreement(t *testing.T) {
	records := []types.DetectionRecord{
		record("a.py", types.LabelNonportable, "m1", types.VerdictNonportable),
		record("b.py", types.LabelFixed, "m1", types.VerdictPortable),
		record("c.py", types.LabelFixed, "m1", types.VerdictPortable),
		record("d.py", types.LabelNonportable, "m1", types.VerdictNonportable),
		record("a.py", types.LabelNonportable, "m2", types.VerdictNonportable),
		record("b.py", types.LabelFixed, "m2", types.VerdictNonportable),
		record("c.py", types.LabelFixed, "m2", types.VerdictPortable),
		record("d.py", types.LabelNonportable, "m2", types.VerdictPortable),
	}

	pair := ComputeAgreement(records, []string{"m1", "m2"})[0]
	if pair.Shared != 4 {
		t.Fatalf("Expected 4 shared snippets, got %d", pair.Shared)
	}
	if math.Abs(pair.Observed-0.5) > 1e-9 {
		t.Errorf("Expected observed agreement 0.5, got %.4f", pair.Observed)
	}
	// Marginals are 2/2 vs 2/2, so chance agreement is 0.5 and kappa 0.
	if math.Abs(pair.Kappa) > 1e-9 {
		t.Errorf("Expected kappa 0.0, got %.4f", pair.Kappa)
	}
}

func TestComputeAgreement_PairCount(t *testing.T) {
	models := []string{"m1", "m2", "m3"}
	var records []types.DetectionRecord
	for _, model := range models {
		records = append(records, record("a.py", types.LabelNonportable, model, types.VerdictNonportable))
	}

	pairs := ComputeAgreement(records, models)
	if len(pairs) != 3 {
		t.Errorf("Expected 3 pairs for 3 models, got %d", len(pairs))
	}
}

func TestComputeAgreement_NoSharedSnippets(t *testing.T) {
	records := []types.DetectionRecord{
		record("a.py", types.LabelNonportable, "m1", types.VerdictNonportable),
		record("b.py", types.LabelFixed, "m2", types.VerdictPortable),
	}

	pair := ComputeAgreement(records, []string{"m1", "m2"})[0]
	if pair.Shared != 0 {
		t.Errorf("Expected 0 shared snippets, got %d", pair.Shared)
	}
	if pair.Observed != 0 || pair.Kappa != 0 {
		t.Errorf("Expected zeroed statistics, got %+v", pair)
	}
}
