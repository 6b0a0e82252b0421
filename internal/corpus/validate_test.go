package corpus

import (
	"strings"
	"testing"

	"github.com/portability-study/portbench/internal/types"
)

func TestCheckProjects(t *testing.T) {
	records := []types.ProjectRecord{
		{Repository: "https://github.com/psf/requests", CommitSHA: "0123456789abcdef0123456789abcdef01234567"},
		{Repository: "not a url", CommitSHA: "0123456789abcdef0123456789abcdef01234567"},
		{Repository: "https://github.com/pallets/flask", CommitSHA: "tooshort"},
	}

	report := &IntegrityReport{}
	CheckProjects(records, report)

	if len(report.Problems) != 2 {
		t.Errorf("Expected 2 problems, got %d: %v", len(report.Problems), report.Problems)
	}
}

func TestCheckExamples(t *testing.T) {
	c, err := Load(writeCorpus(t, 1))
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	records := []types.ExampleRecord{
		{Filename: "np_a.py", Category: types.CategoryProc},
		{Filename: "np_a.py", Category: types.Category("BOGUS")},
		{Filename: "missing.py", Category: types.CategoryFile},
	}

	report := &IntegrityReport{}
	CheckExamples(records, c, report)

	// One unknown category, one unresolved filename.
	if len(report.Problems) != 2 {
		t.Errorf("Expected 2 problems, got %d: %v", len(report.Problems), report.Problems)
	}
}

func TestCheckShape(t *testing.T) {
	c, err := Load(writeCorpus(t, 2))
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	report := &IntegrityReport{}
	CheckShape(c, nil, nil, report)

	// 2 snippets per label against an expected 30 trips all three labels.
	if len(report.Problems) != 3 {
		t.Errorf("Expected 3 shape problems, got %d: %v", len(report.Problems), report.Problems)
	}
}

func TestCheckShape_DetectionCoverage(t *testing.T) {
	c, err := Load(writeCorpus(t, 1))
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}
	models := []string{"m1"}

	var detections []types.DetectionRecord
	for _, s := range c.Snippets {
		detections = append(detections, types.DetectionRecord{
			Filename: s.Name, Label: s.Label, Model: "m1", Verdict: types.VerdictPortable,
		})
	}

	report := &IntegrityReport{}
	CheckShape(c, detections, models, report)
	for _, problem := range report.Problems {
		if strings.HasPrefix(problem, "label") {
			continue
		}
		t.Errorf("Unexpected detection coverage problem: %s", problem)
	}

	// A duplicated row must be flagged.
	report = &IntegrityReport{}
	CheckShape(c, append(detections, detections[0]), models, report)
	found := false
	for _, problem := range report.Problems {
		if strings.HasPrefix(problem, "duplicate") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected duplicate row problem, got %v", report.Problems)
	}
}

func TestCheckSummaryProjection(t *testing.T) {
	full := []types.DetectionRecord{
		{Filename: "a.py", Model: "m1", Verdict: types.VerdictNonportable},
		{Filename: "b.py", Model: "m1", Verdict: types.VerdictPortable},
	}

	t.Run("strict projection passes", func(t *testing.T) {
		report := &IntegrityReport{}
		CheckSummaryProjection(full, full, report)
		if !report.OK() {
			t.Errorf("Expected no problems, got %v", report.Problems)
		}
	})

	t.Run("verdict mismatch", func(t *testing.T) {
		summary := []types.DetectionRecord{
			{Filename: "a.py", Model: "m1", Verdict: types.VerdictPortable},
			{Filename: "b.py", Model: "m1", Verdict: types.VerdictPortable},
		}
		report := &IntegrityReport{}
		CheckSummaryProjection(full, summary, report)
		if len(report.Problems) != 1 {
			t.Errorf("Expected 1 problem, got %v", report.Problems)
		}
	})

	t.Run("dropped row", func(t *testing.T) {
		report := &IntegrityReport{}
		CheckSummaryProjection(full, full[:1], report)
		if len(report.Problems) != 1 {
			t.Errorf("Expected 1 problem, got %v", report.Problems)
		}
	})

	t.Run("extra summary row", func(t *testing.T) {
		summary := append([]types.DetectionRecord{}, full...)
		summary = append(summary, types.DetectionRecord{Filename: "c.py", Model: "m1", Verdict: types.VerdictUnknown})
		report := &IntegrityReport{}
		CheckSummaryProjection(full, summary, report)
		if len(report.Problems) != 1 {
			t.Errorf("Expected 1 problem, got %v", report.Problems)
		}
	})
}

func TestCheckRepairTargets(t *testing.T) {
	c, err := Load(writeCorpus(t, 1))
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	records := []types.RepairRecord{
		{Filename: "np_a.py", Model: "m1"},
		{Filename: "fx_a.py", Model: "m1"},
	}

	report := &IntegrityReport{}
	CheckRepairTargets(records, c, report)

	// Only the fixed snippet is an invalid repair target.
	if len(report.Problems) != 1 {
		t.Errorf("Expected 1 problem, got %v", report.Problems)
	}
}
