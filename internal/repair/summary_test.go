package repair

import (
	"path/filepath"
	"testing"

	"github.com/portability-study/portbench/internal/types"
)

func TestSummaryFileName(t *testing.T) {
	if got := SummaryFileName(types.StrategyGeneric); got != "fix_generic_summary.csv" {
		t.Errorf("Expected fix_generic_summary.csv, got %s", got)
	}
	if got := SummaryFileName(types.StrategyGuided); got != "fix_guided_summary.csv" {
		t.Errorf("Expected fix_guided_summary.csv, got %s", got)
	}
}

func TestSummaryWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fix_generic_summary.csv")

	writer, err := NewSummaryWriter(path)
	if err != nil {
		t.Fatalf("Failed to create summary writer: %v", err)
	}

	records := []types.RepairRecord{
		{Filename: "fork_example.py", Model: "openai/gpt-4o-mini", FixedFile: "fixes/generic/openai_gpt-4o-mini/fork_example.py"},
		{Filename: "fcntl_lock.py", Model: "x-ai/grok-4-fast", FixedFile: "fixes/generic/x-ai_grok-4-fast/fcntl_lock.py", FixedCorrectly: "yes"},
	}
	for _, record := range records {
		if err := writer.Append(record); err != nil {
			t.Fatalf("Failed to append record: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	loaded, err := ReadSummary(path)
	if err != nil {
		t.Fatalf("Failed to read summary: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(loaded))
	}
	for i, record := range records {
		if loaded[i] != record {
			t.Errorf("Record %d: expected %+v, got %+v", i, record, loaded[i])
		}
	}
}

func TestWriteSummary_RewritesVerdicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fix_guided_summary.csv")

	initial := []types.RepairRecord{
		{Filename: "a.py", Model: "m1", FixedFile: "fixes/a.py"},
	}
	if err := WriteSummary(path, initial); err != nil {
		t.Fatalf("Failed to write initial summary: %v", err)
	}

	verified := initial
	verified[0].FixedCorrectly = "no"
	if err := WriteSummary(path, verified); err != nil {
		t.Fatalf("Failed to rewrite summary: %v", err)
	}

	loaded, err := ReadSummary(path)
	if err != nil {
		t.Fatalf("Failed to read summary: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 record after rewrite, got %d", len(loaded))
	}
	if loaded[0].FixedCorrectly != "no" {
		t.Errorf("Expected rewritten verdict %q, got %q", "no", loaded[0].FixedCorrectly)
	}
}
