package detection

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/internal/types"
)

// stubProvider returns a canned response per snippet marker found in
// the prompt, or an error when failing is set.
type stubProvider struct {
	model   string
	failing bool
	calls   int
}

func (p *stubProvider) GetModel() string { return p.model }

func (p *stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	p.calls++
	if p.failing {
		return "", errors.New("connection refused")
	}
	if strings.Contains(prompt, "os.fork") {
		return "os.fork is unix-only.\nNonPortable!!!", nil
	}
	return "Looks fine.\nPortable!!!", nil
}

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	baseDir := t.TempDir()

	snippets := map[string]string{
		"nonportable/fork.py":        "import os\nos.fork()\n",
		"portable/fixed/fork.py":     "import subprocess\nsubprocess.Popen(['w'])\n",
		"portable/unrelated/calc.py": "x = 1 + 2\n",
	}
	for rel, code := range snippets {
		path := filepath.Join(baseDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create corpus dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(code), 0644); err != nil {
			t.Fatalf("Failed to write snippet: %v", err)
		}
	}
	return baseDir
}

func TestRunner_Run(t *testing.T) {
	c, err := corpus.Load(writeTestCorpus(t))
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	resultsDir := t.TempDir()
	writer, err := NewResultsWriter(resultsDir)
	if err != nil {
		t.Fatalf("Failed to create results writer: %v", err)
	}

	provider := &stubProvider{model: "stub/model-a"}
	runner := NewRunner(c, []llm.Provider{provider})

	info, err := runner.Run(context.Background(), writer)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	writer.Close()

	if info.ID == "" {
		t.Error("Expected a run ID")
	}
	if provider.calls != len(c.Snippets) {
		t.Errorf("Expected %d provider calls, got %d", len(c.Snippets), provider.calls)
	}

	records, err := ReadSummary(filepath.Join(resultsDir, SummaryResultsFile))
	if err != nil {
		t.Fatalf("Failed to read summary: %v", err)
	}
	if len(records) != len(c.Snippets) {
		t.Fatalf("Expected %d records, got %d", len(c.Snippets), len(records))
	}

	byName := make(map[string]types.Verdict)
	for _, record := range records {
		byName[record.Filename] = record.Verdict
	}
	if byName["nonportable/fork.py"] != types.VerdictNonportable {
		t.Errorf("Expected nonportable verdict for the fork snippet, got %s", byName["nonportable/fork.py"])
	}
	if byName["portable/unrelated/calc.py"] != types.VerdictPortable {
		t.Errorf("Expected portable verdict for the calc snippet, got %s", byName["portable/unrelated/calc.py"])
	}
}

func TestRunner_FailedRequestRecordsUnknown(t *testing.T) {
	c, err := corpus.Load(writeTestCorpus(t))
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	resultsDir := t.TempDir()
	writer, err := NewResultsWriter(resultsDir)
	if err != nil {
		t.Fatalf("Failed to create results writer: %v", err)
	}

	runner := NewRunner(c, []llm.Provider{&stubProvider{model: "stub/broken", failing: true}})
	if _, err := runner.Run(context.Background(), writer); err != nil {
		t.Fatalf("Run must tolerate per-request failures: %v", err)
	}
	writer.Close()

	full, err := ReadFull(filepath.Join(resultsDir, FullResultsFile))
	if err != nil {
		t.Fatalf("Failed to read full results: %v", err)
	}
	for _, record := range full {
		if record.Verdict != types.VerdictUnknown {
			t.Errorf("Expected unknown verdict for %s, got %s", record.Filename, record.Verdict)
		}
		if !strings.HasPrefix(record.Response, "ERROR:") {
			t.Errorf("Expected error marker response, got %q", record.Response)
		}
	}
}

func TestRunner_CanceledContextAborts(t *testing.T) {
	c, err := corpus.Load(writeTestCorpus(t))
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	writer, err := NewResultsWriter(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create results writer: %v", err)
	}
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(c, []llm.Provider{&stubProvider{model: "stub/broken", failing: true}})
	if _, err := runner.Run(ctx, writer); err == nil {
		t.Error("Expected canceled context to abort the run")
	}
}
