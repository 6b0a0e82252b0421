package detection

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/portability-study/portbench/internal/types"
)

const (
	FullResultsFile    = "results_full.csv"
	SummaryResultsFile = "results_summary.csv"
)

var (
	fullHeader    = []string{"filename", "class", "model", "response"}
	summaryHeader = []string{"filename", "class", "model", "predicted"}
)

// ResultsWriter appends detection rows to the full and summary tables
// in lockstep, flushing after every row so a partial run still leaves
// consistent tables behind.
type ResultsWriter struct {
	fullFile    *os.File
	summaryFile *os.File
	full        *csv.Writer
	summary     *csv.Writer
}

func NewResultsWriter(dir string) (*ResultsWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory at %s: %w", dir, err)
	}

	fullFile, err := os.Create(filepath.Join(dir, FullResultsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create full results file: %w", err)
	}

	summaryFile, err := os.Create(filepath.Join(dir, SummaryResultsFile))
	if err != nil {
		fullFile.Close()
		return nil, fmt.Errorf("failed to create summary results file: %w", err)
	}

	w := &ResultsWriter{
		fullFile:    fullFile,
		summaryFile: summaryFile,
		full:        csv.NewWriter(fullFile),
		summary:     csv.NewWriter(summaryFile),
	}

	if err := w.full.Write(fullHeader); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write full header: %w", err)
	}
	if err := w.summary.Write(summaryHeader); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write summary header: %w", err)
	}
	w.full.Flush()
	w.summary.Flush()

	return w, nil
}

func (w *ResultsWriter) Append(record types.DetectionRecord) error {
	if err := w.full.Write([]string{record.Filename, string(record.Label), record.Model, record.Response}); err != nil {
		return fmt.Errorf("failed to write full row for %s: %w", record.Filename, err)
	}
	if err := w.summary.Write([]string{record.Filename, string(record.Label), record.Model, string(record.Verdict)}); err != nil {
		return fmt.Errorf("failed to write summary row for %s: %w", record.Filename, err)
	}

	w.full.Flush()
	w.summary.Flush()
	if err := w.full.Error(); err != nil {
		return err
	}
	return w.summary.Error()
}

func (w *ResultsWriter) Close() error {
	w.full.Flush()
	w.summary.Flush()
	if err := w.fullFile.Close(); err != nil {
		w.summaryFile.Close()
		return err
	}
	return w.summaryFile.Close()
}

func readResults(path string, summary bool) ([]types.DetectionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 4

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var records []types.DetectionRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed row in %s: %w", path, err)
		}

		record := types.DetectionRecord{
			Filename: row[0],
			Label:    types.SnippetLabel(row[1]),
			Model:    row[2],
		}
		if summary {
			record.Verdict = types.Verdict(row[3])
		} else {
			record.Response = row[3]
			record.Verdict = Classify(row[3])
		}
		records = append(records, record)
	}

	return records, nil
}

// ReadSummary loads results_summary.csv.
func ReadSummary(path string) ([]types.DetectionRecord, error) {
	return readResults(path, true)
}

// ReadFull loads results_full.csv, re-deriving verdicts from the raw
// responses.
func ReadFull(path string) ([]types.DetectionRecord, error) {
	return readResults(path, false)
}

// SaveRunInfo records run provenance next to the result tables.
func SaveRunInfo(dir string, info types.RunInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run info: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.json", info.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run info to %s: %w", path, err)
	}
	return nil
}
