package repair

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/portability-study/portbench/internal/types"
)

var summaryHeader = []string{"filename", "model", "fixed_file", "fixed_correctly"}

// SummaryFileName returns fix_<strategy>_summary.csv.
func SummaryFileName(strategy types.RepairStrategy) string {
	return fmt.Sprintf("fix_%s_summary.csv", strategy)
}

// SummaryWriter appends repair rows, flushing per row like the
// detection writer.
type SummaryWriter struct {
	file   *os.File
	writer *csv.Writer
}

func NewSummaryWriter(path string) (*SummaryWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create summary directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary file %s: %w", path, err)
	}

	w := &SummaryWriter{file: file, writer: csv.NewWriter(file)}
	if err := w.writer.Write(summaryHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write summary header: %w", err)
	}
	w.writer.Flush()

	return w, nil
}

func (w *SummaryWriter) Append(record types.RepairRecord) error {
	if err := w.writer.Write([]string{record.Filename, record.Model, record.FixedFile, record.FixedCorrectly}); err != nil {
		return fmt.Errorf("failed to write summary row for %s: %w", record.Filename, err)
	}
	w.writer.Flush()
	return w.writer.Error()
}

func (w *SummaryWriter) Close() error {
	w.writer.Flush()
	return w.file.Close()
}

// ReadSummary loads a fix summary table.
func ReadSummary(path string) ([]types.RepairRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 4

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var records []types.RepairRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed row in %s: %w", path, err)
		}
		records = append(records, types.RepairRecord{
			Filename:       row[0],
			Model:          row[1],
			FixedFile:      row[2],
			FixedCorrectly: row[3],
		})
	}

	return records, nil
}

// WriteSummary rewrites a full summary table, used after verification
// fills the fixed_correctly column.
func WriteSummary(path string, records []types.RepairRecord) error {
	w, err := NewSummaryWriter(path)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := w.Append(record); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
