package mining

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/portability-study/portbench/internal/types"
)

var outputHeader = []string{
	"repository", "type", "source", "keyword", "summary", "link",
	"status", "number", "created_at", "author", "labels",
	"ai_issue_summary", "ai_is_os_portability", "ai_is_fix_merged", "ai_confidence_pct",
}

// OutputWriter appends mined rows to the results CSV. The file is
// opened in append mode so interrupted runs can resume; the header is
// only written when the file is new or empty.
type OutputWriter struct {
	file   *os.File
	writer *csv.Writer
}

func NewOutputWriter(path string) (*OutputWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat output file: %w", err)
	}

	w := &OutputWriter{file: file, writer: csv.NewWriter(file)}
	if info.Size() == 0 {
		if err := w.writer.Write(outputHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write output header: %w", err)
		}
		w.writer.Flush()
	}

	return w, nil
}

func (w *OutputWriter) Append(row types.MinedIssue) error {
	record := []string{
		row.Repository, row.Type, row.Source, row.Keyword, row.Summary, row.Link,
		row.Status, strconv.Itoa(row.Number), row.CreatedAt.Format(time.RFC3339), row.Author, row.Labels,
		row.AISummary, row.AIIsPortability, row.AIIsFixMerged, row.AIConfidencePct,
	}
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write mined row for %s#%d: %w", row.Repository, row.Number, err)
	}
	w.writer.Flush()
	return w.writer.Error()
}

func (w *OutputWriter) Close() error {
	w.writer.Flush()
	return w.file.Close()
}

// ReadRepoList loads the mining input: one repository per line, either
// owner/repo or a full GitHub URL. Unparseable cells are skipped.
func ReadRepoList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repo list %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var repos []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed row in %s: %w", path, err)
		}
		if len(row) == 0 {
			continue
		}
		if ownerRepo, ok := ParseOwnerRepo(row[0]); ok {
			repos = append(repos, ownerRepo)
		}
	}

	return repos, nil
}
