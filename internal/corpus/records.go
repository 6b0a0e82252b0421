package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/portability-study/portbench/internal/types"
)

// headerIndex maps lowercased column names to positions. The curated
// tables are hand-maintained, so column casing is not trusted.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readTable(path string, visit func(row []string, idx map[string]int) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	idx := headerIndex(header)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("malformed row in %s: %w", path, err)
		}
		if err := visit(row, idx); err != nil {
			return err
		}
	}
}

// ReadProjects loads data/projects.csv.
func ReadProjects(path string) ([]types.ProjectRecord, error) {
	var records []types.ProjectRecord
	err := readTable(path, func(row []string, idx map[string]int) error {
		records = append(records, types.ProjectRecord{
			Repository: field(row, idx, "repository"),
			CommitSHA:  field(row, idx, "commit_sha"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadExamples loads rq2/code_examples.csv.
func ReadExamples(path string) ([]types.ExampleRecord, error) {
	var records []types.ExampleRecord
	err := readTable(path, func(row []string, idx map[string]int) error {
		var affected []string
		for _, os := range strings.Split(field(row, idx, "affected_os"), "|") {
			if os = strings.TrimSpace(os); os != "" {
				affected = append(affected, os)
			}
		}
		records = append(records, types.ExampleRecord{
			Filename:     field(row, idx, "filename"),
			Category:     types.Category(field(row, idx, "category")),
			CategoryName: field(row, idx, "category_name"),
			SubCategory:  field(row, idx, "sub_category"),
			Description:  field(row, idx, "description"),
			AffectedOS:   affected,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadGuidance loads the guided-repair hint table, keyed by snippet
// basename. A missing file is not an error: guided runs degrade to
// generic phrasing per snippet.
func ReadGuidance(path string) (map[string]types.GuidanceRecord, error) {
	guidance := make(map[string]types.GuidanceRecord)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return guidance, nil
	}

	err := readTable(path, func(row []string, idx map[string]int) error {
		record := types.GuidanceRecord{
			Code:            field(row, idx, "code"),
			SpecificIssue:   field(row, idx, "specific_portability_issue"),
			GeneralFixGroup: field(row, idx, "general_fix_pattern"),
			Symptom:         field(row, idx, "symptom"),
		}
		if record.Code != "" {
			guidance[record.Code] = record
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guidance, nil
}
