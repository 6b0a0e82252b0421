package patches

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/portability-study/portbench/internal/types"
)

// Parse summarizes one unified-diff patch.
func Parse(name string, data []byte) (types.PatchSummary, error) {
	fileDiffs, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return types.PatchSummary{}, fmt.Errorf("failed to parse patch %s: %w", name, err)
	}
	if len(fileDiffs) == 0 {
		return types.PatchSummary{}, fmt.Errorf("patch %s contains no file diffs", name)
	}

	summary := types.PatchSummary{Name: name}
	seen := make(map[string]bool)

	for _, fd := range fileDiffs {
		file := strings.TrimPrefix(fd.NewName, "b/")
		if file == "/dev/null" {
			file = strings.TrimPrefix(fd.OrigName, "a/")
		}
		if !seen[file] {
			seen[file] = true
			summary.Files = append(summary.Files, file)
		}

		summary.Hunks += len(fd.Hunks)
		for _, hunk := range fd.Hunks {
			added, deleted := countChanges(hunk.Body)
			summary.LinesAdded += added
			summary.LinesDeleted += deleted
		}
	}

	sort.Strings(summary.Files)
	return summary, nil
}

func countChanges(body []byte) (added, deleted int) {
	for _, line := range strings.Split(string(body), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			deleted++
		}
	}
	return added, deleted
}

// LoadDir parses every .patch/.diff file in the rq4 directory, sorted
// by filename. A malformed patch fails alone and is reported in the
// returned error list.
func LoadDir(dir string) ([]types.PatchSummary, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read patches directory %s: %w", dir, err)}
	}

	var summaries []types.PatchSummary
	var errs []error

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".patch" && ext != ".diff" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		summary, err := Parse(entry.Name(), data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, errs
}

// WriteReport prints the patch inventory.
func WriteReport(w io.Writer, summaries []types.PatchSummary) {
	fmt.Fprintf(w, "\n=== Submitted upstream patches (%d) ===\n", len(summaries))
	for _, summary := range summaries {
		fmt.Fprintf(w, "%s: %d file(s), %d hunk(s), +%d/-%d\n",
			summary.Name, len(summary.Files), summary.Hunks, summary.LinesAdded, summary.LinesDeleted)
		for _, file := range summary.Files {
			fmt.Fprintf(w, "    %s\n", file)
		}
	}
}
