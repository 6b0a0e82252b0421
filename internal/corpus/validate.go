package corpus

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/portability-study/portbench/internal/types"
)

// IntegrityReport collects dataset violations found by the validate
// command. An empty report means every checked property holds.
type IntegrityReport struct {
	Problems []string
}

func (r *IntegrityReport) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

func (r *IntegrityReport) OK() bool {
	return len(r.Problems) == 0
}

// CheckProjects verifies that every project row has a well-formed
// repository URL and a 40-char hex commit SHA.
func CheckProjects(records []types.ProjectRecord, report *IntegrityReport) {
	validate := validator.New()
	for i, record := range records {
		if err := validate.Struct(record); err != nil {
			report.addf("projects row %d (%s): %v", i+1, record.Repository, err)
		}
	}
}

// CheckExamples verifies the category taxonomy and that every example
// filename resolves to an existing nonportable snippet.
func CheckExamples(records []types.ExampleRecord, c *Corpus, report *IntegrityReport) {
	nonportable := make(map[string]bool)
	for _, s := range c.Nonportable() {
		nonportable[filepath.Base(s.Name)] = true
	}

	for i, record := range records {
		if !record.Category.Valid() {
			report.addf("examples row %d (%s): unknown category %q", i+1, record.Filename, record.Category)
		}
		if !nonportable[filepath.Base(record.Filename)] {
			report.addf("examples row %d: filename %q does not resolve to a nonportable snippet", i+1, record.Filename)
		}
	}
}

// CheckShape verifies the 30/30/30 corpus layout and, when detection
// rows are supplied, that the result table covers snippets x models
// exactly once.
func CheckShape(c *Corpus, detections []types.DetectionRecord, models []string, report *IntegrityReport) {
	for _, label := range []types.SnippetLabel{types.LabelNonportable, types.LabelFixed, types.LabelUnrelated} {
		if n := len(c.ByLabel(label)); n != ExpectedPerLabel {
			report.addf("label %s has %d snippets, want %d", label, n, ExpectedPerLabel)
		}
	}

	if detections == nil {
		return
	}

	want := len(c.Snippets) * len(models)
	if len(detections) != want {
		report.addf("detection table has %d rows, want %d (%d snippets x %d models)",
			len(detections), want, len(c.Snippets), len(models))
	}

	seen := make(map[string]int)
	for _, d := range detections {
		seen[d.Filename+"\x00"+d.Model]++
	}
	for key, n := range seen {
		if n > 1 {
			report.addf("duplicate detection rows for %s", key)
		}
	}
}

// CheckSummaryProjection verifies that the summary table is a strict
// projection of the full table: same key set, same verdicts.
func CheckSummaryProjection(full, summary []types.DetectionRecord, report *IntegrityReport) {
	key := func(d types.DetectionRecord) string { return d.Filename + "\x00" + d.Model }

	fullVerdicts := make(map[string]types.Verdict, len(full))
	for _, d := range full {
		fullVerdicts[key(d)] = d.Verdict
	}

	summarySeen := make(map[string]bool, len(summary))
	for _, d := range summary {
		k := key(d)
		summarySeen[k] = true
		verdict, ok := fullVerdicts[k]
		if !ok {
			report.addf("summary row %s/%s missing from full table", d.Filename, d.Model)
			continue
		}
		if verdict != d.Verdict {
			report.addf("verdict mismatch for %s/%s: full=%s summary=%s", d.Filename, d.Model, verdict, d.Verdict)
		}
	}

	for k := range fullVerdicts {
		if !summarySeen[k] {
			report.addf("full row %s dropped from summary", k)
		}
	}
}

// CheckRepairTargets verifies that every repaired filename is a known
// nonportable snippet.
func CheckRepairTargets(records []types.RepairRecord, c *Corpus, report *IntegrityReport) {
	nonportable := make(map[string]bool)
	for _, s := range c.Nonportable() {
		nonportable[filepath.Base(s.Name)] = true
	}

	for i, record := range records {
		if !nonportable[filepath.Base(record.Filename)] {
			report.addf("repair row %d: %q is not a nonportable snippet", i+1, record.Filename)
		}
	}
}
