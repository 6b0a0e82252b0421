package types

import "time"

// SnippetLabel is the ground-truth class of a benchmark snippet.
type SnippetLabel string

const (
	LabelNonportable SnippetLabel = "nonportable"
	LabelFixed       SnippetLabel = "fixed"
	LabelUnrelated   SnippetLabel = "unrelated"
)

// GroundTruth maps a snippet label onto the binary detection classes:
// nonportable snippets are the positive class, everything else is portable.
func (l SnippetLabel) GroundTruth() Verdict {
	if l == LabelNonportable {
		return VerdictNonportable
	}
	return VerdictPortable
}

// Snippet is one file of the 90-sample benchmark.
type Snippet struct {
	Name  string       `json:"name"`
	Label SnippetLabel `json:"label"`
	Path  string       `json:"path"`
	Code  string       `json:"code"`
}

// Verdict is a model's portability classification of a snippet.
type Verdict string

const (
	VerdictPortable    Verdict = "portable"
	VerdictNonportable Verdict = "nonportable"
	VerdictUnknown     Verdict = "unknown"
)

// DetectionRecord is one snippet x model classification row.
// Response is only present in the full results table; the summary
// table is a projection onto Verdict.
type DetectionRecord struct {
	Filename string       `json:"filename"`
	Label    SnippetLabel `json:"class"`
	Model    string       `json:"model"`
	Verdict  Verdict      `json:"predicted"`
	Response string       `json:"response,omitempty"`
}

// RepairStrategy selects the prompting style for fix generation.
type RepairStrategy string

const (
	StrategyGeneric RepairStrategy = "generic"
	StrategyGuided  RepairStrategy = "guided"
)

// RepairRecord is one snippet x model fix-generation row.
// FixedCorrectly is empty until the verifier has run.
type RepairRecord struct {
	Filename       string `json:"filename"`
	Model          string `json:"model"`
	FixedFile      string `json:"fixed_file"`
	FixedCorrectly string `json:"fixed_correctly"`
}

// GuidanceRecord carries the curated hint used by the guided repair
// strategy: the issue symptom and the general fix pattern for one
// nonportable snippet.
type GuidanceRecord struct {
	Code            string `json:"code"`
	SpecificIssue   string `json:"specific_portability_issue"`
	GeneralFixGroup string `json:"general_fix_pattern"`
	Symptom         string `json:"symptom"`
}

// Category is the root-cause taxonomy of the curated examples.
type Category string

const (
	CategoryFile Category = "FILE"
	CategoryProc Category = "PROC"
	CategoryLib  Category = "LIB"
	CategoryAPI  Category = "API"
	CategoryEnv  Category = "ENV"
	CategoryPerm Category = "PERM"
	CategorySys  Category = "SYS"
)

// Categories lists the seven defined taxonomy acronyms.
var Categories = []Category{
	CategoryFile, CategoryProc, CategoryLib, CategoryAPI,
	CategoryEnv, CategoryPerm, CategorySys,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ProjectRecord identifies one analyzed snapshot of one repository.
type ProjectRecord struct {
	Repository string `json:"repository" validate:"required,url"`
	CommitSHA  string `json:"commit_sha" validate:"required,hexadecimal,len=40"`
}

// ExampleRecord is one row of the curated code-example table.
type ExampleRecord struct {
	Filename     string   `json:"filename" validate:"required"`
	Category     Category `json:"category" validate:"required"`
	CategoryName string   `json:"category_name"`
	SubCategory  string   `json:"sub_category"`
	Description  string   `json:"description"`
	AffectedOS   []string `json:"affected_os"`
}

// RunInfo stamps a detection or repair run with its provenance.
type RunInfo struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// MinedIssue is one candidate portability issue found by the miner.
type MinedIssue struct {
	Repository string    `json:"repository"`
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	Keyword    string    `json:"keyword"`
	Summary    string    `json:"summary"`
	Link       string    `json:"link"`
	Status     string    `json:"status"`
	Number     int       `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
	Author     string    `json:"author"`
	Labels     string    `json:"labels"`

	AISummary       string `json:"ai_issue_summary"`
	AIIsPortability string `json:"ai_is_os_portability"`
	AIIsFixMerged   string `json:"ai_is_fix_merged"`
	AIConfidencePct string `json:"ai_confidence_pct"`
}

// PatchSummary describes one upstream pull-request patch file.
type PatchSummary struct {
	Name         string   `json:"name"`
	Files        []string `json:"files"`
	Hunks        int      `json:"hunks"`
	LinesAdded   int      `json:"lines_added"`
	LinesDeleted int      `json:"lines_deleted"`
}
