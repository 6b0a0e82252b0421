package mining

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/internal/prompts"
	"github.com/portability-study/portbench/internal/types"
)

// validationInput bounds how much issue text is sent for triage.
type validationInput struct {
	Repo        string   `json:"repo"`
	IssueNumber int      `json:"issue_number"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Comments    []string `json:"comments"`
}

type validationOutput struct {
	Summary       string `json:"ai_issue_summary"`
	IsPortability string `json:"ai_is_os_portability"`
	IsFixMerged   string `json:"ai_is_fix_merged"`
	ConfidencePct any    `json:"ai_confidence_pct"`
}

// ValidateIssue runs the LLM quality gate over a matched issue and
// fills the AI columns of the row. A failed call or unparseable
// response yields conservative defaults rather than an error.
func ValidateIssue(ctx context.Context, provider llm.Provider, ownerRepo string, match *scanMatch, row *types.MinedIssue) error {
	input := validationInput{
		Repo:        ownerRepo,
		IssueNumber: row.Number,
		Title:       match.Title,
		Body:        truncate(match.Body, 8000),
		Comments:    boundComments(match.Comments),
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}

	prompt, err := prompts.BuildIssueValidationPrompt(string(payload))
	if err != nil {
		return err
	}

	response, err := provider.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	applyValidation(response, row)
	return nil
}

func applyValidation(response string, row *types.MinedIssue) {
	row.AISummary = ""
	row.AIIsPortability = "No"
	row.AIIsFixMerged = "No"
	row.AIConfidencePct = "0"

	var parsed validationOutput
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		return
	}

	words := strings.Fields(parsed.Summary)
	if len(words) > 10 {
		words = words[:10]
	}
	row.AISummary = strings.Join(words, " ")
	row.AIIsPortability = yesNo(parsed.IsPortability)
	row.AIIsFixMerged = yesNo(parsed.IsFixMerged)
	row.AIConfidencePct = strconv.Itoa(clampPct(parsed.ConfidencePct))
}

// extractJSON tolerates responses that wrap the JSON object in prose
// or a markdown fence.
func extractJSON(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return response
	}
	return response[start : end+1]
}

func yesNo(value string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "y") {
		return "Yes"
	}
	return "No"
}

func clampPct(value any) int {
	var pct int
	switch v := value.(type) {
	case float64:
		pct = int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			pct = n
		}
	}
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

func boundComments(comments []string) []string {
	if len(comments) > 10 {
		comments = comments[:10]
	}
	bounded := make([]string, 0, len(comments))
	for _, comment := range comments {
		bounded = append(bounded, truncate(comment, 2000))
	}
	return bounded
}
