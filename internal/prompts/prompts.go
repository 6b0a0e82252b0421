package prompts

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/portability-study/portbench/internal/types"
)

// PromptVariant is a named prompt template used by one of the runners.
type PromptVariant struct {
	Name        string
	Description string
	Template    string
}

var PromptVariants = map[string]PromptVariant{
	"detection": {
		Name:        "detection",
		Description: "Binary portable/nonportable classification of a snippet",
		Template:    detectionPromptTemplate,
	},
	"fix-generic": {
		Name:        "fix-generic",
		Description: "Repair prompt with no hint about the underlying issue",
		Template:    genericFixPromptTemplate,
	},
	"fix-guided": {
		Name:        "fix-guided",
		Description: "Repair prompt seeded with the curated symptom and fix pattern",
		Template:    guidedFixPromptTemplate,
	},
	"issue-validation": {
		Name:        "issue-validation",
		Description: "Strict-JSON triage of a mined GitHub issue",
		Template:    issueValidationTemplate,
	},
}

func GetPromptVariant(name string) (PromptVariant, error) {
	variant, exists := PromptVariants[name]
	if !exists {
		return PromptVariant{}, fmt.Errorf("prompt variant '%s' not found", name)
	}
	return variant, nil
}

func ListPromptVariants() []string {
	var names []string
	for name := range PromptVariants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LoadPromptTemplates() (*template.Template, error) {
	tmpl := template.New("prompts")

	for name, variant := range PromptVariants {
		_, err := tmpl.New(name).Parse(variant.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}

	return tmpl, nil
}

func build(variant string, data any) (string, error) {
	templates, err := LoadPromptTemplates()
	if err != nil {
		return "", fmt.Errorf("failed to load templates: %w", err)
	}

	var result strings.Builder
	if err := templates.ExecuteTemplate(&result, variant, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", variant, err)
	}

	return result.String(), nil
}

func BuildDetectionPrompt(code string) (string, error) {
	return build("detection", code)
}

func BuildGenericFixPrompt(code string) (string, error) {
	return build("fix-generic", code)
}

// BuildGuidedFixPrompt seeds the repair prompt with curated guidance.
// When no guidance row exists for the snippet, the prompt falls back to
// generic phrasing so every nonportable snippet still gets a fix.
func BuildGuidedFixPrompt(guidance *types.GuidanceRecord, code string) (string, error) {
	symptom := "portability issues"
	pattern := "no specific fix pattern provided"
	if guidance != nil {
		if s := strings.TrimSpace(guidance.Symptom); s != "" {
			symptom = s
		}
		if p := strings.TrimSpace(guidance.GeneralFixGroup); p != "" {
			pattern = p
		}
	}

	return build("fix-guided", struct {
		Symptom    string
		FixPattern string
		Code       string
	}{symptom, pattern, code})
}

func BuildIssueValidationPrompt(payload string) (string, error) {
	return build("issue-validation", payload)
}

const detectionPromptTemplate = `You are a Python expert. Check the following code and answer:

1. Is there any operation in the code that could fail on a specific operating system (Linux, Mac, Windows)?
2. If yes, explain why and on which OS it might fail, finish saying "NonPortable!!!" If it is fully portable, finish saying "Portable!!!"

Code:
{{.}}
`

const genericFixPromptTemplate = `You are a Python expert. The following code has portability issues (it may fail on Linux, macOS or Windows).

Your task:
- Identify the problem(s) related to portability.
- Produce a corrected version of the code that is portable across major OSes.
- Return ONLY the corrected code, nothing else.

Code:
{{.}}
`

const guidedFixPromptTemplate = `You are a Python expert. This code has {{.Symptom}}. Consider using one of the following fixes: {{.FixPattern}}.

Your task:
- Identify the problem(s) related to portability.
- Produce a corrected version of the code that is portable across major OSes.
- Return ONLY the corrected code, nothing else.

Code:
{{.Code}}
`

const issueValidationTemplate = `You are an expert triaging GitHub issues for OS-dependent test failures and portability fixes.
Given the issue content below, answer strictly in JSON with these keys:
- ai_issue_summary: a 3-10 word summary of the issue (no punctuation except spaces). If not portability, briefly say what it is instead.
- ai_is_os_portability: 'Yes' or 'No' (is this about OS portability / tests failing on one OS and not others, or OS-specific behavior)
- ai_is_fix_merged: 'Yes' or 'No' (based on the text, has a fix been merged/resolved; if unclear, answer 'No')
- ai_confidence_pct: integer 0-100 for your confidence in 'ai_is_os_portability'
Respond with ONLY a single-line JSON object.

INPUT:
{{.}}
`
