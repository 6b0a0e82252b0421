package verify

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/types"
)

// Platform guards make a remaining OS-specific construct acceptable:
// the fix moved the construct behind an explicit platform check.
var guardRe = regexp.MustCompile(`sys\.platform|os\.name|platform\.system\(`)

// Result is the verifier's verdict for one generated fix.
type Result struct {
	Correct bool
	Reasons []string
}

// Verifier decides whether a generated fix removed the OS-specific
// construct without discarding the unrelated structure of the snippet.
type Verifier struct {
	parser *PythonParser
	rules  []Rule
}

func NewVerifier(rules []Rule) (*Verifier, error) {
	parser, err := NewPythonParser()
	if err != nil {
		return nil, err
	}
	return &Verifier{parser: parser, rules: rules}, nil
}

// VerifyFix checks a fix against its original snippet. A fix is
// correct iff it parses as Python, every construct rule the original
// triggered is either gone or platform-guarded, and every top-level
// symbol of the original survives.
func (v *Verifier) VerifyFix(original, fixed string) (Result, error) {
	var result Result

	if strings.HasPrefix(strings.TrimSpace(fixed), "ERROR:") {
		result.Reasons = append(result.Reasons, "fix generation failed upstream")
		return result, nil
	}

	ok, err := v.parser.CheckSyntax(fixed)
	if err != nil {
		return result, err
	}
	if !ok {
		result.Reasons = append(result.Reasons, "fixed code does not parse as Python")
		return result, nil
	}

	guarded := guardRe.MatchString(fixed)
	for _, rule := range MatchRules(v.rules, original) {
		if rule.Matches(fixed) && !guarded {
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("construct still present without platform guard: %s", rule.Name))
		}
	}

	missing, err := v.missingSymbols(original, fixed)
	if err != nil {
		return result, err
	}
	for _, name := range missing {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("top-level symbol dropped by the fix: %s", name))
	}

	result.Correct = len(result.Reasons) == 0
	return result, nil
}

func (v *Verifier) missingSymbols(original, fixed string) ([]string, error) {
	originalSymbols, err := v.parser.TopLevelSymbols(original)
	if err != nil {
		return nil, fmt.Errorf("failed to extract symbols from original: %w", err)
	}
	fixedSymbols, err := v.parser.TopLevelSymbols(fixed)
	if err != nil {
		return nil, fmt.Errorf("failed to extract symbols from fix: %w", err)
	}

	kept := make(map[string]bool, len(fixedSymbols))
	for _, name := range fixedSymbols {
		kept[name] = true
	}

	var missing []string
	for _, name := range originalSymbols {
		if !kept[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// VerifySummary fills the fixed_correctly column of a repair summary.
// A record whose snippet or fix file cannot be read fails alone: the
// column is left empty and the run continues.
func (v *Verifier) VerifySummary(records []types.RepairRecord, c *corpus.Corpus) []types.RepairRecord {
	verified := make([]types.RepairRecord, 0, len(records))

	for _, record := range records {
		logger := log.WithFields(log.Fields{"snippet": record.Filename, "model": record.Model})

		snippet, ok := c.Lookup(record.Filename)
		if !ok {
			logger.Warn("snippet not found in corpus, leaving verdict empty")
			verified = append(verified, record)
			continue
		}

		fixed, err := os.ReadFile(record.FixedFile)
		if err != nil {
			logger.WithError(err).Warn("failed to read fix file, leaving verdict empty")
			verified = append(verified, record)
			continue
		}

		result, err := v.VerifyFix(snippet.Code, string(fixed))
		if err != nil {
			logger.WithError(err).Warn("verification failed, leaving verdict empty")
			verified = append(verified, record)
			continue
		}

		if result.Correct {
			record.FixedCorrectly = "yes"
		} else {
			record.FixedCorrectly = "no"
			logger.Debugf("fix rejected: %s", strings.Join(result.Reasons, "; "))
		}
		verified = append(verified, record)
	}

	return verified
}
