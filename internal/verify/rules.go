package verify

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/portability-study/portbench/internal/types"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule names one nonportable construct family and the source patterns
// that betray it.
type Rule struct {
	Name     string         `yaml:"name"`
	Category types.Category `yaml:"category"`
	Patterns []string       `yaml:"patterns"`

	compiled []*regexp.Regexp
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a construct rule set from a YAML file, falling back
// to the embedded defaults when path is empty.
func LoadRules(path string) ([]Rule, error) {
	data := defaultRulesYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
		}
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule set is empty")
	}

	for i := range file.Rules {
		rule := &file.Rules[i]
		if !rule.Category.Valid() {
			return nil, fmt.Errorf("rule %q has unknown category %q", rule.Name, rule.Category)
		}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %q has invalid pattern %q: %w", rule.Name, pattern, err)
			}
			rule.compiled = append(rule.compiled, re)
		}
	}

	return file.Rules, nil
}

// Matches reports whether the source contains this construct.
func (r *Rule) Matches(source string) bool {
	for _, re := range r.compiled {
		if re.MatchString(source) {
			return true
		}
	}
	return false
}

// MatchRules returns every rule the source triggers.
func MatchRules(rules []Rule, source string) []Rule {
	var hits []Rule
	for _, rule := range rules {
		if rule.Matches(source) {
			hits = append(hits, rule)
		}
	}
	return hits
}
