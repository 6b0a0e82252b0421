package verify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRules_EmbeddedDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("Failed to load embedded rules: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("Expected a non-empty default rule set")
	}

	for _, rule := range rules {
		if rule.Name == "" {
			t.Error("Rule with empty name")
		}
		if !rule.Category.Valid() {
			t.Errorf("Rule %q carries invalid category %q", rule.Name, rule.Category)
		}
		if len(rule.Patterns) == 0 {
			t.Errorf("Rule %q has no patterns", rule.Name)
		}
	}
}

func TestLoadRules_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - name: test rule
    category: PROC
    patterns:
      - '\bos\.fork\('
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("Failed to load custom rules: %v", err)
	}
	if len(rules) != 1 || rules[0].Name != "test rule" {
		t.Errorf("Unexpected rules: %+v", rules)
	}
}

func TestLoadRules_RejectsBadInput(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"empty rule set", "rules: []\n"},
		{"unknown category", "rules:\n  - name: x\n    category: NOPE\n    patterns: ['a']\n"},
		{"invalid regexp", "rules:\n  - name: x\n    category: PROC\n    patterns: ['[']\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write rules file: %v", err)
			}
			if _, err := LoadRules(path); err == nil {
				t.Error("Expected error for bad rules file")
			}
		})
	}
}

func TestMatchRules(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("Failed to load rules: %v", err)
	}

	testCases := []struct {
		name     string
		source   string
		expected []string
	}{
		{
			name:     "os.fork",
			source:   "import os\npid = os.fork()\n",
			expected: []string{"unix-only process control"},
		},
		{
			name:     "fcntl import",
			source:   "import fcntl\nfcntl.flock(f, fcntl.LOCK_EX)\n",
			expected: []string{"unix-only modules"},
		},
		{
			name:     "windows drive path",
			source:   `path = "C:\\Users\\test\\data.txt"` + "\n",
			expected: []string{"hardcoded path separators"},
		},
		{
			name:     "multiple constructs",
			source:   "import pwd\nimport os\nos.fork()\n",
			expected: []string{"unix-only process control", "unix-only user and permission APIs"},
		},
		{
			name:     "clean snippet",
			source:   "import json\nprint(json.dumps({}))\n",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hits := MatchRules(rules, tc.source)
			names := make(map[string]bool)
			for _, hit := range hits {
				names[hit.Name] = true
			}
			if len(hits) != len(tc.expected) {
				t.Fatalf("Expected %d rule hits, got %d: %v", len(tc.expected), len(hits), names)
			}
			for _, name := range tc.expected {
				if !names[name] {
					t.Errorf("Expected rule %q to match", name)
				}
			}
		})
	}
}
