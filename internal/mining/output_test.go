package mining

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/portability-study/portbench/internal/types"
)

func TestOutputWriter_AppendResumes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mined_issues.csv")

	row := types.MinedIssue{
		Repository: "a/b",
		Type:       "Issue",
		Source:     "title",
		Keyword:    "OS=windows; FIX=fails",
		Summary:    "Tests fail on Windows",
		Link:       "https://github.com/a/b/issues/1",
		Status:     "To review",
		Number:     1,
		CreatedAt:  time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
		Author:     "someone",
		Labels:     "bug",
	}

	writer, err := NewOutputWriter(path)
	if err != nil {
		t.Fatalf("Failed to create output writer: %v", err)
	}
	if err := writer.Append(row); err != nil {
		t.Fatalf("Failed to append row: %v", err)
	}
	writer.Close()

	// Reopening must append without a second header.
	writer, err = NewOutputWriter(path)
	if err != nil {
		t.Fatalf("Failed to reopen output writer: %v", err)
	}
	row.Number = 2
	if err := writer.Append(row); err != nil {
		t.Fatalf("Failed to append second row: %v", err)
	}
	writer.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse output CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "repository" {
		t.Errorf("Expected header row, got %v", rows[0])
	}
	if rows[1][8] != "2023-05-01T12:00:00Z" {
		t.Errorf("Expected RFC3339 created_at, got %q", rows[1][8])
	}
	if rows[2][7] != "2" {
		t.Errorf("Expected second row number 2, got %q", rows[2][7])
	}
}

func TestReadRepoList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.csv")
	content := "repository,commit_sha\n" +
		"https://github.com/psf/requests,abc\n" +
		"pallets/flask,def\n" +
		"not a repo,ghi\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write repo list: %v", err)
	}

	repos, err := ReadRepoList(path)
	if err != nil {
		t.Fatalf("Failed to read repo list: %v", err)
	}

	expected := []string{"psf/requests", "pallets/flask"}
	if len(repos) != len(expected) {
		t.Fatalf("Expected %d repos, got %v", len(expected), repos)
	}
	for i, want := range expected {
		if repos[i] != want {
			t.Errorf("Repo %d: expected %q, got %q", i, want, repos[i])
		}
	}
}

func TestParseOwnerRepo(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"psf/requests", "psf/requests", true},
		{"https://github.com/psf/requests", "psf/requests", true},
		{"https://github.com/psf/requests/issues/1", "psf/requests", true},
		{"https://gitlab.com/a/b", "", false},
		{"justoneword", "", false},
		{"a/b/c", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		got, ok := ParseOwnerRepo(tc.input)
		if ok != tc.ok || got != tc.expected {
			t.Errorf("ParseOwnerRepo(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}
