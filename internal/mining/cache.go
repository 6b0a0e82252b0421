package mining

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores fetched issues per repository as JSONL so repeated
// mining runs do not re-hit the GitHub API.
type Cache struct {
	baseDir string
}

func NewCache(baseDir string) *Cache {
	return &Cache{baseDir: baseDir}
}

func (c *Cache) path(ownerRepo string) string {
	safe := strings.ReplaceAll(ownerRepo, "/", "_")
	return filepath.Join(c.baseDir, safe, "issues.jsonl")
}

// Load returns the cached records for a repository, or ok=false when
// nothing usable is cached. Corrupt lines are skipped, not fatal.
func (c *Cache) Load(ownerRepo string) ([]IssueRecord, bool) {
	f, err := os.Open(c.path(ownerRepo))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var records []IssueRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record IssueRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil || len(records) == 0 {
		return nil, false
	}

	return records, true
}

// Save writes the fetched records for a repository.
func (c *Cache) Save(ownerRepo string, records []IssueRecord) error {
	path := c.path(ownerRepo)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal cache record: %w", err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return w.Flush()
}
