package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/portability-study/portbench/internal/types"
)

// ExpectedPerLabel is the benchmark size per ground-truth label.
const ExpectedPerLabel = 30

// labelDirs maps each label to its directory under the corpus root.
var labelDirs = map[types.SnippetLabel]string{
	types.LabelNonportable: "nonportable",
	types.LabelFixed:       filepath.Join("portable", "fixed"),
	types.LabelUnrelated:   filepath.Join("portable", "unrelated"),
}

// Corpus is the fixed snippet benchmark, loaded once per run.
type Corpus struct {
	BaseDir  string
	Snippets []types.Snippet
}

// Load reads every Python snippet under the three label directories.
// Snippets are ordered by label (nonportable, fixed, unrelated) and by
// filename within a label, so runs process rows in a stable order.
func Load(baseDir string) (*Corpus, error) {
	corpus := &Corpus{BaseDir: baseDir}

	for _, label := range []types.SnippetLabel{types.LabelNonportable, types.LabelFixed, types.LabelUnrelated} {
		snippets, err := loadLabel(baseDir, label)
		if err != nil {
			return nil, err
		}
		corpus.Snippets = append(corpus.Snippets, snippets...)
	}

	if len(corpus.Snippets) == 0 {
		return nil, fmt.Errorf("no snippets found under %s", baseDir)
	}

	return corpus, nil
}

func loadLabel(baseDir string, label types.SnippetLabel) ([]types.Snippet, error) {
	dir := filepath.Join(baseDir, labelDirs[label])

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snippet directory %s: %w", dir, err)
	}

	var snippets []types.Snippet
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".py") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		code, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read snippet %s: %w", path, err)
		}

		snippets = append(snippets, types.Snippet{
			Name:  filepath.ToSlash(filepath.Join(labelDirs[label], entry.Name())),
			Label: label,
			Path:  path,
			Code:  string(code),
		})
	}

	sort.Slice(snippets, func(i, j int) bool { return snippets[i].Name < snippets[j].Name })
	return snippets, nil
}

// ByLabel returns the snippets carrying one label, in corpus order.
func (c *Corpus) ByLabel(label types.SnippetLabel) []types.Snippet {
	var out []types.Snippet
	for _, s := range c.Snippets {
		if s.Label == label {
			out = append(out, s)
		}
	}
	return out
}

// Nonportable returns the repair targets.
func (c *Corpus) Nonportable() []types.Snippet {
	return c.ByLabel(types.LabelNonportable)
}

// Lookup finds a snippet by its corpus-relative name. The bare
// basename is accepted for nonportable snippets, matching how the
// repair tables key their rows.
func (c *Corpus) Lookup(name string) (types.Snippet, bool) {
	name = filepath.ToSlash(name)
	for _, s := range c.Snippets {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range c.Nonportable() {
		if filepath.Base(s.Name) == name {
			return s, true
		}
	}
	return types.Snippet{}, false
}
