package verify

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// PythonParser wraps a tree-sitter parser for the snippet corpus.
// Every snippet and every generated fix in the study is Python.
type PythonParser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

func NewPythonParser() (*PythonParser, error) {
	lang := sitter.NewLanguage(tree_sitter_python.Language())
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language for parser: %w", err)
	}
	return &PythonParser{
		parser:   parser,
		language: lang,
	}, nil
}

// CheckSyntax reports whether content parses as Python without error
// nodes. A fix that does not parse cannot be correct.
func (pp *PythonParser) CheckSyntax(content string) (bool, error) {
	src := []byte(content)
	tree := pp.parser.Parse(src, nil)
	if tree == nil {
		return false, fmt.Errorf("failed to parse Python source: tree-sitter returned nil")
	}
	defer tree.Close()

	return !tree.RootNode().HasError(), nil
}

// TopLevelSymbols extracts the names defined by the source: functions,
// classes and assigned identifiers. Used to check that a fix keeps the
// unrelated structure of the original snippet intact.
func (pp *PythonParser) TopLevelSymbols(content string) ([]string, error) {
	src := []byte(content)
	tree := pp.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse Python source: tree-sitter returned nil")
	}
	defer tree.Close()

	queryText := `
	(function_definition) @decl
	(class_definition) @decl
	(assignment
		left: (identifier) @decl)
	(assignment
		left: (pattern_list (identifier) @decl))
	`

	q, err := sitter.NewQuery(pp.language, queryText)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	matches := qc.Matches(q, tree.RootNode(), src)

	seen := make(map[string]bool)
	var symbols []string

	for {
		m := matches.Next()
		if m == nil {
			break
		}
		for _, c := range m.Captures {
			declNode := c.Node
			name := pp.symbolName(&declNode, src)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			symbols = append(symbols, name)
		}
	}

	return symbols, nil
}

func (pp *PythonParser) symbolName(node *sitter.Node, src []byte) string {
	switch node.Kind() {
	case "function_definition", "class_definition":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return ""
		}
		return strings.TrimSpace(nameNode.Utf8Text(src))
	case "identifier":
		return strings.TrimSpace(node.Utf8Text(src))
	}
	return ""
}
