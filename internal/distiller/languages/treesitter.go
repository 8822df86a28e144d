package languages

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/apisurface/distill/internal/distiller"
)

// extractFunc walks a parsed tree and fills a ProcessResult.
type extractFunc func(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error)

// treeSitterStrategy is the structured-parsing strategy shared by every
// grammar-backed language. The per-language extraction logic is injected;
// the grammar may vary by file extension (TSX vs plain TypeScript).
type treeSitterStrategy struct {
	name      string
	pick      func(path string) *sitter.Language
	probeLang *sitter.Language
	extract   extractFunc
}

func newTreeSitterStrategy(name string, language *sitter.Language, extract extractFunc) *treeSitterStrategy {
	return &treeSitterStrategy{
		name:      name,
		pick:      func(string) *sitter.Language { return language },
		probeLang: language,
		extract:   extract,
	}
}

// newTreeSitterStrategyByExt selects the grammar per file extension, falling
// back to the default when no override matches.
func newTreeSitterStrategyByExt(name string, def *sitter.Language, overrides map[string]*sitter.Language, extract extractFunc) *treeSitterStrategy {
	return &treeSitterStrategy{
		name: name,
		pick: func(path string) *sitter.Language {
			if lang, ok := overrides[strings.ToLower(filepath.Ext(path))]; ok {
				return lang
			}
			return def
		},
		probeLang: def,
		extract:   extract,
	}
}

func (s *treeSitterStrategy) Name() string { return s.name }

// Probe parses an empty document to confirm the grammar binding loads.
func (s *treeSitterStrategy) Probe() error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(s.probeLang)
	tree := parser.Parse([]byte{}, nil)
	if tree == nil {
		return fmt.Errorf("%s: grammar failed to parse", s.name)
	}
	tree.Close()
	return nil
}

func (s *treeSitterStrategy) Extract(ctx context.Context, source []byte, path string, opts distiller.Options) (*distiller.ProcessResult, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(s.pick(path))

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse produced no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() && root.NamedChildCount() == 0 {
		return nil, fmt.Errorf("source is not valid %s", s.name)
	}

	return s.extract(root, source, opts)
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// nodeLine returns the 1-indexed start line of a node.
func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// walkTree recursively walks a tree and calls the visitor for each node.
// Returning false from the visitor stops descent into that subtree.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildByType finds the first child node with the given kind.
func findChildByType(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given kind.
func findChildrenByType(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// hasChildOfType reports whether any direct child has the given kind.
func hasChildOfType(node *sitter.Node, kind string) bool {
	return findChildByType(node, kind) != nil
}

// signatureOf renders a declaration without its body: the node text up to
// the first opening brace, with whitespace collapsed.
func signatureOf(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	if idx := strings.IndexByte(text, '{'); idx != -1 {
		text = text[:idx]
	}
	return collapseWhitespace(text)
}

// collapseWhitespace joins a multi-line declaration head into one line.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// docCommentBefore returns the doc comment immediately preceding a node, or
// "" when there is none or comments are not requested.
func docCommentBefore(node *sitter.Node, source []byte, opts distiller.Options) string {
	if !opts.IncludeDocstrings && !opts.IncludeComments {
		return ""
	}
	// Grammars disagree on the node kind: "comment" in most, but
	// "block_comment" and "line_comment" in Java.
	prev := node.PrevNamedSibling()
	if prev == nil || !strings.Contains(prev.Kind(), "comment") {
		return ""
	}
	// Only attach comments that end on the line directly above.
	if int(prev.EndPosition().Row)+1 < int(node.StartPosition().Row) {
		return ""
	}
	text := nodeText(prev, source)
	if strings.HasPrefix(text, "/**") || opts.IncludeComments {
		return cleanComment(text)
	}
	return ""
}

// cleanComment strips comment markers while keeping the text.
func cleanComment(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
