package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrParse is returned when a source file contains syntax errors
var ErrParse = errors.New("parse error")

// ParseError locates the first syntax error of a file. It matches ErrParse.
type ParseError struct {
	Path   string
	Line   int // 1-based
	Column int // 1-based byte column
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, ErrParse)
}

// Is reports ErrParse as the error's kind
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Node types consulted by the analyzer
const (
	nodeProgram             = "program"
	nodeImportStatement     = "import_statement"
	nodeImportClause        = "import_clause"
	nodeNamedImports        = "named_imports"
	nodeImportSpecifier     = "import_specifier"
	nodeExportStatement     = "export_statement"
	nodeExportClause        = "export_clause"
	nodeExportSpecifier     = "export_specifier"
	nodeLexicalDeclaration  = "lexical_declaration"
	nodeVariableDeclaration = "variable_declaration"
	nodeVariableDeclarator  = "variable_declarator"
	nodeCallExpression      = "call_expression"
	nodeTemplateString      = "template_string"
	nodeTemplateSubst       = "template_substitution"
	nodeIdentifier          = "identifier"
	nodeString              = "string"
	nodeNumber              = "number"
	nodeDefault             = "default"
	nodeComment             = "comment"
	nodeError               = "ERROR"
)

// languageFor picks a grammar by file extension.
// TypeScript sources need their own grammar for type annotations; .tsx adds JSX.
func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// parseSource builds a syntax tree for source. The caller must Close the tree.
// Any syntax error fails the whole parse.
func parseSource(ctx context.Context, path string, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrParse, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		line, col := firstErrorPosition(root)
		tree.Close()
		return nil, &ParseError{Path: path, Line: line, Column: col}
	}

	return tree, nil
}

// firstErrorPosition finds the first ERROR or MISSING node in pre-order
// and returns its 1-based line and column
func firstErrorPosition(root *sitter.Node) (int, int) {
	for node := range walk(root) {
		if node.Type() == nodeError || node.IsMissing() {
			p := node.StartPoint()
			return int(p.Row) + 1, int(p.Column) + 1
		}
	}
	p := root.StartPoint()
	return int(p.Row) + 1, int(p.Column) + 1
}

// nodeText returns the source text spanned by node
func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// sameNode compares two nodes by type and span
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Type() == b.Type() && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// stringLiteralValue returns the text between the quotes of a string node.
// Escape sequences are kept as written.
func stringLiteralValue(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
