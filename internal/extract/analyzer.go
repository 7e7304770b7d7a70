package extract

import (
	"context"
	"iter"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zeebo/xxh3"
)

// DefaultTagName is the style function recognized as a template tag
const DefaultTagName = "css"

// Analyzer scans one file for style declarations, imports, exports and
// literal bindings
type Analyzer struct {
	tag   string
	namer *Namer
}

// NewAnalyzer creates an analyzer recognizing templates tagged with tag
func NewAnalyzer(tag string, namer *Namer) *Analyzer {
	if tag == "" {
		tag = DefaultTagName
	}
	return &Analyzer{tag: tag, namer: namer}
}

// Tag returns the recognized tag identifier
func (a *Analyzer) Tag() string {
	return a.tag
}

// eventKind distinguishes the node events produced by a traversal
type eventKind int

const (
	eventDeclaration    eventKind = iota // Tagged template with the style tag
	eventLiteralBinding                  // Declarator initialized to a string or number
)

// event is one node of interest found during traversal
type event struct {
	kind     eventKind
	node     *sitter.Node // Tagged template call, or the literal value
	variable string       // Bound variable name, "" for inline templates
}

// Analyze parses source and collects everything the extraction engine needs.
// A syntax error fails the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context, path string, source string) (*FileInfo, error) {
	src := []byte(source)

	tree, err := parseSource(ctx, path, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()

	info := &FileInfo{
		Path:                path,
		SourceHash:          xxh3.HashString(source),
		LocalIdentifiers:    make(map[string]string),
		ImportedIdentifiers: make(map[string]ImportBinding),
		ExportNameToValue:   make(map[string]string),
	}

	// Exports must be known before bindings are recorded so values can be mirrored
	exports := make(map[string][]string) // local name -> exported names
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case nodeImportStatement:
			collectImport(child, src, info.ImportedIdentifiers)
		case nodeExportStatement:
			collectExport(child, src, exports)
		}
	}

	bind := func(name, value string) {
		info.LocalIdentifiers[name] = value
		for _, exported := range exports[name] {
			info.ExportNameToValue[exported] = value
		}
	}

	for ev := range a.events(root, src) {
		switch ev.kind {
		case eventDeclaration:
			decl := a.declaration(path, len(info.Declarations), ev, src)
			info.Declarations = append(info.Declarations, decl)
			if ev.variable != "" {
				bind(ev.variable, decl.ClassName)
			}

		case eventLiteralBinding:
			switch ev.node.Type() {
			case nodeString:
				bind(ev.variable, stringLiteralValue(ev.node, src))
			case nodeNumber:
				bind(ev.variable, nodeText(ev.node, src))
			}
		}
	}

	return info, nil
}

// events walks the tree once and yields declarations and literal bindings
// in first-seen order
func (a *Analyzer) events(root *sitter.Node, src []byte) iter.Seq[event] {
	return func(yield func(event) bool) {
		for node := range walk(root) {
			switch node.Type() {
			case nodeCallExpression:
				if !a.isStyleTemplate(node, src) {
					continue
				}
				if !yield(event{kind: eventDeclaration, node: node, variable: boundVariable(node, src)}) {
					return
				}

			case nodeVariableDeclarator:
				name := node.ChildByFieldName("name")
				value := node.ChildByFieldName("value")
				if name == nil || value == nil || name.Type() != nodeIdentifier {
					continue
				}
				if value.Type() != nodeString && value.Type() != nodeNumber {
					continue
				}
				if !yield(event{kind: eventLiteralBinding, node: value, variable: nodeText(name, src)}) {
					return
				}
			}
		}
	}
}

// isStyleTemplate reports whether a call expression is tag`...` with the style tag
func (a *Analyzer) isStyleTemplate(node *sitter.Node, src []byte) bool {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")
	if fn == nil || args == nil {
		return false
	}
	return fn.Type() == nodeIdentifier &&
		args.Type() == nodeTemplateString &&
		nodeText(fn, src) == a.tag
}

// boundVariable returns the variable name when the tagged template is the
// direct initializer of a declarator with a plain identifier name
func boundVariable(call *sitter.Node, src []byte) string {
	parent := call.Parent()
	if parent == nil || parent.Type() != nodeVariableDeclarator {
		return ""
	}
	if !sameNode(parent.ChildByFieldName("value"), call) {
		return ""
	}
	name := parent.ChildByFieldName("name")
	if name == nil || name.Type() != nodeIdentifier {
		return ""
	}
	return nodeText(name, src)
}

// declaration builds the Declaration for a tagged template event
func (a *Analyzer) declaration(path string, index int, ev event, src []byte) Declaration {
	call := ev.node
	quasis, exprs := splitTemplate(call.ChildByFieldName("arguments"), src)
	start := call.StartPoint()

	return Declaration{
		Index:             index,
		ClassName:         a.namer.ClassName(path, index, ev.variable),
		VariableName:      ev.variable,
		Start:             int(call.StartByte()),
		End:               int(call.EndByte()),
		Line:              int(start.Row) + 1,
		Column:            int(start.Column) + 1,
		Quasis:            quasis,
		Expressions:       exprs,
		HasInterpolations: len(exprs) > 0,
	}
}

// splitTemplate cuts a template string into its raw literal segments and
// the expressions between them. There is always one more segment than
// expressions.
func splitTemplate(template *sitter.Node, src []byte) ([]string, []Expression) {
	var (
		quasis []string
		exprs  []Expression
	)

	// Skip the opening backtick
	cursor := int(template.StartByte()) + 1
	end := int(template.EndByte()) - 1

	for i := 0; i < int(template.NamedChildCount()); i++ {
		child := template.NamedChild(i)
		if child.Type() != nodeTemplateSubst {
			continue
		}

		quasis = append(quasis, string(src[cursor:child.StartByte()]))
		exprs = append(exprs, substitutionExpression(child, src))
		cursor = int(child.EndByte())
	}

	if cursor > end {
		cursor = end
	}
	quasis = append(quasis, string(src[cursor:end]))

	return quasis, exprs
}

// substitutionExpression describes the expression inside ${...}.
// Comments around the expression are named nodes and are skipped.
func substitutionExpression(subst *sitter.Node, src []byte) Expression {
	var expr *sitter.Node
	for i := 0; i < int(subst.NamedChildCount()); i++ {
		if child := subst.NamedChild(i); child.Type() != nodeComment {
			expr = child
			break
		}
	}
	if expr == nil {
		return Expression{Kind: "empty", Start: int(subst.StartByte()), End: int(subst.EndByte())}
	}

	e := Expression{
		Kind:  expr.Type(),
		Start: int(expr.StartByte()),
		End:   int(expr.EndByte()),
	}
	if e.Kind == nodeIdentifier {
		e.Name = nodeText(expr, src)
	}
	return e
}

// collectImport records named import bindings. Default, namespace and
// side-effect imports are skipped, as is `{ default as x }`.
func collectImport(node *sitter.Node, src []byte, into map[string]ImportBinding) {
	source := node.ChildByFieldName("source")
	if source == nil || source.Type() != nodeString {
		return
	}
	specifier := stringLiteralValue(source, src)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause.Type() != nodeImportClause {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			named := clause.NamedChild(j)
			if named.Type() != nodeNamedImports {
				continue
			}
			for k := 0; k < int(named.NamedChildCount()); k++ {
				spec := named.NamedChild(k)
				if spec.Type() != nodeImportSpecifier {
					continue
				}
				imported, local, ok := specifierNames(spec, src)
				if !ok || imported == nodeDefault {
					continue
				}
				into[local] = ImportBinding{Source: specifier, ImportedName: imported}
			}
		}
	}
}

// collectExport records local names exported by an export statement.
// Re-exports from other modules and default exports, including
// `{ x as default }`, are skipped.
func collectExport(node *sitter.Node, src []byte, into map[string][]string) {
	if node.ChildByFieldName("source") != nil {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == nodeDefault {
			return
		}
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		if decl.Type() != nodeLexicalDeclaration && decl.Type() != nodeVariableDeclaration {
			return
		}
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Type() != nodeVariableDeclarator {
				continue
			}
			name := declarator.ChildByFieldName("name")
			if name != nil && name.Type() == nodeIdentifier {
				local := nodeText(name, src)
				into[local] = append(into[local], local)
			}
		}
		return
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause.Type() != nodeExportClause {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			spec := clause.NamedChild(j)
			if spec.Type() != nodeExportSpecifier {
				continue
			}
			local, exported, ok := specifierNames(spec, src)
			if !ok || local == nodeDefault || exported == nodeDefault {
				continue
			}
			into[local] = append(into[local], exported)
		}
	}
}

// specifierNames reads the name and optional alias of an import or export
// specifier. Without an alias both names are the same.
func specifierNames(spec *sitter.Node, src []byte) (string, string, bool) {
	name := spec.ChildByFieldName("name")
	if name == nil || name.Type() != nodeIdentifier {
		return "", "", false
	}
	first := nodeText(name, src)

	alias := spec.ChildByFieldName("alias")
	if alias == nil {
		return first, first, true
	}
	if alias.Type() != nodeIdentifier {
		return "", "", false
	}
	return first, nodeText(alias, src), true
}

// walk yields every node of the tree in pre-order
func walk(root *sitter.Node) iter.Seq[*sitter.Node] {
	return func(yield func(*sitter.Node) bool) {
		var visit func(n *sitter.Node) bool
		visit = func(n *sitter.Node) bool {
			if !yield(n) {
				return false
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				if !visit(n.Child(i)) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}
