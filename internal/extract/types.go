package extract

// Declaration is one tagged template literal recognized as style text
type Declaration struct {
	Index        int    // Position in first-seen traversal order
	ClassName    string // "css-1a2b3c4d", assigned at analysis time
	VariableName string // "button" when bound by a variable declarator, "" otherwise

	Start  int // Byte offset of the tagged template (tag included)
	End    int // Byte offset just past the closing backtick
	Line   int // 1-based line of Start
	Column int // 1-based byte column of Start

	Quasis            []string     // Literal text between interpolations, len(Expressions)+1
	Expressions       []Expression // ${...} expressions in source order
	HasInterpolations bool
}

// Expression is one ${...} interpolation inside a declaration
type Expression struct {
	Kind  string // Parser node type: "identifier", "call_expression", ...
	Name  string // Identifier text, only set when Kind is "identifier"
	Start int
	End   int
}

// IsIdentifier reports whether the expression is a plain variable reference
func (e Expression) IsIdentifier() bool {
	return e.Kind == nodeIdentifier && e.Name != ""
}

// ImportBinding records where a named import comes from
type ImportBinding struct {
	Source       string // Module specifier: "./tokens"
	ImportedName string // Exported name in the source module
}

// FileInfo is the analysis result for one source file
type FileInfo struct {
	Path       string
	SourceHash uint64 // xxh3 of the analyzed source text

	// Declarations in first-seen order, stable across passes
	Declarations []Declaration

	// LocalIdentifiers maps a local name to its static value: the class name
	// of a bound declaration or the text of a string/number literal.
	// Only one binding per name is tracked; the last one wins.
	LocalIdentifiers map[string]string

	// ImportedIdentifiers maps a local name to a named import
	ImportedIdentifiers map[string]ImportBinding

	// ExportNameToValue maps an exported name to the value of the local
	// binding it exports
	ExportNameToValue map[string]string
}

// Record is one resolved declaration's style content
type Record struct {
	ClassName string
	CSS       string // Fully resolved and trimmed
	Position  int    // Original start offset, used for output ordering
}

// Replacement swaps the half-open byte range [Start, End) for a class name literal
type Replacement struct {
	Start     int
	End       int
	ClassName string
}

// Unresolved describes a declaration left untouched in the output
type Unresolved struct {
	Index     int
	ClassName string
	Start     int
	End       int
	Line      int
	Column    int
	Reason    string // One of the Reason* constants
	Detail    string // Offending identifier or expression kind
}

// Reasons a declaration can fail to resolve
const (
	ReasonNonIdentifier     = "non-identifier expression"
	ReasonUnknownIdentifier = "unknown identifier"
	ReasonUnresolvedImport  = "unresolved import"
)

// Result is the outcome of extracting one file
type Result struct {
	Code                string // Rewritten source (original text when nothing was extracted)
	Extracted           bool   // At least one declaration was replaced
	StyleText           string // Rendered rule blocks, "" when every resolved block was empty
	HasUnresolvedBlocks bool

	Records    []Record     // Sorted by Position
	Unresolved []Unresolved // In declaration order
}
