package zerocss

// Issue represents a single check finding in golangci-lint format
type Issue struct {
	FromLinter  string   `json:"FromLinter"`  // "extract" or "syntax"
	Text        string   `json:"Text"`        // "style declaration left in place: unknown identifier \"gap\""
	Severity    string   `json:"Severity"`    // "", "warning", "error"
	SourceLines []string `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos `json:"Pos"`         // File location
	ClassName   string   `json:"ClassName,omitempty"`
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "src/components/button.tsx"
	Line     int    `json:"Line"`     // 12
	Column   int    `json:"Column"`   // 17 (1-based, start of the tagged template)
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// Linter names
const (
	LinterExtract = "extract"
	LinterSyntax  = "syntax"
)

// Issue texts
const (
	IssueUnresolved = "style declaration left in place: %s %q"
	IssueSyntax     = "syntax error, file not transformed"
)
