package zerocss

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Summary   JSONSummary    `json:"summary"`
	Stats     JSONStats      `json:"stats"`
	Issues    []JSONIssue    `json:"issues"`
	Reasons   map[string]int `json:"unresolved_by_reason"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Truncated    int `json:"truncated"`
	FilesScanned int `json:"files_scanned"`
}

// JSONStats contains extraction statistics
type JSONStats struct {
	FilesWithStyle       int     `json:"files_with_style"`
	Declarations         int     `json:"declarations"`
	Extracted            int     `json:"extracted"`
	Unresolved           int     `json:"unresolved"`
	ExtractionPercentage float64 `json:"extraction_percentage"`
	CSSRules             int     `json:"css_rules"`
	CSSDeclarations      int     `json:"css_declarations"`
	CSSBytes             int     `json:"css_bytes"`
}

// JSONIssue represents a single issue
type JSONIssue struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Linter    string `json:"linter"`
	ClassName string `json:"class_name,omitempty"`
	Source    string `json:"source,omitempty"` // Optional source line
}

// WriteJSON writes the check result as JSON
func WriteJSON(w io.Writer, result *CheckResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts CheckResult to JSONOutput
func buildJSONOutput(result *CheckResult) JSONOutput {
	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		jsonIssues[i] = JSONIssue{
			File:      issue.Pos.Filename,
			Line:      issue.Pos.Line,
			Column:    issue.Pos.Column,
			Severity:  issue.Severity,
			Message:   issue.Text,
			Linter:    issue.FromLinter,
			ClassName: issue.ClassName,
			Source:    source,
		}
	}

	reasons := result.UnresolvedByReason
	if reasons == nil {
		reasons = map[string]int{}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       result.ErrorCount,
			Warnings:     result.WarningCount,
			Truncated:    result.TruncatedCount,
			FilesScanned: result.FilesScanned,
		},
		Stats: JSONStats{
			FilesWithStyle:       result.FilesWithStyle,
			Declarations:         result.Declarations,
			Extracted:            result.Extracted,
			Unresolved:           result.Unresolved,
			ExtractionPercentage: result.ExtractionPercentage(),
			CSSRules:             result.Stats.Rules,
			CSSDeclarations:      result.Stats.Declarations,
			CSSBytes:             result.Stats.Bytes,
		},
		Issues:   jsonIssues,
		Reasons:  reasons,
		Warnings: result.Warnings,
	}
}
