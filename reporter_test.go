package zerocss

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaretUnder(t *testing.T) {
	tests := []struct {
		name       string
		sourceLine string
		column     int
		want       string
	}{
		{
			name:       "spaces only",
			sourceLine: "  const a = css`color: red;`;",
			column:     13,
			want:       "            ^",
		},
		{
			name:       "tabs and spaces",
			sourceLine: "\t\treturn css`x`;",
			column:     10,
			want:       "\t\t       ^",
		},
		{
			name:       "start of line",
			sourceLine: "css`x`;",
			column:     1,
			want:       "^",
		},
		{
			name:       "column 0 fallback",
			sourceLine: "some line",
			column:     0,
			want:       "^",
		},
		{
			name:       "column beyond line length",
			sourceLine: "short",
			column:     100,
			want:       "     ^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, caretUnder(tt.sourceLine, tt.column))
		})
	}
}

func TestReporterPrintIssues(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf, printLines: true, printLinterName: true}

	reporter.PrintIssues([]Issue{
		{
			FromLinter:  LinterExtract,
			Text:        `style declaration left in place: unknown identifier "gap"`,
			Severity:    SeverityWarning,
			SourceLines: []string{"const b = css`margin: ${gap};`;"},
			Pos:         IssuePos{Filename: "src/b.ts", Line: 3, Column: 11},
		},
		{
			FromLinter: LinterSyntax,
			Text:       IssueSyntax,
			Severity:   SeverityError,
			Pos:        IssuePos{Filename: "src/a.ts", Line: 1, Column: 5},
		},
	})

	want := "src/a.ts:1:5: syntax error, file not transformed (syntax)\n" +
		"src/b.ts:3:11: style declaration left in place: unknown identifier \"gap\" (extract)\n" +
		"\tconst b = css`margin: ${gap};`;\n" +
		"\t          ^\n"
	assert.Equal(t, want, buf.String())
}

func TestReporterPrintIssues_ClassName(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf, printLines: true}

	reporter.PrintIssues([]Issue{{
		FromLinter:  LinterExtract,
		Text:        "style declaration left in place",
		Severity:    SeverityWarning,
		SourceLines: []string{"x = css`a: ${f()};`"},
		Pos:         IssuePos{Filename: "a.ts", Line: 1, Column: 5},
		ClassName:   "css-1a2b3c4d",
	}})

	assert.Equal(t, "a.ts:1:5: style declaration left in place\n"+
		"\tx = css`a: ${f()};`\n"+
		"\t    ^ css-1a2b3c4d is not emitted\n", buf.String())
}

func TestReporterPrintSummary(t *testing.T) {
	tests := []struct {
		name   string
		result CheckResult
		want   string
	}{
		{
			name:   "no issues",
			result: CheckResult{},
			want:   "0 issues:",
		},
		{
			name: "mixed severities",
			result: CheckResult{
				Issues:       []Issue{{FromLinter: LinterSyntax}, {FromLinter: LinterExtract}, {FromLinter: LinterExtract}},
				ErrorCount:   1,
				WarningCount: 2,
			},
			want: "3 issues (1 error, 2 warnings):\n* extract: 2\n* syntax: 1",
		},
		{
			name: "reasons under extract",
			result: CheckResult{
				Issues:             []Issue{{FromLinter: LinterExtract}, {FromLinter: LinterExtract}, {FromLinter: LinterExtract}},
				WarningCount:       3,
				UnresolvedByReason: map[string]int{"unknown identifier": 1, "non-identifier expression": 2},
			},
			want: "* extract: 3\n  - non-identifier expression: 2\n  - unknown identifier: 1\n",
		},
		{
			name: "errors and truncation",
			result: CheckResult{
				Issues:         []Issue{{FromLinter: LinterSyntax}, {FromLinter: LinterExtract}},
				ErrorCount:     1,
				WarningCount:   1,
				TruncatedCount: 3,
			},
			want: "2 issues (1 error, 1 warning; 3 issues truncated):",
		},
		{
			name: "truncated",
			result: CheckResult{
				Issues:         []Issue{{FromLinter: LinterExtract}},
				WarningCount:   1,
				TruncatedCount: 4,
			},
			want: "1 issue (4 issues truncated):",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			(&Reporter{w: &buf}).PrintSummary(tt.result)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestShouldUseColors(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	t.Setenv("GITHUB_ACTIONS", "")

	assert.True(t, shouldUseColors(true))

	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, shouldUseColors(false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, shouldUseColors(false))
}

func TestPluralizeCount(t *testing.T) {
	assert.Equal(t, "1 issue", pluralizeCount(1, "issue", "issues"))
	assert.Equal(t, "0 issues", pluralizeCount(0, "issue", "issues"))
	assert.Equal(t, "2 errors", pluralizeCount(2, "error", "errors"))
}
