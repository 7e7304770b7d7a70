package zerocss

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
)

// Reporter prints check issues in golangci-lint format
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
}

// NewReporter creates a reporter for the given configuration
func NewReporter(w io.Writer, config CheckConfig) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       shouldUseColors(config.UseColors),
		printLines:      config.PrintIssuedLines,
		printLinterName: config.PrintLinterName,
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// PrintIssues outputs issues in golangci-lint format
func (r *Reporter) PrintIssues(issues []Issue) {
	sortIssues(issues)
	for _, issue := range issues {
		r.printIssue(issue)
	}
}

// printIssue formats a single issue: file:line:col: message (linter),
// followed by the offending line, a caret and the class name the
// declaration keeps at runtime
func (r *Reporter) printIssue(issue Issue) {
	location := fmt.Sprintf("%s:%d:%d:", issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column)

	text := issue.Text
	if issue.Severity == SeverityError {
		text = RenderStyle(StyleRed, text, r.useColors)
	}

	var suffix string
	if r.printLinterName {
		suffix = RenderStyle(StyleGray, " ("+issue.FromLinter+")", r.useColors)
	}

	fmt.Fprintf(r.w, "%s %s%s\n", RenderStyle(StyleCyan, location, r.useColors), text, suffix)

	if !r.printLines || len(issue.SourceLines) == 0 {
		return
	}
	for _, line := range issue.SourceLines {
		fmt.Fprintf(r.w, "\t%s\n", line)
	}
	caret := caretUnder(issue.SourceLines[0], issue.Pos.Column)
	if issue.ClassName != "" {
		caret += RenderStyle(StyleGray, " "+issue.ClassName+" is not emitted", r.useColors)
	}
	fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
}

// caretUnder places "^" under the 1-based byte column of line. Tabs in
// the prefix are kept so the caret lines up under tab-indented code.
func caretUnder(line string, column int) string {
	n := min(max(column-1, 0), len(line))

	pad := []byte(line[:n])
	for i, c := range pad {
		if c != '\t' {
			pad[i] = ' '
		}
	}
	return string(pad) + "^"
}

// PrintSummary outputs the issue counts per linter. Unresolved
// declarations are broken down by reason.
func (r *Reporter) PrintSummary(result CheckResult) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, summaryHeader(len(result.Issues), result.ErrorCount, result.WarningCount, result.TruncatedCount))

	perLinter := make(map[string]int)
	for _, issue := range result.Issues {
		perLinter[issue.FromLinter]++
	}
	for _, linter := range slices.Sorted(maps.Keys(perLinter)) {
		fmt.Fprintf(r.w, "* %s: %d\n", linter, perLinter[linter])
		if linter != LinterExtract {
			continue
		}
		for _, rc := range sortedReasons(result.UnresolvedByReason) {
			fmt.Fprintf(r.w, "  - %s: %d\n", rc.reason, rc.count)
		}
	}

	if len(result.Issues) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --output-format full to see extraction statistics", r.useColors))
	}
}

// summaryHeader renders "3 issues (1 error, 2 warnings; 4 issues truncated):".
// The severity split is only shown when both kinds are present.
func summaryHeader(total, errors, warnings, truncated int) string {
	var details []string
	if errors > 0 && warnings > 0 {
		details = append(details, pluralizeCount(errors, "error", "errors")+", "+pluralizeCount(warnings, "warning", "warnings"))
	}
	if truncated > 0 {
		details = append(details, pluralizeCount(truncated, "issue", "issues")+" truncated")
	}

	header := pluralizeCount(total, "issue", "issues")
	if len(details) > 0 {
		header += " (" + strings.Join(details, "; ") + ")"
	}
	return header + ":"
}

type reasonCount struct {
	reason string
	count  int
}

// sortedReasons orders reasons by count, most frequent first
func sortedReasons(byReason map[string]int) []reasonCount {
	out := make([]reasonCount, 0, len(byReason))
	for reason, count := range byReason {
		out = append(out, reasonCount{reason, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].reason < out[j].reason
	})
	return out
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}
