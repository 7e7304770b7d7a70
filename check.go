package zerocss

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/zerocss/internal/extract"
)

// CheckConfig holds check configuration
type CheckConfig struct {
	Options
	Host        extract.Host // FSHost when nil
	Concurrency int          // runtime.NumCPU() when <= 0
	Strict      bool         // Fail on warnings too

	// golangci-style output configuration
	MaxIssuesPerLinter int  // 0 = unlimited
	MaxSameIssues      int  // 0 = unlimited
	PrintIssuedLines   bool // Show source lines with issues
	PrintLinterName    bool // Show (extract) suffix
	UseColors          bool // Force colors; auto-detected otherwise
}

// CheckResult is a dry run of extraction over a project
type CheckResult struct {
	Issues         []Issue
	FilesScanned   int
	FilesWithStyle int // Files containing at least one declaration
	Declarations   int
	Extracted      int
	Unresolved     int
	ErrorCount     int
	WarningCount   int
	TruncatedCount int // Issues removed due to limits

	// UnresolvedByReason counts declarations left in place per reason
	UnresolvedByReason map[string]int

	Stats    StyleStats // Of the style text a build would emit
	Warnings []string   // Files that could not be read
}

// ExtractionPercentage is the share of declarations a build would extract
func (r *CheckResult) ExtractionPercentage() float64 {
	if r.Declarations == 0 {
		return 100
	}
	return float64(r.Extracted) / float64(r.Declarations) * 100
}

// Failed applies the exit code policy: errors always fail, warnings only
// in strict mode
func (r *CheckResult) Failed(strict bool) bool {
	if strict {
		return len(r.Issues)+r.TruncatedCount > 0
	}
	return r.ErrorCount > 0
}

// fileCheck is the outcome for one file
type fileCheck struct {
	issues       []Issue
	declarations int
	extracted    int
	reasons      []string
	stats        StyleStats
	warning      string
}

// Check runs extraction on every discovered file without writing anything
// and reports declarations that a build would leave in place
func Check(ctx context.Context, config CheckConfig) (*CheckResult, error) {
	files, _, err := ScanFiles(config.Options)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	host := config.Host
	if host == nil {
		host = extract.FSHost{}
	}
	plugin, err := NewPlugin(config.Options, host)
	if err != nil {
		return nil, err
	}

	checks := make([]fileCheck, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(config.Concurrency))
	for i, file := range files {
		g.Go(func() error {
			code, err := host.ReadFile(gctx, file)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				checks[i].warning = fmt.Sprintf("Failed to read %s: %v", plugin.RelativePath(file), err)
				return nil
			}
			checks[i] = plugin.checkFile(gctx, file, code)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CheckResult{
		FilesScanned:       len(files),
		UnresolvedByReason: make(map[string]int),
	}
	for _, c := range checks {
		if c.warning != "" {
			result.Warnings = append(result.Warnings, c.warning)
		}
		if c.declarations > 0 {
			result.FilesWithStyle++
		}
		result.Declarations += c.declarations
		result.Extracted += c.extracted
		result.Unresolved += len(c.reasons)
		for _, reason := range c.reasons {
			result.UnresolvedByReason[reason]++
		}
		result.Stats.Add(c.stats)
		result.Issues = append(result.Issues, c.issues...)
	}

	sortIssues(result.Issues)
	if config.MaxIssuesPerLinter > 0 || config.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	}
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		}
	}

	plugin.logger.Info("check complete",
		"files", result.FilesScanned,
		"declarations", result.Declarations,
		"extracted", result.Extracted,
		"issues", len(result.Issues))

	return result, nil
}

// checkFile extracts one file and turns failures into issues
func (p *Plugin) checkFile(ctx context.Context, path, code string) fileCheck {
	var c fileCheck
	if !strings.Contains(code, p.opts.TagName) {
		return c
	}

	rel := p.RelativePath(path)
	res, err := p.engine.Extract(ctx, path, code)
	if err != nil {
		var perr *extract.ParseError
		if !errors.As(err, &perr) {
			c.warning = fmt.Sprintf("Failed to check %s: %v", rel, err)
			return c
		}
		c.issues = append(c.issues, Issue{
			FromLinter:  LinterSyntax,
			Text:        IssueSyntax,
			Severity:    SeverityError,
			SourceLines: sourceLines(code, perr.Line),
			Pos:         IssuePos{Filename: rel, Line: perr.Line, Column: perr.Column},
		})
		return c
	}

	c.extracted = len(res.Records)
	c.declarations = len(res.Records) + len(res.Unresolved)
	c.stats = ComputeStyleStats(res.StyleText)

	for _, u := range res.Unresolved {
		c.reasons = append(c.reasons, u.Reason)
		c.issues = append(c.issues, Issue{
			FromLinter:  LinterExtract,
			Text:        fmt.Sprintf(IssueUnresolved, u.Reason, u.Detail),
			Severity:    SeverityWarning,
			SourceLines: sourceLines(code, u.Line),
			Pos:         IssuePos{Filename: rel, Line: u.Line, Column: u.Column},
			ClassName:   u.ClassName,
		})
	}

	return c
}

// sourceLines returns line (1-based) of code, or nothing when out of range
func sourceLines(code string, line int) []string {
	lines := strings.Split(code, "\n")
	if line < 1 || line > len(lines) {
		return nil
	}
	return []string{strings.TrimRight(lines[line-1], "\r")}
}

// sortIssues orders issues by file, then line, then column
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Pos.Filename != issues[j].Pos.Filename {
			return issues[i].Pos.Filename < issues[j].Pos.Filename
		}
		if issues[i].Pos.Line != issues[j].Pos.Line {
			return issues[i].Pos.Line < issues[j].Pos.Line
		}
		return issues[i].Pos.Column < issues[j].Pos.Column
	})
}

// limitIssues applies max-issues-per-linter and max-same-issues constraints
func limitIssues(issues []Issue, config CheckConfig) ([]Issue, int) {
	originalCount := len(issues)

	if config.MaxIssuesPerLinter > 0 {
		perLinter := make(map[string]int)
		filtered := issues[:0:0]
		for _, issue := range issues {
			if perLinter[issue.FromLinter] < config.MaxIssuesPerLinter {
				filtered = append(filtered, issue)
				perLinter[issue.FromLinter]++
			}
		}
		issues = filtered
	}

	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	return issues, originalCount - len(issues)
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		if messageCounts[issue.Text] < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}

func concurrency(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
