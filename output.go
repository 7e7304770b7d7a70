package zerocss

import (
	"fmt"
	"io"
)

// OutputFormat represents the check output format
type OutputFormat string

const (
	// OutputIssues shows only errors/warnings in golangci-lint format (CI-friendly)
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows statistics only
	OutputSummary OutputFormat = "summary"
	// OutputFull shows issues and statistics
	OutputFull OutputFormat = "full"
	// OutputJSON exports structured data for tooling
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat selects the output format from flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Quiet wins; the caller suppresses output and keeps the exit code
	if quiet {
		return OutputIssues
	}

	switch OutputFormat(formatFlag) {
	case OutputIssues, OutputSummary, OutputFull, OutputJSON:
		return OutputFormat(formatFlag)
	}

	return DetermineDefaultOutputFormat()
}

// DetermineDefaultOutputFormat returns issues only, like golangci-lint
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputIssues
}

// WriteOutput writes the check result in the specified format
func WriteOutput(w io.Writer, result *CheckResult, format OutputFormat, config CheckConfig) error {
	switch format {
	case OutputIssues:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

	case OutputSummary:
		verbose := NewVerboseReporter(w, shouldUseColors(config.UseColors))
		verbose.PrintStatistics(*result)
		verbose.PrintExtractionProgress(*result)
		verbose.PrintUnresolvedReasons(*result)
		verbose.PrintWarnings(*result)

	case OutputFull:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

		verbose := NewVerboseReporter(w, reporter.UseColors())
		verbose.PrintStatistics(*result)
		verbose.PrintExtractionProgress(*result)
		verbose.PrintUnresolvedReasons(*result)
		verbose.PrintWarnings(*result)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			return fmt.Errorf("write json: %w", err)
		}

	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	return nil
}
