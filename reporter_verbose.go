package zerocss

import (
	"fmt"
	"io"
)

// VerboseReporter prints extraction statistics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{w: w, useColors: useColors}
}

// PrintStatistics outputs counts for files, declarations and emitted CSS
func (r *VerboseReporter) PrintStatistics(result CheckResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Extraction Statistics", r.useColors))
	fmt.Fprintln(r.w, "---------------------")

	fmt.Fprintf(r.w, "Files Scanned:       %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Files With Styles:   %d\n", result.FilesWithStyle)
	fmt.Fprintf(r.w, "Declarations:        %d\n", result.Declarations)
	fmt.Fprintf(r.w, "Extracted:           %d (%.1f%%)\n", result.Extracted, result.ExtractionPercentage())
	fmt.Fprintf(r.w, "Left In Place:       %d\n", result.Unresolved)
	fmt.Fprintf(r.w, "CSS Rules:           %d\n", result.Stats.Rules)
	fmt.Fprintf(r.w, "CSS Declarations:    %d\n", result.Stats.Declarations)
	fmt.Fprintf(r.w, "CSS Size:            %d bytes\n", result.Stats.Bytes)
}

// PrintExtractionProgress shows the extracted share as a bar
func (r *VerboseReporter) PrintExtractionProgress(result CheckResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Zero-Runtime Coverage", r.useColors))
	fmt.Fprintln(r.w, "---------------------")
	printProgressBar(r.w, result.ExtractionPercentage())
}

// PrintUnresolvedReasons groups declarations left in place by reason
func (r *VerboseReporter) PrintUnresolvedReasons(result CheckResult) {
	if len(result.UnresolvedByReason) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Left In Place", r.useColors))
	fmt.Fprintln(r.w, "-------------")

	for i, rc := range sortedReasons(result.UnresolvedByReason) {
		fmt.Fprintf(r.w, "%d. %s - %s\n", i+1, rc.reason, pluralizeCount(rc.count, "occurrence", "occurrences"))
	}
}

// PrintWarnings shows files that could not be checked
func (r *VerboseReporter) PrintWarnings(result CheckResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "-----------")

	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// printProgressBar prints a visual progress bar
func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}
