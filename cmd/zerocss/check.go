package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yacobolo/zerocss"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"lint"},
	Short:   "Report declarations a build would leave in place",
	Long: `Run extraction without writing anything and report every style
declaration that cannot be extracted, plus files that fail to parse.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.Int("concurrency", 0, "Files processed in parallel (0=number of CPUs)")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.Float64("threshold", 0.0, "Minimum extraction percentage for strict mode")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (extract) suffix on issues")
}

func runCheck(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := buildCheckConfig(newLogger())

	result, err := zerocss.Check(ctx, config)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "check.output-format", "")
	format := zerocss.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		if err := zerocss.WriteOutput(os.Stdout, result, format, config); err != nil {
			return err
		}
	}

	// Errors always fail; warnings only in strict mode
	if result.Failed(config.Strict) {
		return exitError{code: 1}
	}

	if config.Strict {
		threshold := getFloat64WithFallback("threshold", "check.threshold", 0.0)
		if threshold > 0 && result.ExtractionPercentage() < threshold {
			if !quiet {
				fmt.Fprintf(os.Stderr, "\nStrict mode: extraction %.1f%% is below threshold %.1f%%\n",
					result.ExtractionPercentage(), threshold)
			}
			return exitError{code: 1}
		}
	}

	return nil
}
