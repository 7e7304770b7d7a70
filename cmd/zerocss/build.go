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

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"gen"},
	Short:   "Extract styles into a static output tree",
	Long: `Transform every source file below the root into the output directory.
Files with extracted styles get a sibling stylesheet and import it;
all other files are copied unchanged.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("out-dir", "dist", "Output directory")
	f.Int("concurrency", 0, "Files processed in parallel (0=number of CPUs)")
	f.String("manifest", "", "Write a JSON manifest with this name into the output directory")
}

func runBuild(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := buildBuildConfig(newLogger())

	result, err := zerocss.Build(ctx, config)
	if result == nil {
		return err
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		printBuildResult(config.OutDir, result)
	}

	return err
}

func printBuildResult(outDir string, result *zerocss.BuildResult) {
	fmt.Printf("Built %s\n", outDir)
	fmt.Printf("  Files scanned: %d\n", result.FilesScanned)
	fmt.Printf("  Files transformed: %d\n", result.FilesTransformed)
	fmt.Printf("  Stylesheets: %d\n", result.StyleSheets)
	fmt.Printf("  Classes generated: %d\n", result.ClassesGenerated)
	if result.Unresolved > 0 {
		fmt.Printf("  Left in place: %d\n", result.Unresolved)
	}

	for _, w := range result.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
}
