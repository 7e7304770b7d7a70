package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/zerocss"
)

var rootCmd = &cobra.Command{
	Use:   "zerocss",
	Short: "Zero-runtime CSS extraction for JavaScript and TypeScript",
	Long: `Replace css tagged templates with generated class names at build time.
Each fully resolvable declaration becomes one class in a static stylesheet;
anything that cannot be resolved is left in place for the runtime.`,
	// Default behavior: run build when no subcommand is given.
	// loadConfig is called here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", defaultConfigPath, "Config file path")
	pf.String("root", ".", "Project root")
	pf.StringSlice("include", nil, "Glob patterns for source files (default: all JS/TS sources)")
	pf.StringSlice("exclude", nil, "Glob patterns to skip (default: node_modules and declaration files)")
	pf.String("class-prefix", zerocss.DefaultClassPrefix, "Prefix of generated class names")
	pf.String("tag", zerocss.DefaultTagName, "Name of the style tag function")
	pf.String("import-source", zerocss.DefaultImportSource, "Module the style tag is imported from")

	// Flags the default command shares with build
	addBuildFlags(rootCmd)

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
