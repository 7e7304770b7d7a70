package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default " + defaultConfigPath + " config file",
	Long:  `Create a ` + defaultConfigPath + ` configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created " + defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# zerocss configuration
# Docs: https://github.com/yacobolo/zerocss

# Shared settings
root: .
include:
  - "**/*.{js,jsx,ts,tsx,mjs,cjs,mts,cts}"
exclude:
  - "**/node_modules/**"
  - "**/*.d.ts"
class-prefix: css-
tag: css
import-source: zero-css
verbose: false

# Build settings
build:
  out-dir: dist
  concurrency: 0           # 0 = number of CPUs
  manifest: ""             # e.g. zerocss-manifest.json

# Check settings
check:
  strict: false
  threshold: 0.0
  output-format: issues    # issues | summary | full | json
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
