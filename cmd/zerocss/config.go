package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/zerocss"
)

const defaultConfigPath = ".zerocss.yaml"

// Config sections whose keys are nested one level in the config file
var configSections = map[string]bool{"build": true, "check": true}

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags, only those explicitly set so file and env values survive
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (ZEROCSS_* prefix)
	if err := k.Load(env.Provider("ZEROCSS_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key:
//
//	ZEROCSS_CLASS_PREFIX  -> class-prefix
//	ZEROCSS_BUILD_OUT_DIR -> build.out-dir
//	ZEROCSS_CHECK_STRICT  -> check.strict
func envKey(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(s, "ZEROCSS_")), "_")
	if len(parts) > 1 && configSections[parts[0]] {
		return parts[0] + "." + strings.Join(parts[1:], "-")
	}
	return strings.Join(parts, "-")
}

// buildOptions constructs the library's Options from koanf state
func buildOptions(logger *slog.Logger) zerocss.Options {
	return zerocss.Options{
		Root:         getStringWithFallback("root", "root", "."),
		Include:      getStringsWithFallback("include", "include", nil),
		Exclude:      getStringsWithFallback("exclude", "exclude", nil),
		ClassPrefix:  getStringWithFallback("class-prefix", "class-prefix", zerocss.DefaultClassPrefix),
		TagName:      getStringWithFallback("tag", "tag", zerocss.DefaultTagName),
		ImportSource: getStringWithFallback("import-source", "import-source", zerocss.DefaultImportSource),
		Logger:       logger,
	}
}

// buildBuildConfig constructs the library's BuildConfig from koanf state
func buildBuildConfig(logger *slog.Logger) zerocss.BuildConfig {
	return zerocss.BuildConfig{
		Options:     buildOptions(logger),
		OutDir:      getStringWithFallback("out-dir", "build.out-dir", "dist"),
		Concurrency: getIntWithFallback("concurrency", "build.concurrency", 0),
		Manifest:    getStringWithFallback("manifest", "build.manifest", ""),
	}
}

// buildCheckConfig constructs the library's CheckConfig from koanf state
func buildCheckConfig(logger *slog.Logger) zerocss.CheckConfig {
	return zerocss.CheckConfig{
		Options:            buildOptions(logger),
		Concurrency:        getIntWithFallback("concurrency", "check.concurrency", 0),
		Strict:             getBoolWithFallback("strict", "check.strict", false),
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "check.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "check.max-same-issues", 0),
		PrintIssuedLines:   getBoolWithFallback("print-lines", "check.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "check.print-linter-name", true),
		UseColors:          getBoolWithFallback("color", "color", false),
	}
}

// newLogger writes structured logs to stderr: debug with --verbose,
// errors only with --quiet
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		level = slog.LevelError
	case getBoolWithFallback("verbose", "verbose", false):
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback is getStringWithFallback for lists. A plain string
// (from an env var) is split on commas.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	for _, key := range []string{flagKey, configKey} {
		switch v := k.Get(key).(type) {
		case string:
			if v == "" {
				continue
			}
			var out []string
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
			return out
		case nil:
			continue
		default:
			if list := k.Strings(key); len(list) > 0 {
				return list
			}
		}
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}
