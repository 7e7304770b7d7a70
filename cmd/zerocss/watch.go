package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yacobolo/zerocss"
)

// debounce collapses the burst of events an editor save produces
const debounce = 100 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever a source file changes",
	Long: `Run a build, then watch the root for changes and rebuild.
Every rebuild is a fresh build session, so edits to imported
modules are picked up.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	addBuildFlags(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	config := buildBuildConfig(logger)

	builder, err := zerocss.NewBuilder(config)
	if err != nil {
		return err
	}
	opts := builder.Plugin().Options()
	quiet := getBoolWithFallback("quiet", "quiet", false)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	outDir, _ := filepath.Abs(config.OutDir)
	if err := addWatchDirs(watcher, opts.Root, outDir); err != nil {
		return err
	}

	rebuild := func() {
		result, err := builder.Run(ctx)
		if err != nil {
			logger.Error("build failed", "error", err)
		}
		if result != nil && !quiet {
			printBuildResult(outDir, result)
		}
	}

	rebuild()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, builder.Plugin().Filter(), outDir) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			// New directories must be watched too
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, event.Name, outDir); err != nil {
						logger.Warn("watching new directory", "path", event.Name, "error", err)
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// addWatchDirs watches dir and every directory below it except the
// output tree and dependency or VCS directories
func addWatchDirs(watcher *fsnotify.Watcher, dir, outDir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipWatchDir(path, outDir) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func skipWatchDir(path, outDir string) bool {
	if path == outDir {
		return true
	}
	switch filepath.Base(path) {
	case "node_modules", ".git":
		return true
	}
	return false
}

// relevant reports whether event may change the build output
func relevant(event fsnotify.Event, filter *zerocss.Filter, outDir string) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if rel, err := filepath.Rel(outDir, event.Name); err == nil && filepath.IsLocal(rel) {
		return false
	}
	if filter.Match(event.Name) {
		return true
	}
	// Directory changes and removals can't be matched by extension
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return true
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}
