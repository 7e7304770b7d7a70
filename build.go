package zerocss

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/zerocss/internal/extract"
)

// BuildConfig holds build configuration
type BuildConfig struct {
	Options
	Host        extract.Host // FSHost when nil
	OutDir      string       // Output tree; sources keep their root-relative paths
	Concurrency int          // runtime.NumCPU() when <= 0
	Manifest    string       // Manifest file name inside OutDir, "" disables it
}

// BuildOutput describes what a build wrote for one source file
type BuildOutput struct {
	Source     string   `json:"source"`            // Root-relative source path
	Output     string   `json:"output"`            // OutDir-relative rewritten source
	CSS        string   `json:"css,omitempty"`     // OutDir-relative stylesheet
	ModuleID   string   `json:"module,omitempty"`  // Virtual module id the stylesheet replaced
	Classes    []string `json:"classes,omitempty"` // Generated class names in source order
	Unresolved int      `json:"unresolved,omitempty"`
}

// BuildResult contains build stats
type BuildResult struct {
	FilesScanned     int
	FilesTransformed int
	StyleSheets      int
	ClassesGenerated int
	Unresolved       int
	Outputs          []BuildOutput // Sorted by source path
	Stats            StyleStats
	Warnings         []string
}

// Builder runs builds for one configuration. Every Run is a build
// boundary: analysis caches and virtual modules start empty.
type Builder struct {
	config BuildConfig
	host   extract.Host
	plugin *Plugin
}

// NewBuilder validates config and prepares a builder
func NewBuilder(config BuildConfig) (*Builder, error) {
	if config.OutDir == "" {
		return nil, fmt.Errorf("%w: output directory is required", ErrInvalidOptions)
	}

	host := config.Host
	if host == nil {
		host = extract.FSHost{}
	}
	plugin, err := NewPlugin(config.Options, host)
	if err != nil {
		return nil, err
	}
	config.Options = plugin.Options()

	// Outputs inside the root must not be picked up by the next run
	if outDir, err := filepath.Abs(config.OutDir); err == nil {
		config.OutDir = outDir
		if outDir == config.Root {
			return nil, fmt.Errorf("%w: output directory must differ from the root", ErrInvalidOptions)
		}
		if rel, err := filepath.Rel(config.Root, outDir); err == nil && !strings.HasPrefix(rel, "..") {
			exclude := append([]string{}, config.Exclude...)
			config.Options.Exclude = append(exclude, filepath.ToSlash(rel)+"/**")
		}
	}

	return &Builder{config: config, host: host, plugin: plugin}, nil
}

// Plugin returns the builder's plugin
func (b *Builder) Plugin() *Plugin {
	return b.plugin
}

// Build is the main entry point
func Build(ctx context.Context, config BuildConfig) (*BuildResult, error) {
	builder, err := NewBuilder(config)
	if err != nil {
		return nil, err
	}
	return builder.Run(ctx)
}

// Run discovers, transforms and writes every source file. Files that fail
// are reported together after the others have been written.
func (b *Builder) Run(ctx context.Context) (*BuildResult, error) {
	b.plugin.ResetCaches()
	logger := b.plugin.logger

	// 1. Discover source files
	files, stats, err := NewScanner(b.config.Options).Scan()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	logger.Debug("discovered files", "scanned", stats.FilesScanned, "skipped", stats.FilesSkipped)

	// 2. Transform and write concurrently
	outputs := make([]BuildOutput, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(b.config.Concurrency))
	for i, file := range files {
		g.Go(func() error {
			out, err := b.buildFile(gctx, file)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failures[i] = err
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. Collect
	result := &BuildResult{FilesScanned: len(files)}
	var errs []error
	for i, out := range outputs {
		if failures[i] != nil {
			errs = append(errs, failures[i])
			result.Warnings = append(result.Warnings, failures[i].Error())
			continue
		}
		if len(out.Classes) > 0 {
			result.FilesTransformed++
		}
		if out.CSS != "" {
			result.StyleSheets++
		}
		result.ClassesGenerated += len(out.Classes)
		result.Unresolved += out.Unresolved
		result.Outputs = append(result.Outputs, out)
	}
	for _, id := range b.plugin.Modules().IDs() {
		css, _ := b.plugin.Modules().Load(id)
		result.Stats.Add(ComputeStyleStats(css))
	}

	// 4. Manifest
	if b.config.Manifest != "" {
		if err := writeManifest(filepath.Join(b.config.OutDir, b.config.Manifest), result.Outputs); err != nil {
			return result, fmt.Errorf("write manifest: %w", err)
		}
	}

	logger.Info("build complete",
		"files", result.FilesScanned,
		"transformed", result.FilesTransformed,
		"stylesheets", result.StyleSheets,
		"classes", result.ClassesGenerated,
		"unresolved", result.Unresolved,
		"failed", len(errs))

	if len(errs) > 0 {
		return result, fmt.Errorf("build failed: %w", errors.Join(errs...))
	}
	return result, nil
}

// buildFile transforms one source file and writes its outputs. Files
// without extracted declarations are copied unchanged.
func (b *Builder) buildFile(ctx context.Context, file string) (BuildOutput, error) {
	rel := b.plugin.RelativePath(file)
	out := BuildOutput{Source: rel, Output: rel}
	target := filepath.Join(b.config.OutDir, filepath.FromSlash(rel))

	code, err := b.host.ReadFile(ctx, file)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", rel, err)
	}

	tr, err := b.plugin.transform(ctx, code, file)
	if err != nil {
		return out, err
	}
	if tr != nil {
		out.Unresolved = len(tr.Unresolved)
	}
	if tr == nil || !tr.changed {
		b.plugin.logger.Debug("copied", "file", rel)
		return out, writeFile(target, code)
	}

	out.Classes = tr.Classes
	rewritten := tr.Code

	if tr.ModuleID != "" {
		// a.ts.1a2b3c4d.css next to the rewritten a.ts
		cssName := path.Base(strings.TrimPrefix(tr.ModuleID, extract.VirtualModulePrefix))
		rewritten = strings.Replace(rewritten,
			extract.ImportStatement(tr.ModuleID),
			extract.ImportStatement("./"+cssName), 1)

		out.ModuleID = tr.ModuleID
		out.CSS = path.Join(path.Dir(rel), cssName)
		if err := writeFile(filepath.Join(filepath.Dir(target), cssName), tr.CSS); err != nil {
			return out, err
		}
	}

	b.plugin.logger.Debug("transformed", "file", rel, "classes", len(out.Classes), "css", out.CSS)
	return out, writeFile(target, rewritten)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeManifest writes the outputs keyed by source path
func writeManifest(path string, outputs []BuildOutput) error {
	manifest := make(map[string]BuildOutput, len(outputs))
	for _, out := range outputs {
		manifest[out.Source] = out
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, string(data)+"\n")
}
