package zerocss

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/yacobolo/zerocss/internal/extract"
)

// Hooks is the capability surface a build host drives
type Hooks interface {
	// ResolveModule claims ids of registered virtual style modules
	ResolveModule(id string) (string, bool)
	// LoadModule returns the style text of a claimed virtual module
	LoadModule(id string) (string, bool)
	// TransformFile rewrites one source file; nil means "leave it alone"
	TransformFile(ctx context.Context, code, id string) (*TransformResult, error)
	// ResetCaches marks a build boundary
	ResetCaches()
}

// TransformResult is the rewritten form of one source file
type TransformResult struct {
	Code       string               // Rewritten source, virtual import first when CSS was produced
	CSS        string               // Extracted style text, "" when no rule block was produced
	ModuleID   string               // Virtual module id of CSS, "" when CSS is empty
	Classes    []string             // Class names that replaced a declaration, in source order
	Unresolved []extract.Unresolved // Declarations left in place

	changed bool
}

// Plugin runs extraction for a build host
type Plugin struct {
	opts    Options
	filter  *Filter
	engine  *extract.Engine
	modules *extract.ModuleRegistry
	strip   *regexp.Regexp
	logger  *slog.Logger
}

var _ Hooks = (*Plugin)(nil)

// NewPlugin validates opts and creates a plugin with an empty session state
func NewPlugin(opts Options, host extract.Host) (*Plugin, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Plugin{
		opts:   opts,
		filter: NewFilter(opts),
		engine: extract.NewEngine(extract.EngineOptions{
			Root:        opts.Root,
			ClassPrefix: opts.ClassPrefix,
			TagName:     opts.TagName,
			Host:        host,
			Logger:      opts.Logger,
		}),
		modules: extract.NewModuleRegistry(),
		strip:   extract.StyleImportPattern(opts.TagName, opts.ImportSource),
		logger:  opts.Logger,
	}, nil
}

// Options returns the effective options
func (p *Plugin) Options() Options {
	return p.opts
}

// Filter returns the file filter
func (p *Plugin) Filter() *Filter {
	return p.filter
}

// Modules returns the virtual style module registry
func (p *Plugin) Modules() *extract.ModuleRegistry {
	return p.modules
}

// ResolveModule implements Hooks
func (p *Plugin) ResolveModule(id string) (string, bool) {
	if p.modules.Has(id) {
		return id, true
	}
	return "", false
}

// LoadModule implements Hooks
func (p *Plugin) LoadModule(id string) (string, bool) {
	return p.modules.Load(id)
}

// ResetCaches implements Hooks
func (p *Plugin) ResetCaches() {
	p.engine.Reset()
	p.modules.Reset()
}

// TransformFile implements Hooks. Files outside the filter and files that
// never mention the tag are skipped without parsing.
func (p *Plugin) TransformFile(ctx context.Context, code, id string) (*TransformResult, error) {
	out, err := p.transform(ctx, code, id)
	if err != nil || out == nil || !out.changed {
		return nil, err
	}
	return out, nil
}

// transform is TransformFile without hiding files that had declarations
// but none extracted; their Code is the input text
func (p *Plugin) transform(ctx context.Context, code, id string) (*TransformResult, error) {
	if !p.filter.Match(id) || !strings.Contains(code, p.opts.TagName) {
		return nil, nil
	}

	path := stripQuery(id)
	result, err := p.engine.Extract(ctx, path, code)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", path, err)
	}

	out := &TransformResult{
		Code:       result.Code,
		Unresolved: result.Unresolved,
		changed:    result.Extracted,
	}
	if !result.Extracted {
		p.logger.Debug("nothing extracted", "file", path, "unresolved", len(result.Unresolved))
		return out, nil
	}

	out.CSS = result.StyleText
	for _, r := range result.Records {
		out.Classes = append(out.Classes, r.ClassName)
	}

	// The style function stays imported while untouched call sites need it
	if !result.HasUnresolvedBlocks {
		out.Code = p.strip.ReplaceAllString(out.Code, "")
	}

	if out.CSS != "" {
		out.ModuleID = extract.VirtualModuleID(p.RelativePath(path), out.CSS)
		p.modules.Register(out.ModuleID, out.CSS)
		out.Code = extract.ImportStatement(out.ModuleID) + out.Code
	}

	p.logger.Debug("transformed", "file", path, "classes", len(out.Classes), "unresolved", len(out.Unresolved))

	return out, nil
}

// RelativePath returns path relative to the root in slash form, the same
// form class names are derived from
func (p *Plugin) RelativePath(path string) string {
	return p.engine.RelativePath(path)
}

func stripQuery(id string) string {
	if i := strings.IndexByte(id, '?'); i >= 0 {
		return id[:i]
	}
	return id
}
