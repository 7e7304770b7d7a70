package extract

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Engine rewrites style declarations of one file at a time.
// It is safe for concurrent use; files share only the analysis store.
type Engine struct {
	store    *Store
	resolver *Resolver
	namer    *Namer
	logger   *slog.Logger
}

// EngineOptions configures NewEngine
type EngineOptions struct {
	Root        string       // Project root for class name paths
	ClassPrefix string       // "css-" when empty
	TagName     string       // "css" when empty
	Host        Host         // Module resolution and file access; FSHost when nil
	Logger      *slog.Logger // Discards when nil
}

// NewEngine creates an engine with its own analysis store
func NewEngine(opts EngineOptions) *Engine {
	host := opts.Host
	if host == nil {
		host = FSHost{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	namer := NewNamer(opts.Root, opts.ClassPrefix)
	store := NewStore(NewAnalyzer(opts.TagName, namer), host)

	return &Engine{
		store:    store,
		resolver: NewResolver(host, store, logger),
		namer:    namer,
		logger:   logger,
	}
}

// Store returns the engine's analysis store
func (e *Engine) Store() *Store {
	return e.store
}

// RelativePath returns path in the root-relative slash form used for
// class name keys
func (e *Engine) RelativePath(path string) string {
	return e.namer.RelativePath(path)
}

// Reset clears every cached analysis. Call it at build boundaries.
func (e *Engine) Reset() {
	e.store.Clear()
}

// Extract replaces every fully resolvable declaration in source with its
// class name and renders the extracted style text.
//
// Declarations fail independently: one that cannot be resolved is left
// untouched and reported in Result.Unresolved. Parse errors fail the file.
func (e *Engine) Extract(ctx context.Context, path, source string) (*Result, error) {
	info, err := e.store.Analyze(ctx, path, source)
	if err != nil {
		return nil, err
	}

	var (
		replacements []Replacement
		records      []Record
		unresolved   []Unresolved
	)

	accept := func(d Declaration, content string) {
		replacements = append(replacements, Replacement{Start: d.Start, End: d.End, ClassName: d.ClassName})
		records = append(records, Record{ClassName: d.ClassName, CSS: strings.TrimSpace(content), Position: d.Start})
	}

	// Pass A: static declarations are their own content
	for _, d := range info.Declarations {
		if d.HasInterpolations {
			continue
		}
		accept(d, d.Quasis[0])
	}

	// Pass B: every interpolation must resolve or the declaration is skipped
	for _, d := range info.Declarations {
		if !d.HasInterpolations {
			continue
		}
		content, failure := e.resolveContent(ctx, info, d)
		if failure != nil {
			e.logger.Debug("declaration left in place",
				"file", path, "line", failure.Line, "class", d.ClassName,
				"reason", failure.Reason, "detail", failure.Detail)
			unresolved = append(unresolved, *failure)
			continue
		}
		accept(d, content)
	}

	result := &Result{
		Code:                source,
		HasUnresolvedBlocks: len(unresolved) > 0,
		Unresolved:          unresolved,
	}
	if len(replacements) == 0 {
		return result, nil
	}

	result.Extracted = true
	result.Code = applyReplacements(source, replacements)
	result.StyleText = renderStyleText(records)
	result.Records = records

	return result, nil
}

// resolveContent concatenates a declaration's literal segments with the
// values of its interpolations
func (e *Engine) resolveContent(ctx context.Context, info *FileInfo, d Declaration) (string, *Unresolved) {
	fail := func(reason, detail string) *Unresolved {
		return &Unresolved{
			Index:     d.Index,
			ClassName: d.ClassName,
			Start:     d.Start,
			End:       d.End,
			Line:      d.Line,
			Column:    d.Column,
			Reason:    reason,
			Detail:    detail,
		}
	}

	var b strings.Builder
	for i, expr := range d.Expressions {
		b.WriteString(d.Quasis[i])

		if !expr.IsIdentifier() {
			return "", fail(ReasonNonIdentifier, expr.Kind)
		}

		value, reason := e.resolveIdentifier(ctx, info, expr.Name)
		if reason != "" {
			return "", fail(reason, expr.Name)
		}
		b.WriteString(value)
	}
	b.WriteString(d.Quasis[len(d.Quasis)-1])

	return b.String(), nil
}

// resolveIdentifier looks name up in the file's own bindings, then in the
// module it was imported from. It returns a failure reason when neither
// provides a value.
func (e *Engine) resolveIdentifier(ctx context.Context, info *FileInfo, name string) (string, string) {
	if value, ok := info.LocalIdentifiers[name]; ok {
		return value, ""
	}

	binding, ok := info.ImportedIdentifiers[name]
	if !ok {
		return "", ReasonUnknownIdentifier
	}

	value, ok := e.resolver.ResolveImportedValue(ctx, info.Path, binding.Source, binding.ImportedName)
	if !ok {
		return "", ReasonUnresolvedImport
	}
	return value, ""
}
