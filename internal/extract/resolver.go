package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zeebo/xxh3"
)

// ModuleResolver maps an import specifier to a file path
type ModuleResolver interface {
	// Resolve returns the path of the module specifier imported from
	// importer, or false when it cannot be resolved
	Resolve(ctx context.Context, specifier, importer string) (string, bool)
}

// FileReader reads source files
type FileReader interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// Host is everything the engine needs from the build tool
type Host interface {
	ModuleResolver
	FileReader
}

// Store owns the analysis results of every file seen during a build session
type Store struct {
	analyzer *Analyzer
	reader   FileReader
	cache    *Cache[*FileInfo]
}

// NewStore creates a store backed by analyzer; reader loads files that
// were never transformed directly
func NewStore(analyzer *Analyzer, reader FileReader) *Store {
	return &Store{
		analyzer: analyzer,
		reader:   reader,
		cache:    NewCache[*FileInfo](),
	}
}

// Analyze returns the analysis of path for the given source text.
// A cached entry is reused only if it was computed from the same text;
// otherwise the file is analyzed again and the entry replaced.
func (s *Store) Analyze(ctx context.Context, path, source string) (*FileInfo, error) {
	if info, ok := s.cache.Get(path); ok && info.SourceHash == xxh3.HashString(source) {
		return info, nil
	}

	info, err := s.analyzer.Analyze(ctx, path, source)
	if err != nil {
		return nil, err
	}
	s.cache.Put(path, info)

	return info, nil
}

// Lookup returns the analysis of path, reading it from the host when it
// is not cached yet
func (s *Store) Lookup(ctx context.Context, path string) (*FileInfo, error) {
	return s.cache.GetOrCompute(path, func() (*FileInfo, error) {
		source, err := s.reader.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return s.analyzer.Analyze(ctx, path, source)
	})
}

// Clear drops every cached analysis
func (s *Store) Clear() {
	s.cache.ClearAll()
}

// Len returns the number of cached analyses
func (s *Store) Len() int {
	return s.cache.Len()
}

// Resolver looks up values exported by other files.
//
// Resolution is a single hop: the target file's own bindings are consulted,
// re-exports are never followed.
type Resolver struct {
	modules ModuleResolver
	store   *Store
	logger  *slog.Logger
}

// NewResolver creates a cross-file resolver
func NewResolver(modules ModuleResolver, store *Store, logger *slog.Logger) *Resolver {
	return &Resolver{modules: modules, store: store, logger: logger}
}

// ResolveImportedValue returns the value of exportedName in the module
// specifier imported from importer
func (r *Resolver) ResolveImportedValue(ctx context.Context, importer, specifier, exportedName string) (string, bool) {
	path, ok := r.modules.Resolve(ctx, specifier, importer)
	if !ok {
		r.logger.Debug("module not resolved", "importer", importer, "specifier", specifier)
		return "", false
	}

	info, err := r.store.Lookup(ctx, path)
	if err != nil {
		r.logger.Debug("imported module not analyzed", "path", path, "error", err)
		return "", false
	}

	value, ok := info.ExportNameToValue[exportedName]
	return value, ok
}
