package zerocss

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidOptions is returned by Options.Validate
var ErrInvalidOptions = errors.New("invalid options")

// Defaults applied to zero-valued Options fields
var (
	DefaultInclude = []string{"**/*.{js,jsx,ts,tsx,mjs,cjs,mts,cts}"}
	DefaultExclude = []string{"**/node_modules/**", "**/*.d.ts"}
)

const (
	DefaultClassPrefix  = "css-"
	DefaultTagName      = "css"
	DefaultImportSource = "zero-css"
)

// Options configures extraction
type Options struct {
	Root         string       // Project root; class names hash paths relative to it (default: working directory)
	Include      []string     // Glob patterns relative to Root
	Exclude      []string     // Glob patterns relative to Root, checked after Include
	ClassPrefix  string       // "css-"
	TagName      string       // Style function recognized as a template tag: "css"
	ImportSource string       // Module the style function is imported from: "zero-css"
	Logger       *slog.Logger // Discards when nil
}

// WithDefaults returns a copy with every zero-valued field filled in
func (o Options) WithDefaults() Options {
	if o.Root == "" {
		if wd, err := os.Getwd(); err == nil {
			o.Root = wd
		}
	}
	if o.Root != "" {
		if abs, err := filepath.Abs(o.Root); err == nil {
			o.Root = abs
		}
	}
	if len(o.Include) == 0 {
		o.Include = DefaultInclude
	}
	if o.Exclude == nil {
		o.Exclude = DefaultExclude
	}
	if o.ClassPrefix == "" {
		o.ClassPrefix = DefaultClassPrefix
	}
	if o.TagName == "" {
		o.TagName = DefaultTagName
	}
	if o.ImportSource == "" {
		o.ImportSource = DefaultImportSource
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Validate checks options after defaults have been applied
func (o Options) Validate() error {
	if strings.TrimSpace(o.ClassPrefix) == "" {
		return fmt.Errorf("%w: class prefix must not be empty", ErrInvalidOptions)
	}
	if strings.TrimSpace(o.TagName) == "" {
		return fmt.Errorf("%w: tag name must not be empty", ErrInvalidOptions)
	}
	for _, pattern := range append(append([]string{}, o.Include...), o.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: bad glob pattern %q", ErrInvalidOptions, pattern)
		}
	}
	return nil
}

// Filter decides which files are transformed
type Filter struct {
	root    string
	include []string
	exclude []string
}

// NewFilter creates a filter from the include and exclude patterns of opts
func NewFilter(opts Options) *Filter {
	return &Filter{root: opts.Root, include: opts.Include, exclude: opts.Exclude}
}

// Match reports whether id passes the filter. A query suffix ("?v=1") is
// ignored; absolute ids are matched relative to the root.
func (f *Filter) Match(id string) bool {
	id = stripQuery(id)

	name := filepath.ToSlash(id)
	if f.root != "" && filepath.IsAbs(id) {
		if rel, err := filepath.Rel(f.root, id); err == nil {
			name = filepath.ToSlash(rel)
		}
	}

	if !matchAny(f.include, name) {
		return false
	}
	return !matchAny(f.exclude, name)
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
