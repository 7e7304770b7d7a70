package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
)

// VirtualModulePrefix starts every virtual style module id
const VirtualModulePrefix = "virtual:zerocss/"

// VirtualModuleID derives the id of the style module for the file at rel
// (a root-relative, slash separated path). The digest of the style text
// keeps the id stable across builds with identical content.
func VirtualModuleID(rel, styleText string) string {
	digest := fmt.Sprintf("%016x", xxh3.HashString(styleText))
	return VirtualModulePrefix + strings.TrimPrefix(rel, "/") + "." + digest[:8] + ".css"
}

// IsVirtualModuleID reports whether id has the virtual style module form
func IsVirtualModuleID(id string) bool {
	return strings.HasPrefix(id, VirtualModulePrefix) && strings.HasSuffix(id, ".css")
}

// ImportStatement is the synthetic import line prepended to rewritten code
func ImportStatement(id string) string {
	return fmt.Sprintf("import %q;\n", id)
}

// StyleImportPattern matches the canonical import of the style function,
// e.g. `import { css } from "zero-css";`, including its line break
func StyleImportPattern(tag, source string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*import[ \t]*\{[ \t]*` + regexp.QuoteMeta(tag) +
		`[ \t]*\}[ \t]*from[ \t]*['"]` + regexp.QuoteMeta(source) + `['"][ \t]*;?[ \t]*\r?\n?`)
}

// ModuleRegistry holds the virtual style modules of a build session
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]string
}

// NewModuleRegistry creates an empty registry
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{modules: make(map[string]string)}
}

// Register stores styleText under id, replacing any previous content
func (r *ModuleRegistry) Register(id, styleText string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[id] = styleText
}

// Has reports whether id is registered
func (r *ModuleRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[id]
	return ok
}

// Load returns the style text registered under id
func (r *ModuleRegistry) Load(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	css, ok := r.modules[id]
	return css, ok
}

// IDs returns the registered ids in sorted order
func (r *ModuleRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset drops every module
func (r *ModuleRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = make(map[string]string)
}
