package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultClassPrefix is prepended to every generated class name
const DefaultClassPrefix = "css-"

// anonymousMarker stands in for the variable name of an unbound declaration
const anonymousMarker = "<anonymous>"

// classHashLength is the number of hex characters kept from the digest
const classHashLength = 8

// Namer generates deterministic class names
type Namer struct {
	Root   string // Project root that paths are made relative to
	Prefix string // Non-empty class prefix, "css-" by default
}

// NewNamer creates a namer rooted at root. An empty prefix selects DefaultClassPrefix.
func NewNamer(root, prefix string) *Namer {
	if prefix == "" {
		prefix = DefaultClassPrefix
	}
	return &Namer{Root: root, Prefix: prefix}
}

// ClassName derives the class name for the declaration at index in path.
//
// The key is "relPath:index:variableName". The index is always part of the
// key so that same-named bindings in different scopes of one file differ.
func (n *Namer) ClassName(path string, index int, variableName string) string {
	if variableName == "" {
		variableName = anonymousMarker
	}

	key := n.RelativePath(path) + ":" + strconv.Itoa(index) + ":" + variableName
	sum := sha256.Sum256([]byte(key))

	return n.Prefix + hex.EncodeToString(sum[:])[:classHashLength]
}

// RelativePath returns path relative to the root with forward slashes,
// so that names do not depend on the platform
func (n *Namer) RelativePath(path string) string {
	rel := path
	if n.Root != "" && filepath.IsAbs(path) {
		if r, err := filepath.Rel(n.Root, path); err == nil {
			rel = r
		}
	}
	// Normalize Windows separators on every platform
	return strings.ReplaceAll(filepath.ToSlash(rel), "\\", "/")
}
