package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// SourceExtensions are probed, in order, when a specifier has no extension
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".mts", ".cts"}

// FSHost resolves and reads modules from the local file system.
//
// Only relative and absolute specifiers are resolved; bare package names
// are reported as unresolved.
type FSHost struct{}

// Resolve implements ModuleResolver
func (FSHost) Resolve(ctx context.Context, specifier, importer string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}

	var base string
	switch {
	case filepath.IsAbs(specifier):
		base = specifier
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		base = filepath.Join(filepath.Dir(importer), filepath.FromSlash(specifier))
	default:
		return "", false
	}

	for _, candidate := range candidates(base) {
		if isFile(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// ReadFile implements FileReader
func (FSHost) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// #nosec G304 - paths come from the build's own module graph
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// candidates lists the files a specifier base may refer to:
// the exact path, the path with each source extension, a TypeScript file
// behind a .js specifier, and index files of a directory
func candidates(base string) []string {
	list := []string{base}

	ext := filepath.Ext(base)
	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		// "./tokens.js" written in TypeScript sources refers to tokens.ts
		stem := strings.TrimSuffix(base, ext)
		tsExt := map[string][]string{
			".js":  {".ts", ".tsx"},
			".jsx": {".tsx"},
			".mjs": {".mts"},
			".cjs": {".cts"},
		}[ext]
		for _, e := range tsExt {
			list = append(list, stem+e)
		}
	}

	for _, e := range SourceExtensions {
		list = append(list, base+e)
	}
	for _, e := range SourceExtensions {
		list = append(list, filepath.Join(base, "index"+e))
	}

	return list
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
