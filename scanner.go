package zerocss

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ErrNoFiles is returned when discovery finds nothing to transform
var ErrNoFiles = errors.New("no source files found")

// ScanStats tracks file discovery statistics
type ScanStats struct {
	FilesDiscovered int // Files matched by include patterns
	FilesScanned    int // Files kept after exclude patterns and .gitignore
	FilesSkipped    int // Files dropped by exclude patterns or .gitignore
}

// Scanner discovers source files below a root directory
type Scanner struct {
	root   string
	filter *Filter

	gitIgnore     *ignore.GitIgnore
	gitIgnoreOnce sync.Once
}

// NewScanner creates a scanner for the include/exclude patterns of opts
func NewScanner(opts Options) *Scanner {
	return &Scanner{root: opts.Root, filter: NewFilter(opts)}
}

// loadGitIgnore loads the root's .gitignore once.
// A missing .gitignore is not an error.
func (s *Scanner) loadGitIgnore() *ignore.GitIgnore {
	s.gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(filepath.Join(s.root, ".gitignore"))
		if err != nil {
			return
		}
		s.gitIgnore = gi
	})
	return s.gitIgnore
}

// shouldSkipFile applies exclude patterns, then .gitignore, to a
// root-relative slash path
func (s *Scanner) shouldSkipFile(rel string) bool {
	if matchAny(s.filter.exclude, rel) {
		return true
	}
	if gi := s.loadGitIgnore(); gi != nil && gi.MatchesPath(rel) {
		return true
	}
	return false
}

// Scan returns the absolute paths of every source file to transform,
// sorted and free of duplicates
func (s *Scanner) Scan() ([]string, ScanStats, error) {
	var (
		files []string
		stats ScanStats
	)
	seen := make(map[string]bool)
	fsys := os.DirFS(s.root)

	for _, pattern := range s.filter.include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			seen[rel] = true
			stats.FilesDiscovered++

			if s.shouldSkipFile(rel) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, filepath.Join(s.root, filepath.FromSlash(rel)))
			stats.FilesScanned++
		}
	}

	sort.Strings(files)
	return files, stats, nil
}

// ScanFiles discovers the source files selected by opts
func ScanFiles(opts Options) ([]string, ScanStats, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, ScanStats{}, err
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, ScanStats{}, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, ScanStats{}, fmt.Errorf("scan root %s: %w", opts.Root, fs.ErrInvalid)
	}

	return NewScanner(opts).Scan()
}
