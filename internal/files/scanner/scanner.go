package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// Scanner discovers data files in a flat staging directory.
// Scanner is safe for concurrent use by multiple goroutines.
type Scanner struct {
	pattern string
}

// NewScanner creates a scanner that matches file names against the given
// glob pattern (e.g. "*.tbl").
// Panics if pattern is empty or malformed.
func NewScanner(pattern string) *Scanner {
	if pattern == "" {
		panic("pattern cannot be empty")
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		panic(fmt.Sprintf("invalid file pattern %q: %v", pattern, err))
	}
	return &Scanner{pattern: pattern}
}

// ScanDataFiles returns the absolute paths of all regular files in dir
// whose base name matches the scanner's pattern, sorted lexicographically.
// Subdirectories are not descended into.
func (s *Scanner) ScanDataFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(s.pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", s.pattern, err)
		}
		if !matched {
			continue
		}
		path, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path for %s: %w", entry.Name(), err)
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}

// Verify Scanner implements the interface at compile time
var _ pgbulk.DataFileScanner = (*Scanner)(nil)
