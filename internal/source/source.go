// Package source reads org files into lines and expands file patterns.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gerunddev/orgtree/internal/parser"
)

// ReadFile reads path and splits it into lines.
func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.SplitLines(data), nil
}

// ParseFile reads and parses the org file at path.
func ParseFile(path string, opts ...parser.Option) (*parser.Root, error) {
	lines, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parser.Parse(lines, append([]parser.Option{parser.WithPath(path)}, opts...)...)
}

// Expand resolves patterns to a sorted, de-duplicated list of files. A
// pattern may be a file, a directory (searched for **/*.org) or a doublestar
// glob. Paths matching any exclude pattern are dropped.
func Expand(patterns, exclude []string) ([]string, error) {
	for _, ex := range exclude {
		if !doublestar.ValidatePathPattern(ex) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", ex, doublestar.ErrBadPattern)
		}
	}

	seen := make(map[string]bool)
	var files []string

	add := func(path string) error {
		path = filepath.Clean(path)
		if seen[path] {
			return nil
		}
		for _, ex := range exclude {
			matched, err := doublestar.PathMatch(ex, path)
			if err != nil {
				return fmt.Errorf("invalid exclude pattern %q: %w", ex, err)
			}
			if matched {
				return nil
			}
		}
		seen[path] = true
		files = append(files, path)
		return nil
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil {
			if !info.IsDir() {
				if err := add(pattern); err != nil {
					return nil, err
				}
				continue
			}
			pattern = filepath.Join(pattern, "**", "*.org")
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
