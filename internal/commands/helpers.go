package commands

import (
	"os"
	"sync"
	"time"

	"github.com/gerunddev/orgtree/internal/outline"
	"github.com/gerunddev/orgtree/internal/parser"
	"github.com/gerunddev/orgtree/internal/source"
)

// parsed is the outcome of parsing one file.
type parsed struct {
	path string
	root *parser.Root
	size int64
	err  error
}

// parseFile reads and parses path, logging the outcome.
func (a *app) parseFile(path string) parsed {
	a.log.ParseStarted(path)
	start := time.Now()

	p := parsed{path: path}
	if info, err := os.Stat(path); err == nil {
		p.size = info.Size()
	}
	p.root, p.err = source.ParseFile(path, a.parserOptions()...)
	if p.err != nil {
		a.log.ParseFailed(path, p.err)
		return p
	}
	a.log.ParseCompleted(path, len(outline.Flatten(p.root, a.cfg.Keywords())), time.Since(start))
	return p
}

// parseAll parses paths with at most cfg.Workers files in flight. Results
// keep the order of paths.
func (a *app) parseAll(paths []string) []parsed {
	results := make([]parsed, len(paths))
	sem := make(chan struct{}, a.cfg.Workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = a.parseFile(path)
		}()
	}
	wg.Wait()
	return results
}

// expand resolves command line patterns, honoring exclude_patterns.
func (a *app) expand(patterns []string) ([]string, error) {
	return source.Expand(patterns, a.cfg.ExcludePatterns)
}
