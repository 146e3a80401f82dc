package scanner

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/viant/afs"

	"marklint/src/config"
	"marklint/src/model"
	"marklint/src/service/document"
	"marklint/src/service/evaluator"
	"marklint/src/service/index"
	"marklint/src/util"
)

// FileResult is the outcome of analyzing one file
type FileResult struct {
	Path        string
	Document    *document.Document
	Diagnostics []model.Diagnostic
	Failure     *model.ParseFailure
	Lines       int
}

// Scanner runs project-wide scans in two phases: first every file is parsed
// and indexed so cross-file reference rules see a complete symbol table,
// then every parsed document is evaluated. Files are independent within a
// phase; only the symbol index is shared, and it serializes its own writes.
type Scanner struct {
	registry   *evaluator.Registry
	eval       *evaluator.Evaluator
	symbols    *index.SymbolIndex
	exclusions *util.ExclusionMatcher
	cfg        config.ConcurrencyConfig
	fs         afs.Service
}

// New creates a scanner over a registry, a shared evaluator and symbol index
func New(registry *evaluator.Registry, eval *evaluator.Evaluator, symbols *index.SymbolIndex,
	exclusions *util.ExclusionMatcher, cfg config.ConcurrencyConfig) *Scanner {
	return &Scanner{
		registry:   registry,
		eval:       eval,
		symbols:    symbols,
		exclusions: exclusions,
		cfg:        cfg,
		fs:         afs.New(),
	}
}

// Scan analyzes every recognized file under root and returns the per-file
// results sorted by path, so repeated scans over unchanged input produce
// identical output. The context is checked between files; a cancelled scan
// returns what was completed plus ctx.Err().
func (s *Scanner) Scan(ctx context.Context, root string) ([]FileResult, error) {
	paths, err := s.collectPaths(root)
	if err != nil {
		return nil, err
	}
	util.Info("Scanning %d files under %s", len(paths), root)

	results := make([]FileResult, len(paths))

	completed := s.forEachFile(ctx, paths, func(slot int, path string) {
		results[slot] = s.parseAndIndex(ctx, path)
	})

	s.forEachFile(ctx, paths[:completed], func(slot int, path string) {
		r := &results[slot]
		if r.Document == nil {
			return
		}
		r.Diagnostics = s.eval.Evaluate(r.Document)
	})

	s.applyDiagnosticLimit(results[:completed])
	return results[:completed], ctx.Err()
}

// applyDiagnosticLimit enforces the project-wide max_diagnostics cutoff in
// sorted path order, after all workers have finished. Which diagnostics
// survive the cap must not depend on which worker finished first.
func (s *Scanner) applyDiagnosticLimit(results []FileResult) {
	limit := s.eval.MaxDiagnostics()
	if limit <= 0 {
		return
	}

	remaining := limit
	for i := range results {
		r := &results[i]
		if len(r.Diagnostics) > remaining {
			util.Warn("Diagnostic limit of %d reached, dropping findings from %s onward", limit, r.Path)
			r.Diagnostics = r.Diagnostics[:remaining]
		}
		remaining -= len(r.Diagnostics)
	}
}

// forEachFile runs fn over the paths with bounded parallelism, checking for
// cooperative cancellation between files. Returns how many files were
// dispatched before cancellation.
func (s *Scanner) forEachFile(ctx context.Context, paths []string, fn func(slot int, path string)) int {
	maxParallel := s.cfg.MaxParallelFiles
	if maxParallel <= 0 {
		maxParallel = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxParallel)

	dispatched := 0
	for i, path := range paths {
		// Acquire the worker slot before spawning, so a cancel takes
		// effect between files instead of after the whole queue is
		// already in flight.
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			util.Warn("Scan cancelled after %d of %d files", dispatched, len(paths))
			break
		}
		dispatched++

		wg.Add(1)
		go func(slot int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			fn(slot, path)
		}(i, path)
	}

	wg.Wait()
	return dispatched
}

// collectPaths walks the tree and returns the sorted list of files some
// registered plugin can handle, minus exclusions.
func (s *Scanner) collectPaths(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if s.exclusions != nil && s.exclusions.Matches(rel) {
			util.Debug("Excluded from scan: %s", rel)
			return nil
		}
		if _, ok := s.registry.PluginFor(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// parseAndIndex reads, parses and indexes one file. Parse failures are
// recorded, never propagated: a broken file must not abort the scan.
func (s *Scanner) parseAndIndex(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}

	content, err := s.fs.DownloadWithURL(ctx, path)
	if err != nil {
		result.Failure = &model.ParseFailure{File: path, Message: err.Error()}
		return result
	}

	doc, err := document.Parse(path, content)
	if err != nil {
		failure := &model.ParseFailure{File: path, Message: err.Error()}
		var parseErr *document.ParseError
		if errors.As(err, &parseErr) {
			failure.Line = parseErr.Line
			failure.Message = parseErr.Message
		}
		util.Warn("Parse failed for %s: %s", path, failure.Message)
		result.Failure = failure
		return result
	}

	if plugin, ok := s.registry.PluginFor(path); ok && plugin.Capabilities().Indexing {
		if err := s.symbols.IndexSource(content, path, plugin.ReferenceKinds()); err != nil {
			util.Warn("Indexing failed for %s: %v", path, err)
		}
	}

	result.Document = doc
	result.Lines = len(doc.Lines)
	return result
}
