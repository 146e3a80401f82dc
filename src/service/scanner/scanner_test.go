package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marklint/src/config"
	"marklint/src/plugin/wix"
	"marklint/src/service/evaluator"
	"marklint/src/service/index"
	"marklint/src/util"
)

func newTestScanner(t *testing.T, exclusions config.ExclusionsConfig) *Scanner {
	return newScannerWith(t, exclusions, config.EvaluatorConfig{MinSeverity: "info"})
}

func newScannerWith(t *testing.T, exclusions config.ExclusionsConfig, evalCfg config.EvaluatorConfig) *Scanner {
	t.Helper()

	symbols := index.NewSymbolIndex()
	registry := evaluator.NewRegistry()
	plugin, err := wix.New(symbols)
	require.NoError(t, err)
	require.NoError(t, registry.Register(plugin))

	eval := evaluator.New(registry, evalCfg)
	return New(registry, eval, symbols, util.NewExclusionMatcher(exclusions),
		config.ConcurrencyConfig{MaxParallelFiles: 4})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanResultsSortedByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.wxs", `<Wix><Component Id="B1"/></Wix>`)
	writeFile(t, dir, "a.wxs", `<Wix><Component Id="A1" Guid="12345678-1234-1234-1234-123456789012"/></Wix>`)

	s := newTestScanner(t, config.ExclusionsConfig{})
	results, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(dir, "a.wxs"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.wxs"), results[1].Path)

	assert.Empty(t, results[0].Diagnostics)
	require.Len(t, results[1].Diagnostics, 1)
	assert.Equal(t, "WIX-001", results[1].Diagnostics[0].RuleID)
	assert.Equal(t, "Component 'B1' has no Guid attribute", results[1].Diagnostics[0].Message)
}

func TestScanResolvesCrossFileReferences(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "refs.wxs", `<Wix>
  <ComponentRef Id="Main"/>
  <ComponentRef Id="Missing"/>
</Wix>`)
	writeFile(t, dir, "zz_defs.wxs",
		`<Wix><Component Id="Main" Guid="12345678-1234-1234-1234-123456789012"/></Wix>`)

	s := newTestScanner(t, config.ExclusionsConfig{})
	results, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// refs.wxs sorts before zz_defs.wxs, yet the reference to "Main" still
	// resolves because every file is indexed before any file is evaluated.
	refs := results[0]
	require.Len(t, refs.Diagnostics, 1)
	assert.Equal(t, "WIX-100", refs.Diagnostics[0].RuleID)
	assert.Contains(t, refs.Diagnostics[0].Message, "'Missing'")
}

func TestScanParseFailureDoesNotAbortScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.wxs", `<Wix><Component Id="C1">`)
	writeFile(t, dir, "good.wxs", `<Wix><Component Id="C2"/></Wix>`)

	s := newTestScanner(t, config.ExclusionsConfig{})
	results, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].Failure)
	assert.Nil(t, results[0].Document)

	assert.Nil(t, results[1].Failure)
	require.Len(t, results[1].Diagnostics, 1)
	assert.Equal(t, "WIX-001", results[1].Diagnostics[0].RuleID)
}

func TestScanHonorsExclusions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.wxs", `<Wix><Component Id="C1"/></Wix>`)
	writeFile(t, dir, filepath.Join("obj", "skip.wxs"), `<Wix><Component Id="C2"/></Wix>`)
	writeFile(t, dir, "notes.txt", "not markup")

	s := newTestScanner(t, config.ExclusionsConfig{FilePatterns: []string{"**/obj/**"}})
	results, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(dir, "keep.wxs"), results[0].Path)
}

func TestScanCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wxs", `<Wix><Component Id="C1"/></Wix>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestScanner(t, config.ExclusionsConfig{})
	results, err := s.Scan(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestCancelMidScanStopsDispatch(t *testing.T) {
	s := newTestScanner(t, config.ExclusionsConfig{})
	s.cfg.MaxParallelFiles = 1

	paths := make([]string, 40)
	for i := range paths {
		paths[i] = fmt.Sprintf("file-%02d.wxs", i)
	}

	// With one worker slot the files run strictly in order, so cancelling
	// during file 4 must stop dispatch right after it.
	ctx, cancel := context.WithCancel(context.Background())
	var processed int32
	dispatched := s.forEachFile(ctx, paths, func(slot int, path string) {
		atomic.AddInt32(&processed, 1)
		if slot == 4 {
			cancel()
		}
	})

	assert.Equal(t, 5, dispatched)
	assert.EqualValues(t, 5, atomic.LoadInt32(&processed))
}

func TestScanAppliesDiagnosticLimitInPathOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wxs", `<Wix><Component Id="A1"/></Wix>`)
	writeFile(t, dir, "b.wxs", `<Wix><Component Id="B1"/></Wix>`)
	writeFile(t, dir, "c.wxs", `<Wix><Component Id="C1"/></Wix>`)

	// Regardless of which parallel worker finishes first, the survivors
	// under the cap are always the diagnostics of the first paths.
	for run := 0; run < 5; run++ {
		s := newScannerWith(t, config.ExclusionsConfig{},
			config.EvaluatorConfig{MinSeverity: "info", MaxDiagnostics: 2})
		results, err := s.Scan(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, results, 3)

		var messages []string
		for _, r := range results {
			for _, d := range r.Diagnostics {
				messages = append(messages, d.Message)
			}
		}
		assert.Equal(t, []string{
			"Component 'A1' has no Guid attribute",
			"Component 'B1' has no Guid attribute",
		}, messages)
	}
}

func TestScanCountsLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wxs", "<Wix>\n  <Component Id=\"C1\" Guid=\"*\"/>\n</Wix>\n")

	s := newTestScanner(t, config.ExclusionsConfig{})
	results, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Lines)
}
