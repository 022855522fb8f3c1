// Package parser manages tree-sitter parsers for JavaScript and
// TypeScript sources. It is the external parsing collaborator for the
// interrogate package: it builds syntax trees and enforces the contract
// that invalid source fails with a structured ParseError rather than a
// silent partial tree.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// poolKey uniquely identifies a parser pool (language + TSX variant).
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager owns per-language parser pools with lazy initialization.
//
// Pools are created on first use per language. Multiple goroutines may
// parse the same language simultaneously; pool creation is synchronized
// with write locks. Callers own returned Tree instances and must call
// tree.Close() after use; the manager itself must be closed via Close().
//
//	manager := parser.NewParserManager(logger)
//	defer manager.Close()
//	tree, err := manager.Parse([]byte(`require("a");`), parser.LanguageJavaScript, false)
type ParserManager struct {
	pools map[poolKey]*parserPool
	mutex sync.RWMutex

	logger *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewParserManager creates a manager. A nil logger falls back to
// slog.Default(). The returned manager must be closed via Close().
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// Parse parses source with the given language grammar. The isTSX flag is
// only meaningful for TypeScript (enables JSX) and is ignored otherwise.
//
// Parse is lenient: a tree containing error nodes is still returned,
// since partial trees are useful for diagnostics. Use ParseStrict when
// the caller requires syntactically valid input.
//
// The returned Tree MUST be closed by the caller via tree.Close().
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}

	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "language", lang.String())
	}

	return tree, nil
}

// ParseStrict parses source and fails with a *ParseError when the tree
// contains error or missing nodes. On success the returned Tree MUST be
// closed by the caller.
func (pm *ParserManager) ParseStrict(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	tree, err := pm.Parse(source, lang, isTSX)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()
	if root.HasError() {
		perr := newParseError(root, source)
		tree.Close()
		return nil, perr
	}
	return tree, nil
}

// ParseFile parses source, detecting the language from the file path.
// The returned Tree MUST be closed by the caller.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return pm.Parse(source, lang, IsTSXFile(filePath))
}

// Close releases all parser pool resources. The manager cannot be used
// afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager", "parses_called", pm.stats.parsesCalled)

	for key, pool := range pm.pools {
		if pool != nil {
			pool.close()
			pm.logger.Debug("closed parser pool",
				"language", key.lang.String(),
				"isTSX", key.isTSX)
		}
	}
	pm.pools = make(map[poolKey]*parserPool)
	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one,
// using the double-checked locking pattern.
func (pm *ParserManager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	pm.mutex.RLock()
	pool, exists := pm.pools[key]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	pool = newParserPool(lang, langPtr, isTSX, defaultPoolSize(), pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created parser pool",
		"language", lang.String(),
		"isTSX", isTSX,
		"maxSize", pool.maxSize)

	return pool, nil
}

// languagePointer resolves the tree-sitter grammar for a language. The
// isTSX flag selects the TSX variant of the TypeScript grammar.
func languagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// Stats returns parser usage statistics.
func (pm *ParserManager) Stats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	totalParsers := 0
	for _, pool := range pm.pools {
		totalParsers += pool.createdCount()
	}
	return ParserStats{
		ParsersCreated: totalParsers,
		ParsesCalled:   pm.stats.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
