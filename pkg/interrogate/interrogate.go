package interrogate

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/jsdeps/pkg/parser"
)

// Interrogator composes the parser collaborator with an import-check
// table. It is safe for concurrent use: extraction holds no state beyond
// the tree built per call, and the parser manager pools internally.
type Interrogator struct {
	parsers *parser.ParserManager
	checks  []ImportCheck
	logger  *slog.Logger
}

// Option configures an Interrogator.
type Option func(*Interrogator)

// WithChecks replaces the default import-check table.
func WithChecks(checks []ImportCheck) Option {
	return func(in *Interrogator) { in.checks = checks }
}

// WithConfig builds the default check table over a custom Config.
func WithConfig(cfg Config) Option {
	return func(in *Interrogator) { in.checks = Checks(cfg) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interrogator) { in.logger = logger }
}

// New creates an Interrogator over the given parser manager with the
// default AMD configuration.
func New(pm *parser.ParserManager, opts ...Option) *Interrogator {
	in := &Interrogator{
		parsers: pm,
		checks:  Checks(DefaultConfig()),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ExtractModuleImports parses source and returns every CommonJS and AMD
// module name it imports, in document order, duplicates preserved.
//
// Invalid source fails with a *parser.ParseError and yields no partial
// results. A valid tree never fails: unsupported require/define shapes
// are silently ignored. The syntax tree is closed before returning.
func (in *Interrogator) ExtractModuleImports(source []byte, lang parser.Language, isTSX bool) ([]string, error) {
	tree, err := in.parsers.ParseStrict(source, lang, isTSX)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := Wrap(tree.RootNode(), source)
	names := YieldModuleImports(root, in.checks).Collect()

	in.logger.Debug("extracted module imports",
		"language", lang.String(),
		"count", len(names))
	return names, nil
}

// ExtractFileImports extracts module imports from source, detecting the
// language from the file path extension.
func (in *Interrogator) ExtractFileImports(filePath string, source []byte) ([]string, error) {
	lang := parser.DetectLanguage(filePath)
	if lang == parser.LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	names, err := in.ExtractModuleImports(source, lang, parser.IsTSXFile(filePath))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filePath, err)
	}
	return names, nil
}

// ExtractFunctionArgument parses source and returns the decoded argument
// at argIndex of every bare call to name whose argument has kind argKind.
// The generic counterpart of ExtractModuleImports for one-off call-shape
// extractions.
func (in *Interrogator) ExtractFunctionArgument(source []byte, lang parser.Language, isTSX bool, name string, argIndex int, argKind Kind) ([]string, error) {
	tree, err := in.parsers.ParseStrict(source, lang, isTSX)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := Wrap(tree.RootNode(), source)
	return FilterFunctionArgument(root, name, argIndex, argKind).Collect(), nil
}
