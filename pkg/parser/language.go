package parser

import (
	"path/filepath"
	"strings"
)

// Language identifies a grammar the manager can parse with.
type Language int

const (
	// LanguageJavaScript covers .js, .jsx, .mjs and .cjs files.
	LanguageJavaScript Language = iota
	// LanguageTypeScript covers .ts, .mts, .cts and .tsx files.
	LanguageTypeScript
	// LanguageUnknown marks an unsupported file type.
	LanguageUnknown
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case LanguageJavaScript:
		return "javascript"
	case LanguageTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the language from a file path extension.
// Returns LanguageUnknown for unrecognized extensions.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile reports whether the path is a TSX file, which uses the
// TypeScript grammar with JSX enabled.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// ParseLanguageString converts a language name ("js", "typescript", ...)
// to a Language. Returns LanguageUnknown for unrecognized names.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "javascript", "js":
		return LanguageJavaScript
	case "typescript", "ts":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages lists every parseable language.
func SupportedLanguages() []Language {
	return []Language{LanguageJavaScript, LanguageTypeScript}
}
