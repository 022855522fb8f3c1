package interrogate

import (
	"strings"
	"unicode/utf8"
)

// DecodeString decodes a string-literal node into its module-name payload.
//
// The node's raw text is expected to carry exactly one leading and one
// trailing quote character (either ' or ", matched). The outer pair is
// stripped, then backslash escapes are resolved left to right as \X → X
// for any X. Deliberately escape-naive: `\n` becomes "n" and `\u00e9`
// becomes "u00e9". Module names in the wild never rely on
// control-character escapes, and the naive rule round-trips quote
// escaping exactly.
func DecodeString(node Node) string {
	return stripSlashes(stripQuotes(node.Raw()))
}

// stripQuotes removes one outer matched quote pair, if present.
func stripQuotes(raw string) string {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if first == last && (first == '\'' || first == '"') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// stripSlashes resolves \X → X left to right. A trailing lone backslash
// is dropped.
func stripSlashes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		} else if s[i] == '\\' {
			break
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// DecodeBracketString decodes a node used as a computed (bracket) accessor
// key. String nodes have one leading and one trailing character stripped
// and their escapes fully interpreted, so `\n` and `\u00e9` decode to the
// actual characters. Any other node is assumed to be an identifier and its
// raw text is returned unchanged.
//
// This deeper decoding exists for bracket-accessor support and is
// intentionally distinct from DecodeString, which the import classifier
// uses; the two escape depths must not be unified.
func DecodeBracketString(node Node) string {
	if node.Kind() != KindString {
		return node.Raw()
	}
	raw := node.Raw()
	if len(raw) < 2 {
		return raw
	}
	return unescapeJS(raw[1 : len(raw)-1])
}

// unescapeJS interprets backslash escapes as textual escapes: the single
// character forms (\n, \t, ...), \xHH, and \uHHHH. Unknown escapes fall
// back to the escaped character itself.
func unescapeJS(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case 'x':
			if r, ok := hexRune(s, i+1, 2); ok {
				b.WriteRune(r)
				i += 2
			} else {
				b.WriteByte('x')
			}
		case 'u':
			if r, ok := hexRune(s, i+1, 4); ok {
				b.WriteRune(r)
				i += 4
			} else {
				b.WriteByte('u')
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// hexRune decodes width hex digits of s starting at pos into a rune.
func hexRune(s string, pos, width int) (rune, bool) {
	if pos+width > len(s) {
		return 0, false
	}
	var v rune
	for _, c := range s[pos : pos+width] {
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | (c - '0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | (c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | (c - 'A' + 10)
		default:
			return 0, false
		}
	}
	if !utf8.ValidRune(v) {
		return 0, false
	}
	return v, true
}
