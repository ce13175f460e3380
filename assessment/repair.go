package assessment

import (
	"regexp"
	"strings"
)

var (
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// repair applies the bounded chain of heuristic fixes, left to right. Each
// fix is pure and idempotent; the caller re-attempts parsing on the result.
func repair(s string) string {
	s = normalizeQuotes(s)
	s = quoteBareKeys(s)
	s = stripTrailingCommas(s)
	return s
}

// normalizeQuotes rewrites single-quote delimiters to double quotes. The
// rewrite is only safe when the candidate contains no double quotes at all;
// otherwise an apostrophe inside an already-valid string would be corrupted.
func normalizeQuotes(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return strings.ReplaceAll(s, "'", `"`)
	}
	return s
}

// quoteBareKeys wraps unquoted identifier keys preceding a colon in double
// quotes, e.g. {key: 1} -> {"key": 1}.
func quoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, `$1"$2":`)
}

// stripTrailingCommas removes commas that directly precede a closing brace
// or bracket.
func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, `$1`)
}
