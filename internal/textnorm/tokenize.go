// Package textnorm provides the low-level text normalization used by both
// job-description analysis and CV corpus construction: tokenization,
// stopword filtering, n-gram building, and order-preserving deduplication.
package textnorm

import (
	"regexp"
	"strings"

	"github.com/mpopescu/atsmatch/internal/lang"
)

// tokenPattern matches runs starting with an alphanumeric and continuing
// with alphanumerics or + # . - so that tokens like "c++", "c#", "node.js"
// and "iso27001" survive tokenization.
var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9][a-zA-Z0-9+#.\-]+`)

var numericPattern = regexp.MustCompile(`^\d+$`)

// techKeepList contains short ATS tokens kept even though they fail the
// minimum-length filter, and kept even when they collide with a stopword.
var techKeepList = map[string]struct{}{
	"c#": {}, "c++": {}, "go": {}, "aws": {}, "gcp": {}, "azure": {},
	"siem": {}, "soar": {}, "edr": {}, "vpn": {}, "lan": {}, "wan": {},
	"sso": {}, "mfa": {}, "iam": {}, "soc": {}, "dfir": {}, "xdr": {},
	"waf": {}, "ids": {}, "ips": {}, "api": {}, "sql": {},
}

// Tokenize splits text into lowercased tokens. Single-character runs are
// dropped by the pattern; everything else, including punctuation-bearing
// tech tokens, is preserved.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// IsStopword reports whether token is a stopword for the given locale.
// Keep-list tokens are never stopwords.
func IsStopword(token string, locale lang.Locale) bool {
	if _, ok := techKeepList[token]; ok {
		return false
	}
	set := stopwordsEN
	if locale == lang.RO {
		set = stopwordsRO
	}
	_, ok := set[token]
	return ok
}

// IsNumeric reports whether token consists solely of digits.
func IsNumeric(token string) bool {
	return numericPattern.MatchString(token)
}

// InKeepList reports whether token is on the fixed tech keep-list.
func InKeepList(token string) bool {
	_, ok := techKeepList[token]
	return ok
}

// NGrams joins consecutive token windows of size n with single spaces.
// Returns nil when fewer than n tokens are available.
func NGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// DedupeKeepOrder removes case-insensitive duplicates and blank entries,
// preserving the first occurrence of each item.
func DedupeKeepOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		s := strings.TrimSpace(it)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
