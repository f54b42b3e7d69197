// Package keywords turns raw job-description text into a ranked, bounded
// list of candidate keywords. Extraction is fully offline and deterministic:
// the same text and limit always produce the same output, which is what
// makes per-hash analysis caching meaningful.
package keywords

import (
	"sort"
	"strings"

	"github.com/mpopescu/atsmatch/internal/lang"
	"github.com/mpopescu/atsmatch/internal/textnorm"
)

const (
	// DefaultMax is the keyword cap used when callers pass a non-positive limit.
	DefaultMax = 80

	// Candidates longer than maxCandidateLen characters, or containing
	// maxCandidateSpaces or more spaces, are sentence fragments rather
	// than keywords and are discarded.
	maxCandidateLen    = 42
	maxCandidateSpaces = 4

	minTokenLen = 3
)

// Extract returns up to max ranked keywords for the given text and locale.
// Candidates are unigrams passing the stopword/length/numeric filters plus
// bigrams and trigrams whose constituent tokens are all non-stopwords.
// Ranking is by raw frequency, ties broken by longer strings first, with
// first-seen order as the final stable tiebreak.
func Extract(text string, locale lang.Locale, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	tokens := textnorm.Tokenize(text)
	if len(tokens) == 0 {
		return []string{}
	}

	candidates := make([]string, 0, len(tokens)*2)
	for _, tok := range tokens {
		if textnorm.IsStopword(tok, locale) {
			continue
		}
		if len(tok) < minTokenLen && !textnorm.InKeepList(tok) {
			continue
		}
		if textnorm.IsNumeric(tok) {
			continue
		}
		candidates = append(candidates, tok)
	}
	candidates = append(candidates, cleanNGrams(tokens, 2, locale)...)
	candidates = append(candidates, cleanNGrams(tokens, 3, locale)...)

	ranked := rankByFrequency(candidates)

	cleaned := make([]string, 0, len(ranked))
	for _, k := range ranked {
		if len(k) > maxCandidateLen {
			continue
		}
		if strings.Count(k, " ") >= maxCandidateSpaces {
			continue
		}
		cleaned = append(cleaned, k)
	}

	deduped := textnorm.DedupeKeepOrder(cleaned)
	if len(deduped) > max {
		deduped = deduped[:max]
	}
	return deduped
}

// cleanNGrams builds n-grams over the raw token stream, keeping only those
// with no stopword constituent.
func cleanNGrams(tokens []string, n int, locale lang.Locale) []string {
	grams := textnorm.NGrams(tokens, n)
	out := make([]string, 0, len(grams))
	for _, g := range grams {
		ok := true
		for _, w := range strings.Fields(g) {
			if textnorm.IsStopword(w, locale) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, g)
		}
	}
	return out
}

// rankByFrequency orders candidates by descending frequency, preferring
// longer strings on equal frequency so multi-word technical phrases beat
// generic singletons. The sort is stable over first-seen order.
func rankByFrequency(candidates []string) []string {
	freq := make(map[string]int, len(candidates))
	order := make(map[string]int, len(candidates))
	uniq := make([]string, 0, len(candidates))
	for i, c := range candidates {
		if _, seen := freq[c]; !seen {
			order[c] = i
			uniq = append(uniq, c)
		}
		freq[c]++
	}

	sort.SliceStable(uniq, func(i, j int) bool {
		a, b := uniq[i], uniq[j]
		if freq[a] != freq[b] {
			return freq[a] > freq[b]
		}
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return order[a] < order[b]
	})
	return uniq
}
