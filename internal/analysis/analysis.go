// Package analysis implements the job-description analysis pipeline: stable
// job hashing, coverage scoring of extracted keywords against a CV corpus,
// per-hash caching with an active pointer, and JSON export/import of the
// cache state.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mpopescu/atsmatch/internal/lang"
)

// hashLen is the number of hex characters kept from the SHA-256 digest.
// 64 bits of digest is plenty for a per-session job registry.
const hashLen = 16

// Analysis is the computed result for one job description against one CV
// snapshot. Hash identifies the job text; Present/Missing/Coverage reflect
// the CV snapshot current at computation time.
type Analysis struct {
	Hash      string      `json:"hash"`
	Lang      lang.Locale `json:"lang"`
	Keywords  []string    `json:"keywords"`
	Present   []string    `json:"present"`
	Missing   []string    `json:"missing"`
	Coverage  float64     `json:"coverage"`
	RoleHint  string      `json:"role_hint,omitempty"`
	RoleHints []string    `json:"role_hints,omitempty"`
}

// valid reports whether a cached entry has the shape the analyzer relies
// on. Entries failing this check are treated as cache misses rather than
// errors, so a corrupted import self-heals on the next analyze call.
func (a *Analysis) valid() bool {
	return a != nil && a.Hash != "" && a.Keywords != nil
}

// JobHash returns the stable identity for a piece of job-description text:
// the first 16 hex characters of the SHA-256 digest of the trimmed text.
// Identity is whitespace-trim insensitive but case sensitive; this is the
// documented canonical behavior and must not diverge across callers.
func JobHash(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// Score partitions keywords into those present in the CV corpus and those
// missing, and computes the coverage percentage. A keyword counts as
// present when its lowercased form occurs as a substring of the corpus;
// multi-word keywords match as whole phrases. The corpus is expected to be
// lowercase already (see cv.Flatten).
func Score(corpus string, keywords []string) (coverage float64, present, missing []string) {
	present = []string{}
	missing = []string{}
	if len(keywords) == 0 {
		return 0, present, missing
	}
	for _, kw := range keywords {
		if strings.Contains(corpus, strings.ToLower(kw)) {
			present = append(present, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	coverage = 100 * float64(len(present)) / float64(len(keywords))
	return coverage, present, missing
}
