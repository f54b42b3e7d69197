package analysis

import (
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/mpopescu/atsmatch/internal/cv"
	"github.com/mpopescu/atsmatch/internal/keywords"
	"github.com/mpopescu/atsmatch/internal/lang"
)

// Options carries the optional inputs of an analyze call. The zero value is
// valid: language is auto-detected and role hints fall back to the built-in
// domain heuristics.
type Options struct {
	// LangHint forces the locale instead of detecting it from the text.
	LangHint lang.Locale
	// JobTitles are profile-supplied role-hint suggestions.
	JobTitles []string
	// RoleHint is a user-supplied role label stored on the result as-is.
	RoleHint string
}

// Analyzer runs the analysis pipeline. Keyword extraction is the expensive
// step and is memoized per job hash in the session cache; coverage is
// always recomputed against the current CV snapshot, so a cache hit never
// serves stale present/missing lists.
type Analyzer struct {
	maxKeywords int
	extracting  singleflight.Group
}

// NewAnalyzer returns an Analyzer capped at maxKeywords extracted terms per
// job; non-positive values use the default cap.
func NewAnalyzer(maxKeywords int) *Analyzer {
	if maxKeywords <= 0 {
		maxKeywords = keywords.DefaultMax
	}
	return &Analyzer{maxKeywords: maxKeywords}
}

// Analyze computes the analysis for jdText against snap, stores it in the
// cache under the job hash, and marks it active. Empty job text returns a
// well-formed empty analysis without touching the cache.
func (an *Analyzer) Analyze(cache *Cache, snap *cv.Snapshot, jdText string, opts Options) Analysis {
	trimmed := strings.TrimSpace(jdText)
	if trimmed == "" {
		return Analysis{
			Lang:     lang.EN,
			Keywords: []string{},
			Present:  []string{},
			Missing:  []string{},
		}
	}

	hash := JobHash(trimmed)

	locale := opts.LangHint
	if locale == "" {
		locale = lang.Detect(trimmed)
	}

	// Tier 1: keyword extraction, cached per job hash. Concurrent calls
	// for the same hash collapse into one extraction.
	var kws []string
	if cached, ok := cache.Get(hash); ok && cached.valid() {
		kws = cached.Keywords
		locale = cached.Lang
	} else {
		v, _, _ := an.extracting.Do(hash, func() (any, error) {
			return keywords.Extract(trimmed, locale, an.maxKeywords), nil
		})
		kws = v.([]string)
	}

	// Tier 2: coverage against the CV as it is right now.
	coverage, present, missing := Score(cv.Flatten(snap), kws)

	result := Analysis{
		Hash:      hash,
		Lang:      locale,
		Keywords:  kws,
		Present:   present,
		Missing:   missing,
		Coverage:  coverage,
		RoleHint:  opts.RoleHint,
		RoleHints: SuggestRoleHints(trimmed, opts.JobTitles),
	}
	if result.RoleHint == "" && len(result.RoleHints) > 0 {
		result.RoleHint = result.RoleHints[0]
	}

	cache.Put(result)
	cache.SetActive(hash)
	return result
}

// AutoUpdate analyzes jdText only when it is non-empty, reporting whether
// the active job changed. Intended for edit-triggered refresh paths where
// an empty textbox must not clear the current analysis.
func (an *Analyzer) AutoUpdate(cache *Cache, snap *cv.Snapshot, jdText string, opts Options) (Analysis, bool) {
	trimmed := strings.TrimSpace(jdText)
	if trimmed == "" {
		a, _ := cache.Active()
		return a, false
	}
	prev := cache.ActiveID()
	result := an.Analyze(cache, snap, trimmed, opts)
	return result, result.Hash != prev
}

// ApplyMissing merges the analysis' missing keywords into the snapshot's
// extra-keywords field, at most limit entries per call.
func ApplyMissing(snap *cv.Snapshot, a Analysis, limit int) *cv.Snapshot {
	return cv.ApplyMissing(snap, a.Missing, limit)
}
