package cv

import (
	"strings"

	"github.com/mpopescu/atsmatch/internal/textnorm"
)

// maxExtraKeywords bounds the merged extra-keywords field so auto-apply
// stays ATS-friendly instead of turning into keyword spam.
const maxExtraKeywords = 80

// ApplyMissing returns a copy of the snapshot with up to limit missing
// keywords appended to the extra-keywords field. Existing entries come
// first, new entries follow in their given order, and duplicates are
// dropped case-insensitively, which makes the operation idempotent.
// Every other field of the snapshot is left untouched.
func ApplyMissing(s *Snapshot, missing []string, limit int) *Snapshot {
	if s == nil {
		s = &Snapshot{}
	}
	out := *s
	if len(missing) == 0 {
		return &out
	}
	if limit > 0 && len(missing) > limit {
		missing = missing[:limit]
	}

	existing := SplitExtraKeywords(s.ExtraKeywords)
	merged := textnorm.DedupeKeepOrder(append(existing, missing...))
	if len(merged) > maxExtraKeywords {
		merged = merged[:maxExtraKeywords]
	}

	out.ExtraKeywords = strings.Join(merged, "\n")
	return &out
}

// SplitExtraKeywords splits a free-text keyword field on newlines and
// commas, matching both conventions seen in stored CVs.
func SplitExtraKeywords(field string) []string {
	split := strings.FieldsFunc(field, func(r rune) bool {
		return r == '\n' || r == ','
	})
	out := make([]string, 0, len(split))
	for _, s := range split {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
