// Package cv defines the CV snapshot the matching engine reads from and the
// single mutation point it writes to. The engine never inspects any other
// part of the CV schema: it flattens the snapshot into a search corpus and
// appends missing keywords into the extra-keywords field.
package cv

import "strings"

// Experience is one work-history entry of a snapshot.
type Experience struct {
	Title        string   `json:"title,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Activities   string   `json:"activities,omitempty"`
}

// Education is one education entry of a snapshot.
type Education struct {
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Snapshot is the structured CV record supplied by the CV-editing side.
// All fields are optional; anything absent simply contributes nothing to
// the flattened corpus.
type Snapshot struct {
	Summary        string       `json:"summary,omitempty"`
	Bullets        []string     `json:"bullets,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Tools          []string     `json:"tools,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	// ExtraKeywords is the newline-separated free-text field the apply
	// operation merges missing keywords into.
	ExtraKeywords string       `json:"extra_keywords,omitempty"`
	Experience    []Experience `json:"experience,omitempty"`
	Education     []Education  `json:"education,omitempty"`
}

// Flatten concatenates every matching-relevant field into one lowercase,
// newline-joined corpus. Field order is fixed so repeated calls on the same
// snapshot produce identical output.
func Flatten(s *Snapshot) string {
	if s == nil {
		return ""
	}

	parts := make([]string, 0, 16)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" {
			parts = append(parts, v)
		}
	}
	addAll := func(vs []string) {
		for _, v := range vs {
			add(v)
		}
	}

	add(s.Summary)
	addAll(s.Bullets)
	addAll(s.Skills)
	addAll(s.Tools)
	addAll(s.Certifications)
	add(s.ExtraKeywords)
	for _, e := range s.Experience {
		add(e.Title)
		add(e.Organization)
		addAll(e.Technologies)
		add(e.Activities)
	}
	for _, e := range s.Education {
		add(e.Title)
		add(e.Organization)
		add(e.Description)
	}

	return strings.ToLower(strings.Join(parts, "\n"))
}
