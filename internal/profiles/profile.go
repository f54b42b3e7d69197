// Package profiles loads and merges YAML-based ATS profiles: curated
// keyword banks, action verbs, metrics ideas and bullet templates, per
// domain. A profile document is assembled hierarchically from the core
// library, the domain library, and the profile file itself, with the
// profile winning where they overlap. Values may be bilingual maps
// (en/ro); the requested locale is picked at load time.
package profiles

import (
	"regexp"
	"strings"

	"github.com/mpopescu/atsmatch/internal/textnorm"
)

// Bank is the set of keyword buckets a profile supplies. It is a read-only
// input to the matching engine's presentation layer and role-hint
// heuristics; coverage scoring never depends on it.
type Bank struct {
	Core           []string `yaml:"core" json:"core,omitempty"`
	Technologies   []string `yaml:"technologies" json:"technologies,omitempty"`
	Tools          []string `yaml:"tools" json:"tools,omitempty"`
	Certifications []string `yaml:"certifications" json:"certifications,omitempty"`
	Frameworks     []string `yaml:"frameworks" json:"frameworks,omitempty"`
	SoftSkills     []string `yaml:"soft_skills" json:"soft_skills,omitempty"`
}

// Empty reports whether every bucket is empty.
func (b Bank) Empty() bool {
	return len(b.Core)+len(b.Technologies)+len(b.Tools)+
		len(b.Certifications)+len(b.Frameworks)+len(b.SoftSkills) == 0
}

// Profile is a fully merged and normalized ATS profile.
type Profile struct {
	ID              string   `json:"id" validate:"required"`
	Title           string   `json:"title"`
	Domain          string   `json:"domain" validate:"required"`
	JobTitles       []string `json:"job_titles,omitempty"`
	Keywords        Bank     `json:"keywords"`
	ActionVerbs     []string `json:"action_verbs,omitempty"`
	Metrics         []string `json:"metrics,omitempty"`
	BulletTemplates []string `json:"bullet_templates,omitempty" validate:"min=2"`
	SectionPriority []string `json:"section_priority,omitempty" validate:"min=1"`
	ATSHint         string   `json:"ats_hint,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// Summary is the listing entry for one available profile.
type Summary struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9\-_ ]+`)
var slugSpaces = regexp.MustCompile(`\s+`)

// Slugify turns a free-text title into a filesystem-safe profile id.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugPattern.ReplaceAllString(s, "")
	s = strings.Trim(slugSpaces.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "profile"
	}
	return s
}

// Fallback bullet templates appended when a profile supplies fewer than two.
var defaultTemplates = []string{
	"Delivered {scope} improvements using {tool_or_tech}; reduced {metric} by {value}.",
	"Implemented {control_or_feature} across {environment}; improved reliability/security and documented SOPs.",
}

var defaultSectionPriority = []string{
	"Professional Experience", "Summary", "Technical Skills", "Education", "Certifications",
}

// Section names are normalized to canonical labels so profiles written with
// informal headings still order exports the same way.
var sectionAliases = map[string]string{
	"experience":            "Professional Experience",
	"experience / projects": "Professional Experience",
	"projects":              "Professional Experience",
	"work experience":       "Professional Experience",
	"skills":                "Technical Skills",
	"key skills":            "Technical Skills",
	"technical skills":      "Technical Skills",
	"summary":               "Summary",
	"education":             "Education",
	"certifications":        "Certifications",
}

func normalizeSections(items []string) []string {
	if len(items) == 0 {
		return append([]string{}, defaultSectionPriority...)
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if canonical, ok := sectionAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
			out = append(out, canonical)
			continue
		}
		out = append(out, s)
	}
	return textnorm.DedupeKeepOrder(out)
}

func normalizeTemplates(items []string) []string {
	out := textnorm.DedupeKeepOrder(items)
	if len(out) < 2 {
		out = append(out, defaultTemplates...)
		out = textnorm.DedupeKeepOrder(out)
	}
	return out
}
