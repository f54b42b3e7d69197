package analysis

import "strings"

// domainMarkers maps substrings of the job text to role-hint suggestions.
// Checked in order; the first matching group wins.
var domainMarkers = []struct {
	markers []string
	hints   []string
}{
	{[]string{"soc", "siem", "splunk", "sentinel"}, []string{"soc analyst", "security analyst"}},
	{[]string{"pentest", "penetration", "burp", "oscp"}, []string{"penetration tester", "application security"}},
	{[]string{"cloud", "aws", "azure", "gcp"}, []string{"cloud engineer", "cloud security"}},
}

// maxTitleHints bounds profile-supplied suggestions.
const maxTitleHints = 8

// SuggestRoleHints returns role-hint suggestions for a job description.
// Profile-supplied job titles win when available; otherwise a fixed set of
// domain marker words picks the suggestions, falling back to "general".
// Role hints are cosmetic: they never influence coverage scoring.
func SuggestRoleHints(jdText string, jobTitles []string) []string {
	hints := make([]string, 0, maxTitleHints)
	for _, t := range jobTitles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		hints = append(hints, t)
		if len(hints) == maxTitleHints {
			break
		}
	}
	if len(hints) > 0 {
		return hints
	}

	t := strings.ToLower(jdText)
	for _, group := range domainMarkers {
		for _, m := range group.markers {
			if strings.Contains(t, m) {
				return append([]string{}, group.hints...)
			}
		}
	}
	return []string{"general"}
}
