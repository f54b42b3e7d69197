package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/lang"
	"github.com/mpopescu/atsmatch/internal/profiles"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&analysis.Analysis{
		Hash:     "abc123def4567890",
		Lang:     lang.EN,
		Keywords: []string{"siem", "edr", "incident response", "python"},
		Present:  []string{"siem", "python"},
		Missing:  []string{"edr", "incident response"},
		Coverage: 50,
		RoleHint: "soc analyst",
	})

	out := buf.String()
	assert.Contains(t, out, "JOB MATCH ANALYSIS")
	assert.Contains(t, out, "abc123def4567890")
	assert.Contains(t, out, "50.0% (2 of 4 keywords)")
	assert.Contains(t, out, "soc analyst")
	assert.Contains(t, out, "• siem")
	assert.Contains(t, out, "• edr")
}

func TestPrintAnalysis_NilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysis_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	missing := make([]string, 15)
	for i := range missing {
		missing[i] = "keyword" + strings.Repeat("x", i%3)
	}
	p.PrintAnalysis(&analysis.Analysis{
		Hash:     "f00d",
		Lang:     lang.EN,
		Keywords: missing,
		Missing:  missing,
	})

	assert.Contains(t, buf.String(), "... and 5 more")
}

func TestPrintApplied(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintApplied([]string{"terraform", "kubernetes"}, 7)

	out := buf.String()
	assert.Contains(t, out, "KEYWORDS APPLIED")
	assert.Contains(t, out, "Added 2 keywords")
	assert.Contains(t, out, "• terraform")
	assert.Contains(t, out, "7 entries")
}

func TestPrintApplied_NothingToAdd(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintApplied(nil, 3)
	assert.Contains(t, buf.String(), "No new keywords")
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(&profiles.Profile{
		ID:        "soc_analyst",
		Title:     "SOC Analyst",
		Domain:    "cybersecurity",
		JobTitles: []string{"SOC Analyst"},
		Keywords: profiles.Bank{
			Core:         []string{"siem", "triage"},
			Technologies: []string{"edr"},
		},
		ATSHint: "Mirror product names.",
	})

	out := buf.String()
	assert.Contains(t, out, "ATS PROFILE")
	assert.Contains(t, out, "soc_analyst")
	assert.Contains(t, out, "cybersecurity")
	assert.Contains(t, out, "• siem")
	assert.Contains(t, out, "Mirror product names.")
}

func TestPrintProfileList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfileList([]profiles.Summary{
		{ID: "helpdesk", Title: "Helpdesk Technician"},
		{ID: "soc_analyst", Title: "SOC Analyst"},
	})

	out := buf.String()
	assert.Contains(t, out, "AVAILABLE PROFILES")
	assert.Contains(t, out, "helpdesk")
	assert.Contains(t, out, "SOC Analyst")
}

func TestPrintProfileList_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfileList(nil)
	assert.Contains(t, buf.String(), "No profiles found.")
}
