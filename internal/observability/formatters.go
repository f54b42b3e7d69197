// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/profiles"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeItemList(sb *strings.Builder, header string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(header + "\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintAnalysis outputs a human-readable summary of one job analysis.
func (p *Printer) PrintAnalysis(a *analysis.Analysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job hash: %s\n", a.Hash))
	sb.WriteString(fmt.Sprintf("Language: %s\n", a.Lang))
	sb.WriteString(fmt.Sprintf("Coverage: %.1f%% (%d of %d keywords)\n",
		a.Coverage, len(a.Present), len(a.Keywords)))
	if a.RoleHint != "" {
		sb.WriteString(fmt.Sprintf("Role hint: %s\n", a.RoleHint))
	}
	sb.WriteString("\n")

	writeItemList(&sb, "Present in CV:", a.Present, maxItemsToShow)
	if len(a.Present) > 0 && len(a.Missing) > 0 {
		sb.WriteString("\n")
	}
	writeItemList(&sb, "Missing from CV:", a.Missing, maxItemsToShow)

	p.printBox("JOB MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplied outputs the keywords merged into the CV by an apply run.
func (p *Printer) PrintApplied(added []string, total int) {
	var sb strings.Builder
	if len(added) == 0 {
		sb.WriteString("No new keywords to add.")
	} else {
		writeItemList(&sb, fmt.Sprintf("Added %d keywords:", len(added)), added, maxItemsToShow)
		sb.WriteString(fmt.Sprintf("\nExtra-keywords section now holds %d entries.", total))
	}
	p.printBox("KEYWORDS APPLIED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs a merged profile summary.
func (p *Printer) PrintProfile(profile *profiles.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Profile:  %s\n", profile.ID))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", profile.Title))
	sb.WriteString(fmt.Sprintf("Domain:   %s\n", profile.Domain))
	sb.WriteString("\n")

	writeItemList(&sb, "Job titles:", profile.JobTitles, 5)
	writeItemList(&sb, "Core keywords:", profile.Keywords.Core, maxItemsToShow)
	writeItemList(&sb, "Technologies:", profile.Keywords.Technologies, maxItemsToShow)
	writeItemList(&sb, "Certifications:", profile.Keywords.Certifications, 5)
	if profile.ATSHint != "" {
		sb.WriteString(fmt.Sprintf("\nHint: %s\n", profile.ATSHint))
	}

	p.printBox("ATS PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfileList outputs the available profiles.
func (p *Printer) PrintProfileList(summaries []profiles.Summary) {
	var sb strings.Builder
	if len(summaries) == 0 {
		sb.WriteString("No profiles found.")
	} else {
		for _, s := range summaries {
			sb.WriteString(fmt.Sprintf("%-24s %s\n", s.ID, s.Title))
		}
	}
	p.printBox("AVAILABLE PROFILES", strings.TrimSuffix(sb.String(), "\n"))
}
