// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
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
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintView outputs the filtered view of one tab.
func (p *Printer) PrintView(name string, view filter.View) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	sb.WriteString(fmt.Sprintf("Headline: %s\n", view.Headline))
	sb.WriteString("\n")

	if len(view.Skills) > 0 {
		names := make([]string, 0, len(view.Skills))
		for _, s := range view.Skills {
			names = append(names, s.Name)
		}
		sb.WriteString(fmt.Sprintf("Skills (%d): %s\n\n", len(names), strings.Join(names, ", ")))
	}

	sb.WriteString(fmt.Sprintf("Experiences: %d\n", len(view.Experiences)))
	count := min(len(view.Experiences), maxItemsToShow)
	for i := 0; i < count; i++ {
		exp := view.Experiences[i]
		sb.WriteString(fmt.Sprintf("  • %s at %s\n", exp.Role, exp.Company))
		sb.WriteString(fmt.Sprintf("    %s, %d bullets\n", exp.Duration, len(exp.Achievements.Fitness)+len(exp.Achievements.Professional)))
	}
	if len(view.Experiences) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(view.Experiences)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("VIEW: %s", strings.ToUpper(string(view.Tab))), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGap outputs a skill gap analysis.
func (p *Printer) PrintSkillGap(result *types.SkillGapResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match: %.0f%%\n\n", result.MatchPercentage))

	if len(result.SkillGaps) > 0 {
		sb.WriteString("Gaps:\n")
		for _, gap := range result.SkillGaps {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", gap.Skill))
			sb.WriteString(fmt.Sprintf("  %s\n", gap.Reason))
		}
		sb.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		count := min(len(result.Suggestions), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Suggestions[i]))
		}
		if len(result.Suggestions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Suggestions)-maxItemsToShow))
		}
	}

	p.printBox("SKILL GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJob outputs the state of one assistant job.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJob(state assistant.JobState) {
	title := strings.ToUpper(string(state.Kind))
	switch state.Status {
	case assistant.StatusError:
		p.printBox(title+" FAILED", state.Error)
	case assistant.StatusSuccess:
		if state.Analysis != nil {
			p.PrintSkillGap(state.Analysis)
			return
		}
		p.printBox(title, state.Text)
	default:
		fmt.Fprintf(p.out, "%s: %s\n", title, state.Status)
	}
}

// PrintUnreachable outputs the work categories no role tab shows.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUnreachable(categories []types.WorkCategory) {
	if len(categories) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ EVERY CATEGORY IS REACHABLE")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d unreachable categories:\n\n", len(categories)))
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", c))
	}

	p.printBox("UNREACHABLE CATEGORIES", strings.TrimSuffix(sb.String(), "\n"))
}
