// Package observability provides formatted output for the talent-search CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out     io.Writer
	heading func(a ...interface{}) string
	label   func(a ...interface{}) string
	muted   func(a ...interface{}) string
}

// NewPrinter creates a new Printer that writes to the given writer.
// Colors follow color.NoColor, so piped output stays plain.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:     out,
		heading: color.New(color.FgCyan, color.Bold).SprintFunc(),
		label:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		muted:   color.New(color.Faint).SprintFunc(),
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content.
// Padding is applied before coloring so escape codes do not skew the borders.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, lines []string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", p.heading(fmt.Sprintf("%-*s", inner, truncate(title, inner))))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", inner, truncate(line, inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func jobLine(j types.Job) string {
	parts := []string{j.Title}
	if j.Department != "" {
		parts = append(parts, j.Department)
	}
	if j.Location != "" {
		parts = append(parts, j.Location)
	}
	line := "• " + strings.Join(parts, " · ")
	if j.Status != "" {
		line += fmt.Sprintf(" [%s]", j.Status)
	}
	if j.Score > 0 {
		line += fmt.Sprintf(" (%.2f)", j.Score)
	}
	return line
}

func candidateLine(c types.Candidate) string {
	line := fmt.Sprintf("• %s <%s> %d/100", c.Name, c.Email, c.MatchScore)
	if c.Job != nil {
		line += " → " + c.Job.Title
	}
	return line
}

// listLines renders up to maxItemsToShow items and a "... and N more" tail.
func listLines[T any](items []T, render func(T) string) []string {
	count := min(len(items), maxItemsToShow)
	lines := make([]string, 0, count+1)
	for i := 0; i < count; i++ {
		lines = append(lines, render(items[i]))
	}
	if len(items) > maxItemsToShow {
		lines = append(lines, fmt.Sprintf("  ... and %d more", len(items)-maxItemsToShow))
	}
	return lines
}

func section(name string, n int, tier search.Tier) string {
	header := fmt.Sprintf("%s: %d", name, n)
	if tier != search.TierNone {
		header += fmt.Sprintf(" (%s match)", tier)
	}
	return header
}

// PrintUnified outputs the jobs and candidates found for query.
func (p *Printer) PrintUnified(query string, rs *search.ResultSet) {
	if rs == nil {
		return
	}

	lines := []string{section("Jobs", len(rs.Jobs), rs.JobTier)}
	lines = append(lines, listLines(rs.Jobs, jobLine)...)
	lines = append(lines, "", section("Candidates", len(rs.Candidates), rs.CandidateTier))
	lines = append(lines, listLines(rs.Candidates, candidateLine)...)

	p.printBox(fmt.Sprintf("SEARCH %q", query), lines)
}

// PrintJobs outputs a faceted job search result.
func (p *Printer) PrintJobs(title string, jobs []types.Job) {
	lines := []string{fmt.Sprintf("Found %d jobs", len(jobs))}
	if len(jobs) > 0 {
		lines = append(lines, "")
		lines = append(lines, listLines(jobs, jobLine)...)
	}
	p.printBox(title, lines)
}

// PrintCandidates outputs a faceted candidate search result.
func (p *Printer) PrintCandidates(title string, candidates []types.Candidate) {
	lines := []string{fmt.Sprintf("Found %d candidates", len(candidates))}
	if len(candidates) > 0 {
		lines = append(lines, "")
		lines = append(lines, listLines(candidates, candidateLine)...)
	}
	p.printBox(title, lines)
}

// PrintSuggestions outputs typeahead suggestions for prefix.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSuggestions(kind, prefix string, suggestions []string) {
	fmt.Fprintf(p.out, "%s %s\n", p.label(kind+" suggestions for"), fmt.Sprintf("%q", prefix))
	if len(suggestions) == 0 {
		fmt.Fprintln(p.out, p.muted("  (none)"))
		return
	}
	for i, s := range suggestions {
		fmt.Fprintf(p.out, "  %2d. %s\n", i+1, s)
	}
}

// PrintCounts outputs a one-line job and candidate tally for commands such
// as seed and refresh.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCounts(action string, jobs, candidates int64) {
	fmt.Fprintf(p.out, "%s jobs=%d candidates=%d\n", p.label("✓ "+action), jobs, candidates)
}
