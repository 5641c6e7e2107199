package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/types"
	"github.com/stretchr/testify/assert"
)

func plainPrinter(t *testing.T) (*Printer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return NewPrinter(&buf), &buf
}

func TestPrintUnified(t *testing.T) {
	p, buf := plainPrinter(t)

	rs := &search.ResultSet{
		Jobs: []types.Job{
			{ID: uuid.New(), Title: "Senior Backend Engineer", Department: "Engineering", Location: "Remote", Status: types.JobStatusActive},
		},
		Candidates: []types.Candidate{
			{ID: uuid.New(), Name: "Ana Silva", Email: "ana@example.com", MatchScore: 85,
				Job: &types.JobSummary{Title: "Senior Backend Engineer"}},
		},
		JobTier:       search.TierExact,
		CandidateTier: search.TierFullText,
	}

	p.PrintUnified("senior backend engineer", rs)
	output := buf.String()

	assert.Contains(t, output, `SEARCH "senior backend engineer"`)
	assert.Contains(t, output, "Jobs: 1 (exact match)")
	assert.Contains(t, output, "Candidates: 1 (full-text match)")
	assert.Contains(t, output, "Senior Backend Engineer · Engineering · Remote [active]")
	assert.Contains(t, output, "Ana Silva <ana@example.com> 85/100 → Senior Backend Engineer")
}

func TestPrintUnified_Empty(t *testing.T) {
	p, buf := plainPrinter(t)

	p.PrintUnified("nothing", &search.ResultSet{})
	output := buf.String()

	assert.Contains(t, output, "Jobs: 0 ")
	assert.NotContains(t, output, "match)")
}

func TestPrintUnified_Nil(t *testing.T) {
	p, buf := plainPrinter(t)

	p.PrintUnified("x", nil)

	assert.Empty(t, buf.String())
}

func TestPrintJobs_Truncation(t *testing.T) {
	p, buf := plainPrinter(t)

	jobs := make([]types.Job, 13)
	for i := range jobs {
		jobs[i] = types.Job{Title: fmt.Sprintf("Role %d", i)}
	}

	p.PrintJobs("JOBS", jobs)
	output := buf.String()

	assert.Contains(t, output, "Found 13 jobs")
	assert.Contains(t, output, "Role 9")
	assert.NotContains(t, output, "Role 10")
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintCandidates_None(t *testing.T) {
	p, buf := plainPrinter(t)

	p.PrintCandidates("CANDIDATES", nil)

	assert.Contains(t, buf.String(), "Found 0 candidates")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	p, buf := plainPrinter(t)

	p.PrintJobs("JOBS", []types.Job{
		{Title: strings.Repeat("Very Long Title ", 10), Department: "Engineering"},
		{Title: "Ingeniero de Señales", Location: "São Paulo"},
	})

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestPrintSuggestions(t *testing.T) {
	p, buf := plainPrinter(t)

	p.PrintSuggestions("job", "eng", []string{"Engineering", "Engineer"})
	output := buf.String()

	assert.Contains(t, output, `job suggestions for "eng"`)
	assert.Contains(t, output, " 1. Engineering")
	assert.Contains(t, output, " 2. Engineer")
}

func TestPrintSuggestions_None(t *testing.T) {
	p, buf := plainPrinter(t)

	p.PrintSuggestions("candidate", "zz", nil)

	assert.Contains(t, buf.String(), "(none)")
}

func TestPrintCounts(t *testing.T) {
	p, buf := plainPrinter(t)

	p.PrintCounts("seeded", 4, 12)

	assert.Equal(t, "✓ seeded jobs=4 candidates=12\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Señ...", truncate("Señales largas", 6))
}
