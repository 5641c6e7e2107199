package db

import (
	"fmt"
	"strings"

	"github.com/jonathan/talent-search/internal/types"
)

// SQL expressions for each weighted field
var fieldExprs = map[string]string{
	types.FieldTitle:            "title",
	types.FieldKeywords:         "search_array_text(keywords)",
	types.FieldDepartment:       "department",
	types.FieldLocation:         "location",
	types.FieldDescription:      "description",
	types.FieldRequirements:     "requirements",
	types.FieldName:             "name",
	types.FieldEmail:            "email",
	types.FieldSkills:           "search_array_text(skills)",
	types.FieldResumeText:       "resume_text",
	types.FieldMatchExplanation: "match_explanation",
}

// orTSQuery parses the text in parameter $n into a tsquery matching any of its words.
func orTSQuery(n int) string {
	return fmt.Sprintf(`(SELECT replace(plainto_tsquery('english', $%d)::text, '&', '|')::tsquery AS q) tsq`, n)
}

// rankExpr sums each field's ts_rank against tsq.q, scaled by its weight.
func rankExpr(weights []types.FieldWeight) string {
	parts := make([]string, 0, len(weights))
	for _, w := range weights {
		parts = append(parts, fmt.Sprintf("%g * ts_rank(to_tsvector('english', %s), tsq.q)", w.Weight, fieldExprs[w.Field]))
	}
	return "(" + strings.Join(parts, " + ") + ")::float8"
}

// Rank expressions are fixed for the life of the process
var (
	jobRank       = rankExpr(types.JobTextWeights)
	candidateRank = rankExpr(types.CandidateTextWeights)
)

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
