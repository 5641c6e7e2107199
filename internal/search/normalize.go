// Package search implements unified, suggestion and faceted search over jobs and candidates.
package search

import (
	"regexp"
	"strings"
)

// titleVocabulary lists the words that mark a query as a job-title search.
var titleVocabulary = []string{
	"engineer", "developer", "manager", "director", "specialist", "analyst",
	"associate", "intern", "lead", "senior", "junior", "principal", "architect",
	"designer", "administrator", "coordinator", "consultant", "officer", "head",
	"chief", "vp", "president", "executive", "assistant", "supervisor",
	"technician", "representative", "advisor", "recruiter", "hr", "human resources",
	"sales", "marketing", "product", "project", "program", "operations", "finance",
	"accounting", "legal", "research", "data", "science", "frontend", "backend",
	"fullstack", "devops", "qa", "quality", "test", "support", "customer", "client",
}

var (
	titleTermRe = regexp.MustCompile(`(?i)\b(` + strings.Join(titleVocabulary, "|") + `)\b`)
	jobIntentRe = regexp.MustCompile(`(?i)\b(position|job|role|opening|vacancy)\b`)
)

// Intent describes what kind of entity a query is most likely looking for.
type Intent struct {
	IsTitleLike bool
}

// Query is a parsed search query.
type Query struct {
	// Raw is the trimmed input with its original case. Patterns are built from it.
	Raw        string
	Normalized string
	Intent     Intent
}

// Empty reports whether the query carries no search text.
func (q Query) Empty() bool {
	return q.Normalized == ""
}

// Normalize trims and lowercases raw. A whitespace-only input yields "".
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ClassifyIntent reports whether a normalized query reads like a job title.
func ClassifyIntent(normalized string) Intent {
	if normalized == "" {
		return Intent{}
	}
	return Intent{
		IsTitleLike: titleTermRe.MatchString(normalized) || jobIntentRe.MatchString(normalized),
	}
}

// ParseQuery normalizes and classifies raw.
func ParseQuery(raw string) Query {
	normalized := Normalize(raw)
	return Query{
		Raw:        strings.TrimSpace(raw),
		Normalized: normalized,
		Intent:     ClassifyIntent(normalized),
	}
}
