package kvstore

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/talent-search/internal/types"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true,
}

// tokenize splits text into lowercased, stemmed words without stop words.
// A compound such as "full-stack" or "ana.silva@acme.com" yields the whole
// compound and each of its parts. "+" and "#" count as word characters so
// "c++" and "c#" stay intact.
func tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	add := func(word string) {
		if word == "" || stopWords[word] {
			return
		}
		tokens = append(tokens, stem(word))
	}

	for _, word := range words {
		word = strings.ToLower(strings.TrimFunc(word, isSeparator))
		parts := strings.FieldsFunc(word, isSeparator)
		if len(parts) > 1 {
			add(word)
		}
		for _, part := range parts {
			add(part)
		}
	}
	return tokens
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}

// stem drops a plural "s" so "engineers" and "engineer" meet.
func stem(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}

// textScore sums, per field, weight times the share of the field's tokens
// that appear in terms. Zero means no term matched.
func textScore(terms map[string]bool, fields map[string]string, weights []types.FieldWeight) float64 {
	var score float64
	for _, w := range weights {
		tokens := tokenize(fields[w.Field])
		if len(tokens) == 0 {
			continue
		}
		hits := 0
		for _, tok := range tokens {
			if terms[tok] {
				hits++
			}
		}
		if hits > 0 {
			score += w.Weight * float64(hits) / float64(len(tokens))
		}
	}
	return score
}

func termSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(text) {
		set[tok] = true
	}
	return set
}

func jobFields(j *types.Job) map[string]string {
	return map[string]string{
		types.FieldTitle:        j.Title,
		types.FieldKeywords:     strings.Join(j.Keywords, " "),
		types.FieldDepartment:   j.Department,
		types.FieldLocation:     j.Location,
		types.FieldDescription:  j.Description,
		types.FieldRequirements: j.Requirements,
	}
}

func candidateFields(c *types.Candidate) map[string]string {
	return map[string]string{
		types.FieldName:             c.Name,
		types.FieldEmail:            c.Email,
		types.FieldSkills:           strings.Join(c.Skills, " "),
		types.FieldResumeText:       c.ResumeText,
		types.FieldMatchExplanation: c.MatchExplanation,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// compile turns a store pattern into a case-insensitive regexp.
func compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

func anyMatch(re *regexp.Regexp, values ...string) bool {
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
