package analysis

import (
	"strings"

	"github.com/skillgenome/skillgenome/internal/domain"
)

const (
	// maxEvidence caps the snippets recorded per skill.
	maxEvidence = 3
	// snippetRadius is how many characters of surrounding context a
	// snippet keeps on each side of an occurrence.
	snippetRadius = 40
)

// Extract scans normalized text for every ontology skill and returns one
// candidate per skill found, in ontology order of first match. Skills not
// present are omitted entirely. Evidence snippets are pulled from the raw
// text around each occurrence, ordered by position, at most maxEvidence per
// skill. Extract is a pure transform; callers must not assume the result is
// sorted by anything other than match order.
func Extract(normalized, raw string, ontology []string) []domain.SkillCandidate {
	if normalized == "" || len(ontology) == 0 {
		return nil
	}
	padded := " " + normalized + " "
	rawLower := strings.ToLower(raw)

	var out []domain.SkillCandidate
	for _, skill := range ontology {
		name := strings.ToLower(strings.TrimSpace(skill))
		if name == "" {
			continue
		}
		occurrences := countTokenOccurrences(padded, name)
		if occurrences == 0 {
			continue
		}
		out = append(out, domain.SkillCandidate{
			Name:      name,
			Evidence:  collectEvidence(raw, rawLower, name),
			RawSignal: occurrences,
		})
	}
	return out
}

// countTokenOccurrences counts token-boundary matches of name inside the
// space-padded normalized text. Boundary matching keeps one-letter skills
// like "c" or "r" from hitting every word containing the letter.
func countTokenOccurrences(padded, name string) int {
	needle := " " + name + " "
	count := 0
	for i := 0; ; {
		j := strings.Index(padded[i:], needle)
		if j < 0 {
			break
		}
		count++
		// overlap by one space so adjacent occurrences are both seen
		i += j + len(needle) - 1
	}
	return count
}

// collectEvidence returns up to maxEvidence context snippets around
// case-insensitive occurrences of name in the raw text, in position order.
func collectEvidence(raw, rawLower, name string) []string {
	var snippets []string
	for i := 0; len(snippets) < maxEvidence; {
		j := strings.Index(rawLower[i:], name)
		if j < 0 {
			break
		}
		at := i + j
		start := at - snippetRadius
		if start < 0 {
			start = 0
		}
		end := at + len(name) + snippetRadius
		if end > len(raw) {
			end = len(raw)
		}
		snippets = append(snippets, strings.TrimSpace(raw[start:end]))
		i = at + len(name)
	}
	return snippets
}
