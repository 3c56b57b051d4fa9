// Package analysis implements the resume analysis pipeline: skill
// extraction against the ontology, confidence scoring, readiness and fit
// computation, and roadmap generation. Everything in this package is a pure
// function over its inputs and injected read-only reference data; no I/O,
// no shared mutable state.
package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// SkillConfidenceMap maps lower-cased skill names to confidence values.
// Iteration follows insertion order so that the first-match fuzzy lookup in
// FindMatchingConfidence stays deterministic. That lookup returns the first
// fuzzy match, not the best one; this mirrors the scoring behavior the rest
// of the system was built around and is a documented limitation.
type SkillConfidenceMap struct {
	keys []string
	vals map[string]float64
}

// NewSkillConfidenceMap returns an empty map.
func NewSkillConfidenceMap() *SkillConfidenceMap {
	return &SkillConfidenceMap{vals: make(map[string]float64)}
}

// Add folds one record into the map. Empty names are skipped. On duplicate
// keys the maximum confidence wins: the map keeps the most favorable
// evidence and never overwrites with a lower value.
func (m *SkillConfidenceMap) Add(name string, confidence float64) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	if old, ok := m.vals[key]; ok {
		if confidence > old {
			m.vals[key] = confidence
		}
		return
	}
	m.keys = append(m.keys, key)
	m.vals[key] = confidence
}

// Get returns the confidence for an exact lower-cased key.
func (m *SkillConfidenceMap) Get(name string) (float64, bool) {
	c, ok := m.vals[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Len returns the number of distinct skills.
func (m *SkillConfidenceMap) Len() int { return len(m.keys) }

// Keys returns the skill names in insertion order.
func (m *SkillConfidenceMap) Keys() []string { return m.keys }

// BuildSkillMapFromRows folds persisted skill rows into a confidence map
// using the max-wins rule. A malformed row never aborts the fold.
func BuildSkillMapFromRows(rows []domain.UserSkill) *SkillConfidenceMap {
	m := NewSkillConfidenceMap()
	for _, r := range rows {
		m.Add(r.SkillName, r.Confidence)
	}
	return m
}

// BuildSkillMapFromScores folds scored skills into a confidence map using
// the max-wins rule.
func BuildSkillMapFromScores(skills []domain.ScoredSkill) *SkillConfidenceMap {
	m := NewSkillConfidenceMap()
	for _, s := range skills {
		m.Add(s.Name, s.Confidence)
	}
	return m
}

// ParseConfidence coerces a decoded JSON value into a confidence. Numbers
// pass through, numeric strings are parsed, anything else defaults to 0.0
// so that a single noisy record never aborts building a map.
func ParseConfidence(v any) float64 {
	switch c := v.(type) {
	case float64:
		return c
	case int:
		return float64(c)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(c), 64); err == nil {
			return f
		}
	}
	return 0.0
}

// FindMatchingConfidence resolves a required skill against the map.
// Exact lower-cased lookup first; otherwise a fuzzy bidirectional substring
// test ("sql" matches "advanced sql" and vice versa) returns the confidence
// of the first possessed skill, in insertion order, that satisfies it.
func FindMatchingConfidence(required string, m *SkillConfidenceMap) (float64, bool) {
	req := strings.ToLower(strings.TrimSpace(required))
	if req == "" || m == nil {
		return 0, false
	}
	if c, ok := m.vals[req]; ok {
		return c, true
	}
	for _, have := range m.keys {
		if strings.Contains(have, req) || strings.Contains(req, have) {
			return m.vals[have], true
		}
	}
	return 0, false
}

// ValidateConfidence rejects caller-supplied confidences outside [0,1],
// naming the offending skill. Used on the pre-scored input path where an
// out-of-range value is a contract violation rather than noisy evidence.
func ValidateConfidence(skill string, c float64) error {
	if c < 0 || c > 1 {
		return fmt.Errorf("%w: skill %q confidence %v outside [0,1]", domain.ErrInvalidArgument, skill, c)
	}
	return nil
}
