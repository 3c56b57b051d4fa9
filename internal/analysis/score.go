package analysis

import (
	"sort"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// Scoring weights. The formula is a deterministic, monotonic function of
// evidence count and occurrence signal, bounded to [0,1]:
//
//	confidence = clamp01(base + evidenceWeight*min(evidence, 3) + signalWeight*min(signal, 4))
//
// More or stronger evidence for a skill never lowers its confidence.
const (
	scoreBase      = 0.3
	evidenceWeight = 0.2
	signalWeight   = 0.05
	maxSignal      = 4
)

// ScoreCandidates converts extracted candidates into scored skills. The
// output preserves the candidates' input order; ties are therefore broken
// by stable input order.
func ScoreCandidates(candidates []domain.SkillCandidate) []domain.ScoredSkill {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]domain.ScoredSkill, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.ScoredSkill{
			Name:       c.Name,
			Confidence: scoreCandidate(c),
		})
	}
	return out
}

func scoreCandidate(c domain.SkillCandidate) float64 {
	evidence := len(c.Evidence)
	if evidence > maxEvidence {
		evidence = maxEvidence
	}
	signal := c.RawSignal
	if signal > maxSignal {
		signal = maxSignal
	}
	return Clamp01(scoreBase + evidenceWeight*float64(evidence) + signalWeight*float64(signal))
}

// SortByConfidenceDesc stable-sorts skills by confidence, highest first.
// Applied to caller-supplied pre-scored skills so downstream roadmap
// generation considers higher-confidence skills first.
func SortByConfidenceDesc(skills []domain.ScoredSkill) {
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Confidence > skills[j].Confidence
	})
}

// Clamp01 bounds a confidence to [0,1].
func Clamp01(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
