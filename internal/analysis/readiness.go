package analysis

import (
	"math"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// CompleteThreshold is the confidence at which a required skill counts as
// complete. The threshold is inclusive on the complete side.
const CompleteThreshold = 0.5

// ComputeRoleReadiness classifies every required skill across the given
// phases as complete (confidence >= threshold), weak (0 < confidence <
// threshold) or missing (no match), and scores readiness as the complete
// percentage rounded to two decimals. An empty requirement set yields a
// zero score, not a division by zero.
func ComputeRoleReadiness(req domain.RoleRequirement, skills *SkillConfidenceMap, phases []string, threshold float64) domain.ReadinessResult {
	if len(phases) == 0 {
		phases = domain.CanonicalPhases
	}
	var complete, weak, missing int
	for _, phase := range phases {
		for _, required := range req.Phases[phase] {
			c, ok := FindMatchingConfidence(required, skills)
			switch {
			case !ok:
				missing++
			case c < threshold:
				weak++
			default:
				complete++
			}
		}
	}
	total := complete + weak + missing
	score := 0.0
	if total > 0 {
		score = round2(float64(complete) / float64(total) * 100)
	}
	return domain.ReadinessResult{
		SkillsTotal:    total,
		SkillsComplete: complete,
		SkillsWeak:     weak,
		SkillsMissing:  missing,
		ReadinessScore: score,
	}
}

// ComputeCoreFit counts only required skills meeting the threshold across
// the foundation and core phases, the stricter "minimum bar" signal.
func ComputeCoreFit(req domain.RoleRequirement, skills *SkillConfidenceMap, phases []string, threshold float64) domain.FitResult {
	if len(phases) == 0 {
		phases = domain.CorePhases
	}
	var matched, total int
	for _, phase := range phases {
		for _, required := range req.Phases[phase] {
			total++
			if c, ok := FindMatchingConfidence(required, skills); ok && c >= threshold {
				matched++
			}
		}
	}
	score := 0.0
	if total > 0 {
		score = round2(float64(matched) / float64(total) * 100)
	}
	return domain.FitResult{
		FitScore:        score,
		MatchedRequired: matched,
		TotalRequired:   total,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
