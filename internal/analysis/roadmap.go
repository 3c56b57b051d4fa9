package analysis

import (
	"github.com/skillgenome/skillgenome/internal/domain"
)

// GenerateRoadmap compares scored skills against a role's requirements and
// returns the gap skills per phase: every required skill the user either
// does not have or holds below the threshold. Phases follow the canonical
// order and phases with no gaps are omitted to keep responses compact.
// Matching reuses the same first-match fuzzy semantics as readiness.
func GenerateRoadmap(scored []domain.ScoredSkill, req domain.RoleRequirement, threshold float64) []domain.RoadmapPhase {
	have := BuildSkillMapFromScores(scored)

	var out []domain.RoadmapPhase
	for _, phase := range domain.CanonicalPhases {
		required := req.Phases[phase]
		if len(required) == 0 {
			continue
		}
		var gaps []domain.RoadmapSkill
		for _, skill := range required {
			if c, ok := FindMatchingConfidence(skill, have); ok && c >= threshold {
				continue
			}
			gaps = append(gaps, domain.RoadmapSkill{Name: skill, Courses: []domain.Course{}})
		}
		if len(gaps) > 0 {
			out = append(out, domain.RoadmapPhase{Phase: phase, Skills: gaps})
		}
	}
	return out
}

// MapCourses enriches roadmap phases in place with course recommendations
// from the catalog. A skill with no catalog entry keeps its empty course
// list; course lookup never fails.
func MapCourses(phases []domain.RoadmapPhase, ref domain.ReferenceProvider) []domain.RoadmapPhase {
	for pi := range phases {
		for si := range phases[pi].Skills {
			entries := ref.CoursesFor(phases[pi].Skills[si].Name)
			courses := make([]domain.Course, 0, len(entries))
			for _, e := range entries {
				courses = append(courses, domain.Course{Platform: e.Platform, Title: e.Title, URL: e.URL})
			}
			phases[pi].Skills[si].Courses = courses
		}
	}
	return phases
}
