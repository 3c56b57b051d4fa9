// Package usecase contains application services orchestrating the skill
// analysis pipeline over the domain ports.
package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillgenome/skillgenome/internal/analysis"
	"github.com/skillgenome/skillgenome/internal/domain"
	"github.com/skillgenome/skillgenome/pkg/textx"
)

// AnalyzeService turns a resume document or caller-scored skill list into
// scored skills plus a learning roadmap for a target role.
type AnalyzeService struct {
	Extractor domain.TextExtractor
	Ref       domain.ReferenceProvider
}

// NewAnalyzeService constructs an AnalyzeService.
func NewAnalyzeService(ex domain.TextExtractor, ref domain.ReferenceProvider) AnalyzeService {
	return AnalyzeService{Extractor: ex, Ref: ref}
}

// AnalyzeResult is the assembled outcome of one analysis.
type AnalyzeResult struct {
	Skills  []domain.ScoredSkill  `json:"skills"`
	Roadmap []domain.RoadmapPhase `json:"roadmap"`
	Role    string                `json:"role"`
}

// ExtractSkills runs the document path up to scoring: extract text, detect
// ontology skills, score them. Used by the extract-only endpoint.
func (s AnalyzeService) ExtractSkills(ctx domain.Context, fileName string, data []byte) ([]domain.ScoredSkill, error) {
	raw, err := s.Extractor.Extract(ctx, fileName, data)
	if err != nil {
		return nil, err
	}
	normalized := textx.Normalize(raw)
	candidates := analysis.Extract(normalized, raw, s.Ref.Ontology())
	scored := analysis.ScoreCandidates(candidates)
	analysis.SortByConfidenceDesc(scored)
	slog.Info("skills extracted", slog.String("file", fileName), slog.Int("count", len(scored)))
	return scored, nil
}

// AnalyzeDocument runs the full document path and builds the roadmap for the
// target role. An unknown or empty role falls back to the generic default
// requirement set rather than failing.
func (s AnalyzeService) AnalyzeDocument(ctx domain.Context, fileName string, data []byte, targetRole string) (AnalyzeResult, error) {
	scored, err := s.ExtractSkills(ctx, fileName, data)
	if err != nil {
		return AnalyzeResult{}, err
	}
	return s.buildResult(scored, targetRole), nil
}

// AnalyzePrescored validates a caller-provided skill list and builds the
// roadmap. Confidences outside [0,1] are rejected naming the offending skill.
func (s AnalyzeService) AnalyzePrescored(_ domain.Context, skills []domain.ScoredSkill, targetRole string) (AnalyzeResult, error) {
	cleaned := make([]domain.ScoredSkill, 0, len(skills))
	for _, sk := range skills {
		name := strings.TrimSpace(sk.Name)
		if name == "" {
			continue
		}
		if err := analysis.ValidateConfidence(name, sk.Confidence); err != nil {
			return AnalyzeResult{}, err
		}
		cleaned = append(cleaned, domain.ScoredSkill{Name: name, Confidence: sk.Confidence})
	}
	if len(cleaned) == 0 {
		return AnalyzeResult{}, fmt.Errorf("op=analyze.prescored: no skills given: %w", domain.ErrInvalidArgument)
	}
	analysis.SortByConfidenceDesc(cleaned)
	return s.buildResult(cleaned, targetRole), nil
}

// buildResult resolves the role, generates the gap roadmap and attaches
// course recommendations.
func (s AnalyzeService) buildResult(scored []domain.ScoredSkill, targetRole string) AnalyzeResult {
	req, err := s.Ref.Role(targetRole)
	if err != nil {
		req = s.Ref.DefaultRole()
		slog.Info("unknown target role, using default requirement set",
			slog.String("target_role", targetRole))
	}
	phases := analysis.GenerateRoadmap(scored, req, analysis.CompleteThreshold)
	phases = analysis.MapCourses(phases, s.Ref)
	return AnalyzeResult{Skills: scored, Roadmap: phases, Role: req.RoleName}
}
