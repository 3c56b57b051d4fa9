package usecase

import (
	"fmt"

	"github.com/skillgenome/skillgenome/internal/analysis"
	"github.com/skillgenome/skillgenome/internal/domain"
)

// ReadinessService evaluates how ready a user's skill set is for a role and
// how well it fits the role's foundation and core requirements.
type ReadinessService struct {
	Skills domain.SkillRepository
	Ref    domain.ReferenceProvider
}

// NewReadinessService constructs a ReadinessService.
func NewReadinessService(skills domain.SkillRepository, ref domain.ReferenceProvider) ReadinessService {
	return ReadinessService{Skills: skills, Ref: ref}
}

// SkillRecord is one caller-supplied skill row. Confidence is accepted in
// any loose wire shape (number or numeric string); unparsable values fold
// to 0.0 like the persisted path.
type SkillRecord struct {
	Name       string `json:"skill_name"`
	Confidence any    `json:"confidence"`
}

// ReadinessReport bundles the full readiness and foundation+core fit views.
type ReadinessReport struct {
	Role      string                 `json:"role"`
	Readiness domain.ReadinessResult `json:"readiness"`
	Fit       domain.FitResult       `json:"fit"`
}

// ForUser loads the user's persisted skill rows and evaluates them. Unknown
// roles fail with ErrUnknownRole (not-found semantics).
func (s ReadinessService) ForUser(ctx domain.Context, userID, role string) (ReadinessReport, error) {
	req, err := s.Ref.Role(role)
	if err != nil {
		return ReadinessReport{}, fmt.Errorf("op=readiness.for_user: role %q: %w", role, err)
	}
	rows, err := s.Skills.ListByUser(ctx, userID)
	if err != nil {
		return ReadinessReport{}, err
	}
	m := analysis.BuildSkillMapFromRows(rows)
	return report(req, m), nil
}

// ForRecords evaluates caller-supplied skill records without persistence.
func (s ReadinessService) ForRecords(_ domain.Context, records []SkillRecord, role string) (ReadinessReport, error) {
	req, err := s.Ref.Role(role)
	if err != nil {
		return ReadinessReport{}, fmt.Errorf("op=readiness.for_records: role %q: %w", role, err)
	}
	m := analysis.NewSkillConfidenceMap()
	for _, r := range records {
		m.Add(r.Name, analysis.ParseConfidence(r.Confidence))
	}
	return report(req, m), nil
}

func report(req domain.RoleRequirement, m *analysis.SkillConfidenceMap) ReadinessReport {
	return ReadinessReport{
		Role:      req.RoleName,
		Readiness: analysis.ComputeRoleReadiness(req, m, nil, analysis.CompleteThreshold),
		Fit:       analysis.ComputeCoreFit(req, m, nil, analysis.CompleteThreshold),
	}
}
