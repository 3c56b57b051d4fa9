package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// SkillRepo persists user skill rows using a minimal pgx pool.
type SkillRepo struct{ Pool PgxPool }

// NewSkillRepo constructs a SkillRepo with the given pool.
func NewSkillRepo(p PgxPool) *SkillRepo { return &SkillRepo{Pool: p} }

// Insert stores a skill row and returns its id. A duplicate
// (user_id, skill_name, source) row maps to ErrConflict so importers can
// skip already-known skills.
func (r *SkillRepo) Insert(ctx domain.Context, s domain.UserSkill) (string, error) {
	tracer := otel.Tracer("repo.skills")
	ctx, span := tracer.Start(ctx, "skills.Insert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_skills"),
	)
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}
	acquired := s.AcquiredAt
	if acquired.IsZero() {
		acquired = time.Now().UTC()
	}
	q := `INSERT INTO user_skills (id, user_id, skill_name, sector_context, confidence, source, acquired_at, evidence)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.Pool.Exec(ctx, q, id, s.UserID, s.SkillName, s.SectorContext, s.Confidence, s.Source, acquired, s.Evidence)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("op=skill.insert: %w", domain.ErrConflict)
		}
		return "", fmt.Errorf("op=skill.insert: %w", err)
	}
	return id, nil
}

// ListByUser returns all skill rows for a user ordered by acquisition time.
func (r *SkillRepo) ListByUser(ctx domain.Context, userID string) ([]domain.UserSkill, error) {
	tracer := otel.Tracer("repo.skills")
	ctx, span := tracer.Start(ctx, "skills.ListByUser")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "user_skills"),
	)
	q := `SELECT id, user_id, skill_name, sector_context, confidence, source, acquired_at, evidence
	      FROM user_skills WHERE user_id=$1 ORDER BY acquired_at, id`
	rows, err := r.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("op=skill.list: %w", err)
	}
	defer rows.Close()
	var out []domain.UserSkill
	for rows.Next() {
		var s domain.UserSkill
		if err := rows.Scan(&s.ID, &s.UserID, &s.SkillName, &s.SectorContext, &s.Confidence, &s.Source, &s.AcquiredAt, &s.Evidence); err != nil {
			return nil, fmt.Errorf("op=skill.list: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=skill.list: %w", err)
	}
	return out, nil
}

// Count returns the total number of skill rows.
func (r *SkillRepo) Count(ctx domain.Context) (int64, error) {
	tracer := otel.Tracer("repo.skills")
	ctx, span := tracer.Start(ctx, "skills.Count")
	defer span.End()
	q := `SELECT COUNT(*) FROM user_skills`
	row := r.Pool.QueryRow(ctx, q)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=skill.count: %w", err)
	}
	return count, nil
}
