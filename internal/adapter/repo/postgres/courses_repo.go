package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// CourseRepo persists completed-course rows using a minimal pgx pool.
type CourseRepo struct{ Pool PgxPool }

// NewCourseRepo constructs a CourseRepo with the given pool.
func NewCourseRepo(p PgxPool) *CourseRepo { return &CourseRepo{Pool: p} }

// Insert stores a completed course and returns its id. Duplicate
// (user_id, course_name, platform) rows map to ErrConflict.
func (r *CourseRepo) Insert(ctx domain.Context, c domain.UserCourse) (string, error) {
	tracer := otel.Tracer("repo.courses")
	ctx, span := tracer.Start(ctx, "courses.Insert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_courses"),
	)
	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}
	completed := c.CompletedAt
	if completed.IsZero() {
		completed = time.Now().UTC()
	}
	q := `INSERT INTO user_courses (id, user_id, course_name, platform, sector, completed_at, skills_gained, certificate_url)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.Pool.Exec(ctx, q, id, c.UserID, c.CourseName, c.Platform, c.Sector, completed, c.SkillsGained, c.CertificateURL)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("op=course.insert: %w", domain.ErrConflict)
		}
		return "", fmt.Errorf("op=course.insert: %w", err)
	}
	return id, nil
}

// ListByUser returns all completed courses for a user ordered by completion time.
func (r *CourseRepo) ListByUser(ctx domain.Context, userID string) ([]domain.UserCourse, error) {
	tracer := otel.Tracer("repo.courses")
	ctx, span := tracer.Start(ctx, "courses.ListByUser")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "user_courses"),
	)
	q := `SELECT id, user_id, course_name, platform, sector, completed_at, skills_gained, COALESCE(certificate_url,'')
	      FROM user_courses WHERE user_id=$1 ORDER BY completed_at, id`
	rows, err := r.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("op=course.list: %w", err)
	}
	defer rows.Close()
	var out []domain.UserCourse
	for rows.Next() {
		var c domain.UserCourse
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseName, &c.Platform, &c.Sector, &c.CompletedAt, &c.SkillsGained, &c.CertificateURL); err != nil {
			return nil, fmt.Errorf("op=course.list: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=course.list: %w", err)
	}
	return out, nil
}
