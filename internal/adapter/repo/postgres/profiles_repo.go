// Package postgres provides PostgreSQL database adapters.
//
// It implements repository interfaces for data persistence.
// The package provides type-safe database operations with
// connection pooling and transaction support.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ProfileRepo persists and loads user profiles using a minimal pgx pool.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// Create stores a new profile and returns its id (generates one if empty).
func (r *ProfileRepo) Create(ctx domain.Context, p domain.Profile) (string, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "profiles"),
	)
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	q := `INSERT INTO profiles (id, email, name, created_at, last_updated) VALUES ($1,$2,$3,$4,$5)`
	_, err := r.Pool.Exec(ctx, q, id, p.Email, p.Name, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("op=profile.create: %w", domain.ErrConflict)
		}
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	return id, nil
}

// Get loads a profile by id or returns ErrNotFound.
func (r *ProfileRepo) Get(ctx domain.Context, id string) (domain.Profile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "profiles"),
	)
	q := `SELECT id, email, name, created_at, last_updated FROM profiles WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.CreatedAt, &p.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	return p, nil
}

// Delete removes a profile and its dependent rows (cascade in schema).
func (r *ProfileRepo) Delete(ctx domain.Context, id string) error {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Delete")
	defer span.End()
	q := `DELETE FROM profiles WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("op=profile.delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=profile.delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Touch bumps the profile's last_updated timestamp.
func (r *ProfileRepo) Touch(ctx domain.Context, id string) error {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Touch")
	defer span.End()
	q := `UPDATE profiles SET last_updated=$2 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=profile.touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=profile.touch: %w", domain.ErrNotFound)
	}
	return nil
}

// Count returns the total number of profiles.
func (r *ProfileRepo) Count(ctx domain.Context) (int64, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Count")
	defer span.End()
	q := `SELECT COUNT(*) FROM profiles`
	row := r.Pool.QueryRow(ctx, q)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=profile.count: %w", err)
	}
	return count, nil
}
