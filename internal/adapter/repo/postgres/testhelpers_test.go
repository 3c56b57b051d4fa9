package postgres_test

import (
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation fabricates the Postgres unique_violation error the repos
// translate into domain.ErrConflict.
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}
