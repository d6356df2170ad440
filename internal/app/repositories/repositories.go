// Package repositories is the only layer that talks to the backing store.
// Every call is a single best-effort round trip: no retries, no batching.
package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances.
type Repositories struct {
	UserRepository   *UserRepository
	TokenRepository  *TokenRepository
	CourseRepository *CourseRepository
	TaskRepository   *TaskRepository
}

// NewRepositories creates all repositories sharing one pool.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:   NewUserRepository(db),
		TokenRepository:  NewTokenRepository(db),
		CourseRepository: NewCourseRepository(db),
		TaskRepository:   NewTaskRepository(db),
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

// isForeignKeyError checks if the error is a PostgreSQL FK violation.
func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" // foreign_key_violation
}

// joinColumns renders a column list for a RETURNING clause.
func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
