package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/pkg/apperrors"
	"github.com/anandr/kuliahku/internal/pkg/logger"
)

var courseColumns = []string{"id", "user_id", "name", "lecturer", "semester", "sks", "description", "category", "created_at"}

// CourseRepository handles course database operations. Every read is scoped
// to the owning user; identity and creation-timestamp columns are assigned
// by the store and never accepted from callers.
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	var category *string
	err := row.Scan(
		&course.ID,
		&course.UserID,
		&course.Name,
		&course.Lecturer,
		&course.Semester,
		&course.SKS,
		&course.Description,
		&category,
		&course.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		c := models.CourseCategory(*category)
		course.Category = &c
	}
	return course, nil
}

// ListByOwner retrieves all courses of one user, oldest first.
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// GetByID retrieves one course owned by ownerID. A missing row is the
// distinguished ErrCourseNotFound outcome, not a remote failure.
func (r *CourseRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// Create inserts a course for ownerID. Only the writable columns are sent;
// id and created_at come back from the store.
func (r *CourseRepository) Create(ctx context.Context, ownerID string, course *models.Course) (*models.Course, error) {
	var category *string
	if course.Category != nil {
		c := string(*course.Category)
		category = &c
	}

	sql, args, err := r.sb.Insert("courses").
		Columns("user_id", "name", "lecturer", "semester", "sks", "description", "category").
		Values(ownerID, course.Name, course.Lecturer, course.Semester, course.SKS, course.Description, category).
		Suffix("RETURNING " + joinColumns(courseColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create course query: %w", err)
	}

	created, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	return created, nil
}

// Update applies a partial edit to a course owned by ownerID. Only fields
// present in the change set are written.
func (r *CourseRepository) Update(ctx context.Context, ownerID, id string, changes models.CourseChanges) (*models.Course, error) {
	set := map[string]interface{}{}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Lecturer != nil {
		set["lecturer"] = *changes.Lecturer
	}
	if changes.Semester != nil {
		set["semester"] = *changes.Semester
	}
	if changes.SKS != nil {
		set["sks"] = *changes.SKS
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	if changes.Category != nil {
		set["category"] = string(*changes.Category)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, ownerID, id)
	}

	sql, args, err := r.sb.Update("courses").
		SetMap(set).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		Suffix("RETURNING " + joinColumns(courseColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update course query: %w", err)
	}

	updated, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id).Msg("Error executing update course query")
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	return updated, nil
}

// Delete removes a course owned by ownerID. Deleting an id that no longer
// exists reports ErrCourseNotFound.
func (r *CourseRepository) Delete(ctx context.Context, ownerID, id string) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
