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

// taskColumns are selected with their read-side join: course_name is derived
// from the owning course row at read time and never stored on the task.
var taskColumns = []string{
	"t.id", "t.user_id", "t.course_id", "t.title", "t.description",
	"t.deadline", "t.status", "t.created_at", "t.updated_at",
	"c.name AS course_name",
}

// courseNameSubquery resolves the derived course_name for statements that
// cannot join (INSERT/UPDATE ... RETURNING).
const courseNameSubquery = "(SELECT name FROM courses WHERE courses.id = tasks.course_id) AS course_name"

// TaskRepository handles task database operations.
type TaskRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	var status string
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.CourseID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CourseName,
	)
	if err != nil {
		return nil, err
	}
	task.Status = models.TaskStatus(status)
	return task, nil
}

// ListByOwner retrieves all tasks of one user ordered by deadline, each
// joined to its course name. A task whose course no longer exists is still
// returned, with a nil course name.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	sql, args, err := r.sb.Select(taskColumns...).
		From("tasks t").
		LeftJoin("courses c ON c.id = t.course_id").
		Where(squirrel.Eq{"t.user_id": ownerID}).
		OrderBy("t.deadline ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list tasks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list tasks query")
		return nil, fmt.Errorf("error querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning task row: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// GetByID retrieves one task owned by ownerID. A missing row is the
// distinguished ErrTaskNotFound outcome, not a remote failure.
func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Task, error) {
	sql, args, err := r.sb.Select(taskColumns...).
		From("tasks t").
		LeftJoin("courses c ON c.id = t.course_id").
		Where(squirrel.Eq{"t.id": id, "t.user_id": ownerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get task query: %w", err)
	}

	task, err := scanTask(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		logger.Error().Err(err).Str("taskID", id).Msg("Error scanning task row")
		return nil, fmt.Errorf("error getting task by ID: %w", err)
	}

	return task, nil
}

// Create inserts a task for ownerID. A course_id that references no course
// is rejected by the store's FK and surfaces as ErrCourseNotFound.
func (r *TaskRepository) Create(ctx context.Context, ownerID string, task *models.Task) (*models.Task, error) {
	sql, args, err := r.sb.Insert("tasks").
		Columns("user_id", "course_id", "title", "description", "deadline", "status").
		Values(ownerID, task.CourseID, task.Title, task.Description, task.Deadline, string(task.Status)).
		Suffix("RETURNING id, user_id, course_id, title, description, deadline, status, created_at, updated_at, " + courseNameSubquery).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create task query: %w", err)
	}

	created, err := scanTask(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isForeignKeyError(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error executing create task query")
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return created, nil
}

// Update applies a partial edit to a task owned by ownerID. Only fields
// present in the change set are written; updated_at moves on every edit.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id string, changes models.TaskChanges) (*models.Task, error) {
	set := map[string]interface{}{
		"updated_at": squirrel.Expr("now()"),
	}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	if changes.Deadline != nil {
		set["deadline"] = *changes.Deadline
	}
	if changes.Status != nil {
		set["status"] = string(*changes.Status)
	}

	sql, args, err := r.sb.Update("tasks").
		SetMap(set).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		Suffix("RETURNING id, user_id, course_id, title, description, deadline, status, created_at, updated_at, " + courseNameSubquery).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update task query: %w", err)
	}

	updated, err := scanTask(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		logger.Error().Err(err).Str("taskID", id).Msg("Error executing update task query")
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	return updated, nil
}

// Delete removes a task owned by ownerID. Deleting an id that no longer
// exists reports ErrTaskNotFound.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	sql, args, err := r.sb.Delete("tasks").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("taskID", id).Msg("Error executing delete task query")
		return fmt.Errorf("error deleting task: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}
