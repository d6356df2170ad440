package dto

import (
	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/pkg/validation"
)

// CreateTaskRequest represents the body of a task creation request. The
// deadline arrives as a string and is parsed before validation so that an
// unparseable value is reported against the deadline field.
type CreateTaskRequest struct {
	CourseID    string  `json:"course_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Deadline    string  `json:"deadline"`
	Status      *string `json:"status"`
}

// ToModel builds the task to be persisted. A missing status defaults to
// pending; ownership is attached by the service from the session.
func (r CreateTaskRequest) ToModel() (*models.Task, error) {
	task := &models.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      models.StatusPending,
	}
	if r.CourseID != "" {
		courseID := r.CourseID
		task.CourseID = &courseID
	}
	if r.Status != nil && *r.Status != "" {
		task.Status = models.TaskStatus(*r.Status)
	}
	if r.Deadline != "" {
		deadline, err := validation.ParseDeadline(r.Deadline)
		if err != nil {
			return nil, err
		}
		task.Deadline = deadline
	}
	return task, nil
}

// UpdateTaskRequest represents a partial task edit. Omitted keys leave the
// stored value untouched; course_id is fixed at creation and has no key here.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
}

// ToChanges converts the request into the repository change set.
func (r UpdateTaskRequest) ToChanges() (models.TaskChanges, error) {
	changes := models.TaskChanges{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status := models.TaskStatus(*r.Status)
		changes.Status = &status
	}
	if r.Deadline != nil {
		deadline, err := validation.ParseDeadline(*r.Deadline)
		if err != nil {
			return models.TaskChanges{}, err
		}
		changes.Deadline = &deadline
	}
	return changes, nil
}
