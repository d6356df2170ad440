// Package validation holds the pure acceptance checks applied to course and
// task records before any store round trip. Checks are side-effect free and
// report the first failing field.
package validation

import (
	"strings"
	"time"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/pkg/apperrors"
)

// CheckCourse validates a full course record for creation.
func CheckCourse(course *models.Course) error {
	if course == nil {
		return apperrors.NewValidationError("course", "course is nil")
	}
	if strings.TrimSpace(course.Name) == "" {
		return apperrors.NewValidationError("name", "name must not be empty")
	}
	if course.Semester != nil && !inRange(*course.Semester, models.SemesterMin, models.SemesterMax) {
		return apperrors.NewValidationError("semester", "semester must be between 1 and 14")
	}
	if course.SKS != nil && !inRange(*course.SKS, models.SKSMin, models.SKSMax) {
		return apperrors.NewValidationError("sks", "sks must be between 1 and 6")
	}
	if course.Category != nil && !models.ValidCourseCategory(*course.Category) {
		return apperrors.NewValidationError("category", "unknown course category")
	}
	return nil
}

// CheckCourseChanges validates the fields present in a course edit.
func CheckCourseChanges(changes models.CourseChanges) error {
	if changes.Name != nil && strings.TrimSpace(*changes.Name) == "" {
		return apperrors.NewValidationError("name", "name must not be empty")
	}
	if changes.Semester != nil && !inRange(*changes.Semester, models.SemesterMin, models.SemesterMax) {
		return apperrors.NewValidationError("semester", "semester must be between 1 and 14")
	}
	if changes.SKS != nil && !inRange(*changes.SKS, models.SKSMin, models.SKSMax) {
		return apperrors.NewValidationError("sks", "sks must be between 1 and 6")
	}
	if changes.Category != nil && !models.ValidCourseCategory(*changes.Category) {
		return apperrors.NewValidationError("category", "unknown course category")
	}
	return nil
}

// CheckTask validates a full task record for creation. An absent status is
// normalized to pending by the caller, not rejected here.
func CheckTask(task *models.Task) error {
	if task == nil {
		return apperrors.NewValidationError("task", "task is nil")
	}
	if strings.TrimSpace(task.Title) == "" {
		return apperrors.NewValidationError("title", "title must not be empty")
	}
	if task.CourseID == nil || *task.CourseID == "" {
		return apperrors.NewValidationError("course_id", "course_id is required")
	}
	if task.Deadline.IsZero() {
		return apperrors.NewValidationError("deadline", "deadline is required")
	}
	if task.Status != "" && !models.ValidTaskStatus(task.Status) {
		return apperrors.NewValidationError("status", "unknown task status")
	}
	return nil
}

// CheckTaskChanges validates the fields present in a task edit.
func CheckTaskChanges(changes models.TaskChanges) error {
	if changes.Title != nil && strings.TrimSpace(*changes.Title) == "" {
		return apperrors.NewValidationError("title", "title must not be empty")
	}
	if changes.Deadline != nil && changes.Deadline.IsZero() {
		return apperrors.NewValidationError("deadline", "deadline must be a valid timestamp")
	}
	if changes.Status != nil && !models.ValidTaskStatus(*changes.Status) {
		return apperrors.NewValidationError("status", "unknown task status")
	}
	return nil
}

// ParseDeadline parses a deadline accepted from a form field. RFC 3339 and
// the bare date form used by the dashboard's date picker are both accepted.
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperrors.NewValidationError("deadline", "deadline is required")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("deadline", "deadline is not a valid timestamp")
}

func inRange(v, min, max int) bool {
	return v >= min && v <= max
}
