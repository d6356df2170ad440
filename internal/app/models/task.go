package models

import "time"

// TaskStatus tracks the completion state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists every legal task status value.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusDone}

// ValidTaskStatus reports whether v is one of the fixed status values.
func ValidTaskStatus(v TaskStatus) bool {
	for _, s := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Task defines the task model based on the 'tasks' table.
type Task struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	CourseID    *string    `json:"course_id" db:"course_id"` // Nil once the owning course is deleted
	Title       string     `json:"title" db:"title" example:"Laporan Praktikum 3"`
	Description *string    `json:"description,omitempty" db:"description"` // Nullable
	Deadline    time.Time  `json:"deadline" db:"deadline"`
	Status      TaskStatus `json:"status" db:"status" example:"pending"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"` // Set on every edit

	// CourseName is populated by the read-side join against the owning
	// course; nil when the course row no longer exists. Never persisted.
	CourseName *string `json:"course_name" db:"-"`
}

// TaskChanges is the writable field subset for a task edit. Nil fields are
// left untouched; id, user_id, course_id and created_at cannot be changed.
type TaskChanges struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Status      *TaskStatus
}

// IsEmpty reports whether the change set carries no fields.
func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Deadline == nil && c.Status == nil
}
