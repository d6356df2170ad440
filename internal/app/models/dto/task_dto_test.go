package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/pkg/apperrors"
)

func TestCreateTaskRequestToModel(t *testing.T) {
	t.Run("defaults status to pending", func(t *testing.T) {
		req := CreateTaskRequest{
			CourseID: "course-1",
			Title:    "Laporan",
			Deadline: "2026-09-20T23:59",
		}

		task, err := req.ToModel()
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, task.Status)
		require.NotNil(t, task.CourseID)
		assert.Equal(t, "course-1", *task.CourseID)
		assert.Equal(t, 2026, task.Deadline.Year())
	})

	t.Run("reports unparseable deadline against the deadline field", func(t *testing.T) {
		req := CreateTaskRequest{CourseID: "course-1", Title: "Laporan", Deadline: "whenever"}

		_, err := req.ToModel()
		require.Error(t, err)
		assert.Equal(t, "deadline", apperrors.FieldOf(err))
	})
}

func TestUpdateTaskRequestIgnoresIdentityFields(t *testing.T) {
	// Identity fields have no place in the edit surface: they are dropped
	// at decode time rather than rejected.
	body := `{
		"id": "attacker-chosen",
		"user_id": "someone-else",
		"course_id": "another-course",
		"created_at": "2020-01-01T00:00:00Z",
		"status": "done"
	}`

	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	changes, err := req.ToChanges()
	require.NoError(t, err)
	require.NotNil(t, changes.Status)
	assert.Equal(t, models.StatusDone, *changes.Status)
	assert.Nil(t, changes.Title)
	assert.Nil(t, changes.Deadline)
}

func TestUpdateCourseRequestToChanges(t *testing.T) {
	name := "Basis Data Lanjut"
	category := "Pilihan"
	req := UpdateCourseRequest{Name: &name, Category: &category}

	changes := req.ToChanges()
	require.NotNil(t, changes.Name)
	assert.Equal(t, "Basis Data Lanjut", *changes.Name)
	require.NotNil(t, changes.Category)
	assert.Equal(t, models.CategoryPilihan, *changes.Category)
	assert.Nil(t, changes.Semester)
	assert.False(t, changes.IsEmpty())
}
