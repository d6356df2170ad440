package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/pkg/apperrors"
)

// fakeTaskStore is an in-memory TaskStore. Course names are resolved from a
// side table so the orphaned-course case can be exercised.
type fakeTaskStore struct {
	tasks       map[string][]models.Task
	courseNames map[string]string
	nextID      int
	calls       []string
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{
		tasks:       make(map[string][]models.Task),
		courseNames: make(map[string]string),
	}
}

func (f *fakeTaskStore) resolveCourseName(task *models.Task) {
	task.CourseName = nil
	if task.CourseID == nil {
		return
	}
	if name, ok := f.courseNames[*task.CourseID]; ok {
		task.CourseName = &name
	}
}

func (f *fakeTaskStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	f.calls = append(f.calls, "list")
	out := make([]models.Task, len(f.tasks[ownerID]))
	copy(out, f.tasks[ownerID])
	for i := range out {
		f.resolveCourseName(&out[i])
	}
	return out, nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, ownerID, id string) (*models.Task, error) {
	f.calls = append(f.calls, "get")
	for _, task := range f.tasks[ownerID] {
		if task.ID == id {
			found := task
			f.resolveCourseName(&found)
			return &found, nil
		}
	}
	return nil, apperrors.ErrTaskNotFound
}

func (f *fakeTaskStore) Create(ctx context.Context, ownerID string, task *models.Task) (*models.Task, error) {
	f.calls = append(f.calls, "create")
	if task.CourseID != nil {
		if _, ok := f.courseNames[*task.CourseID]; !ok {
			return nil, apperrors.ErrCourseNotFound
		}
	}
	f.nextID++
	created := *task
	created.ID = string(rune('a' + f.nextID - 1))
	created.UserID = ownerID
	created.CreatedAt = time.Now()
	f.tasks[ownerID] = append(f.tasks[ownerID], created)
	f.resolveCourseName(&created)
	return &created, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, ownerID, id string, changes models.TaskChanges) (*models.Task, error) {
	f.calls = append(f.calls, "update")
	list := f.tasks[ownerID]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if changes.Title != nil {
			list[i].Title = *changes.Title
		}
		if changes.Description != nil {
			list[i].Description = changes.Description
		}
		if changes.Deadline != nil {
			list[i].Deadline = *changes.Deadline
		}
		if changes.Status != nil {
			list[i].Status = *changes.Status
		}
		now := time.Now()
		list[i].UpdatedAt = &now
		task := list[i]
		f.resolveCourseName(&task)
		return &task, nil
	}
	return nil, apperrors.ErrTaskNotFound
}

func (f *fakeTaskStore) Delete(ctx context.Context, ownerID, id string) error {
	f.calls = append(f.calls, "delete")
	list := f.tasks[ownerID]
	for i := range list {
		if list[i].ID == id {
			f.tasks[ownerID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrTaskNotFound
}

func newTask(courseID string) *models.Task {
	id := courseID
	return &models.Task{
		CourseID: &id,
		Title:    "Laporan Praktikum",
		Deadline: time.Date(2026, 9, 20, 23, 59, 0, 0, time.UTC),
		Status:   models.StatusPending,
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Run("create then list includes the task with its course name", func(t *testing.T) {
		store := newFakeTaskStore()
		store.courseNames["course-1"] = "Algoritma"
		svc := NewTaskService(store)
		ctx := context.Background()

		created, err := svc.Create(ctx, "user-1", newTask("course-1"))
		require.NoError(t, err)
		require.NotNil(t, created.CourseName)
		assert.Equal(t, "Algoritma", *created.CourseName)

		tasks, err := svc.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.NotNil(t, tasks[0].CourseName)
		assert.Equal(t, "Algoritma", *tasks[0].CourseName)
	})

	t.Run("missing deadline is rejected before the store is called", func(t *testing.T) {
		store := newFakeTaskStore()
		store.courseNames["course-1"] = "Algoritma"
		svc := NewTaskService(store)

		task := newTask("course-1")
		task.Deadline = time.Time{}
		_, err := svc.Create(context.Background(), "user-1", task)
		require.Error(t, err)
		assert.Equal(t, "deadline", apperrors.FieldOf(err))
		assert.Empty(t, store.calls)
	})

	t.Run("unknown course surfaces as not found", func(t *testing.T) {
		store := newFakeTaskStore()
		svc := NewTaskService(store)

		_, err := svc.Create(context.Background(), "user-1", newTask("missing-course"))
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestTaskServiceOrphanedCourse(t *testing.T) {
	// A task whose course has been deleted is still listed, with a nil
	// course name.
	store := newFakeTaskStore()
	store.courseNames["course-1"] = "Algoritma"
	svc := NewTaskService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", newTask("course-1"))
	require.NoError(t, err)

	delete(store.courseNames, "course-1")
	require.NoError(t, svc.Views().ForOwner("user-1").Refresh(ctx))

	tasks, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].CourseName)
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Run("status transition keeps other fields", func(t *testing.T) {
		store := newFakeTaskStore()
		store.courseNames["course-1"] = "Algoritma"
		svc := NewTaskService(store)
		ctx := context.Background()

		created, err := svc.Create(ctx, "user-1", newTask("course-1"))
		require.NoError(t, err)

		done := models.StatusDone
		updated, err := svc.Update(ctx, "user-1", created.ID, models.TaskChanges{Status: &done})
		require.NoError(t, err)
		assert.Equal(t, models.StatusDone, updated.Status)
		assert.Equal(t, "Laporan Praktikum", updated.Title)
		assert.NotNil(t, updated.UpdatedAt)
	})

	t.Run("invalid status is rejected locally", func(t *testing.T) {
		store := newFakeTaskStore()
		store.courseNames["course-1"] = "Algoritma"
		svc := NewTaskService(store)
		ctx := context.Background()

		created, err := svc.Create(ctx, "user-1", newTask("course-1"))
		require.NoError(t, err)
		callsBefore := len(store.calls)

		bogus := models.TaskStatus("someday")
		_, err = svc.Update(ctx, "user-1", created.ID, models.TaskChanges{Status: &bogus})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Len(t, store.calls, callsBefore)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	store := newFakeTaskStore()
	store.courseNames["course-1"] = "Algoritma"
	svc := NewTaskService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", newTask("course-1"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))

	tasks, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	err = svc.Delete(ctx, "user-1", created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}
