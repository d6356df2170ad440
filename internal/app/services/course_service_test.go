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

// fakeCourseStore is an in-memory CourseStore that records its calls.
type fakeCourseStore struct {
	courses map[string][]models.Course
	nextID  int
	calls   []string
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[string][]models.Course)}
}

func (f *fakeCourseStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Course, error) {
	f.calls = append(f.calls, "list")
	out := make([]models.Course, len(f.courses[ownerID]))
	copy(out, f.courses[ownerID])
	return out, nil
}

func (f *fakeCourseStore) GetByID(ctx context.Context, ownerID, id string) (*models.Course, error) {
	f.calls = append(f.calls, "get")
	for _, c := range f.courses[ownerID] {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourseStore) Create(ctx context.Context, ownerID string, course *models.Course) (*models.Course, error) {
	f.calls = append(f.calls, "create")
	f.nextID++
	created := *course
	created.ID = string(rune('a' + f.nextID - 1))
	created.UserID = ownerID
	created.CreatedAt = time.Now()
	f.courses[ownerID] = append(f.courses[ownerID], created)
	return &created, nil
}

func (f *fakeCourseStore) Update(ctx context.Context, ownerID, id string, changes models.CourseChanges) (*models.Course, error) {
	f.calls = append(f.calls, "update")
	list := f.courses[ownerID]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if changes.Name != nil {
			list[i].Name = *changes.Name
		}
		if changes.Semester != nil {
			list[i].Semester = changes.Semester
		}
		if changes.SKS != nil {
			list[i].SKS = changes.SKS
		}
		if changes.Category != nil {
			list[i].Category = changes.Category
		}
		course := list[i]
		return &course, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourseStore) Delete(ctx context.Context, ownerID, id string) error {
	f.calls = append(f.calls, "delete")
	list := f.courses[ownerID]
	for i := range list {
		if list[i].ID == id {
			f.courses[ownerID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrCourseNotFound
}

func intPtr(i int) *int { return &i }

func TestCourseServiceCreate(t *testing.T) {
	t.Run("create then list includes the new course", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := NewCourseService(store)
		ctx := context.Background()

		category := models.CategoryWajib
		created, err := svc.Create(ctx, "user-1", &models.Course{
			Name:     "Algoritma",
			Semester: intPtr(3),
			SKS:      intPtr(3),
			Category: &category,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "user-1", created.UserID)
		assert.False(t, created.CreatedAt.IsZero())

		courses, err := svc.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, "Algoritma", courses[0].Name)
		assert.Equal(t, 3, *courses[0].Semester)
	})

	t.Run("validation failure never reaches the store", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := NewCourseService(store)

		_, err := svc.Create(context.Background(), "user-1", &models.Course{
			Name:     "Jaringan",
			Semester: intPtr(15),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, "semester", apperrors.FieldOf(err))
		assert.Empty(t, store.calls)
	})
}

func TestCourseServiceUpdate(t *testing.T) {
	t.Run("partial edit leaves omitted fields untouched", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := NewCourseService(store)
		ctx := context.Background()

		created, err := svc.Create(ctx, "user-1", &models.Course{Name: "Basis Data", SKS: intPtr(3)})
		require.NoError(t, err)

		newName := "Basis Data Lanjut"
		updated, err := svc.Update(ctx, "user-1", created.ID, models.CourseChanges{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Basis Data Lanjut", updated.Name)
		require.NotNil(t, updated.SKS)
		assert.Equal(t, 3, *updated.SKS)
	})

	t.Run("invalid edit is rejected before the store is called", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := NewCourseService(store)
		ctx := context.Background()

		created, err := svc.Create(ctx, "user-1", &models.Course{Name: "Basis Data"})
		require.NoError(t, err)
		callsBefore := len(store.calls)

		_, err = svc.Update(ctx, "user-1", created.ID, models.CourseChanges{Semester: intPtr(0)})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Len(t, store.calls, callsBefore)
	})
}

func TestCourseServiceDelete(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", &models.Course{Name: "Kalkulus"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))

	courses, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, courses)

	// Deleting the same id again reports not found.
	err = svc.Delete(ctx, "user-1", created.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseServiceListIsOwnerScoped(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", &models.Course{Name: "Milik A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", &models.Course{Name: "Milik B"})
	require.NoError(t, err)

	courses, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Milik A", courses[0].Name)
}

func TestCourseServiceViewRefreshesAfterMutation(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", &models.Course{Name: "Satu"})
	require.NoError(t, err)
	listCalls := 0
	for _, call := range store.calls {
		if call == "list" {
			listCalls++
		}
	}
	// The create must have re-read the collection from the store.
	assert.GreaterOrEqual(t, listCalls, 1)

	// A later List answers from the refreshed snapshot without another fetch.
	callsBefore := len(store.calls)
	courses, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Len(t, store.calls, callsBefore)
}
