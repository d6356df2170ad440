package services

import (
	"context"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/app/view"
	"github.com/anandr/kuliahku/internal/pkg/validation"
)

// CourseStore is the persistence surface the course service needs.
type CourseStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Course, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Course, error)
	Create(ctx context.Context, ownerID string, course *models.Course) (*models.Course, error)
	Update(ctx context.Context, ownerID, id string, changes models.CourseChanges) (*models.Course, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// CourseService implements course list and mutation operations. Every
// successful mutation re-reads the owner's full collection so the cached
// view never drifts from the store.
type CourseService struct {
	store CourseStore
	views *view.Registry[models.Course]
}

// NewCourseService creates a new CourseService.
func NewCourseService(store CourseStore) *CourseService {
	s := &CourseService{store: store}
	s.views = view.NewRegistry(store.ListByOwner)
	return s
}

// Views exposes the per-owner collection registry for sign-out teardown.
func (s *CourseService) Views() *view.Registry[models.Course] {
	return s.views
}

// List returns the owner's current course collection, fetching it on first
// access.
func (s *CourseService) List(ctx context.Context, ownerID string) ([]models.Course, error) {
	collection := s.views.ForOwner(ownerID)
	if collection.State() == view.StateLoading {
		if err := collection.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return collection.Items()
}

// Get returns one course owned by ownerID.
func (s *CourseService) Get(ctx context.Context, ownerID, id string) (*models.Course, error) {
	return s.store.GetByID(ctx, ownerID, id)
}

// Create validates and persists a new course. Validation failures never
// reach the store.
func (s *CourseService) Create(ctx context.Context, ownerID string, course *models.Course) (*models.Course, error) {
	if err := validation.CheckCourse(course); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, ownerID, course)
	if err != nil {
		return nil, err
	}

	if err := s.views.ForOwner(ownerID).Refresh(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Update validates and applies a partial edit. An empty change set is a
// no-op that still answers with the current row.
func (s *CourseService) Update(ctx context.Context, ownerID, id string, changes models.CourseChanges) (*models.Course, error) {
	if err := validation.CheckCourseChanges(changes); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, ownerID, id, changes)
	if err != nil {
		return nil, err
	}

	if err := s.views.ForOwner(ownerID).Refresh(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a course owned by ownerID.
func (s *CourseService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	return s.views.ForOwner(ownerID).Refresh(ctx)
}
