package services

import (
	"context"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/app/view"
	"github.com/anandr/kuliahku/internal/pkg/validation"
)

// TaskStore is the persistence surface the task service needs.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Task, error)
	Create(ctx context.Context, ownerID string, task *models.Task) (*models.Task, error)
	Update(ctx context.Context, ownerID, id string, changes models.TaskChanges) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// TaskService implements task list and mutation operations with the same
// refresh-after-mutation contract as courses.
type TaskService struct {
	store TaskStore
	views *view.Registry[models.Task]
}

// NewTaskService creates a new TaskService.
func NewTaskService(store TaskStore) *TaskService {
	s := &TaskService{store: store}
	s.views = view.NewRegistry(store.ListByOwner)
	return s
}

// Views exposes the per-owner collection registry for sign-out teardown.
func (s *TaskService) Views() *view.Registry[models.Task] {
	return s.views
}

// List returns the owner's current task collection ordered by deadline,
// fetching it on first access.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	collection := s.views.ForOwner(ownerID)
	if collection.State() == view.StateLoading {
		if err := collection.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return collection.Items()
}

// Get returns one task owned by ownerID, joined to its course name.
func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	return s.store.GetByID(ctx, ownerID, id)
}

// Create validates and persists a new task.
func (s *TaskService) Create(ctx context.Context, ownerID string, task *models.Task) (*models.Task, error) {
	if err := validation.CheckTask(task); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, ownerID, task)
	if err != nil {
		return nil, err
	}

	if err := s.views.ForOwner(ownerID).Refresh(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Update validates and applies a partial edit. The owning course is fixed
// at creation; the change set cannot move a task between courses.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, changes models.TaskChanges) (*models.Task, error) {
	if err := validation.CheckTaskChanges(changes); err != nil {
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

// Delete removes a task owned by ownerID.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	return s.views.ForOwner(ownerID).Refresh(ctx)
}
