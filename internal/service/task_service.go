package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/notify"
	"taskboard/internal/repository"
)

// Broadcast event names.
const (
	EventTaskCreated = "task-created"
	EventTaskUpdated = "task-updated"
	EventTaskDeleted = "task-deleted"
	EventTaskDue     = "task-due"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    int
	DueDate     time.Time
}

// TaskPatch is a partial update. Empty strings, zero priority and a nil due
// date leave the existing field untouched, so an explicit request to clear a
// field is silently ignored. Known quirk, kept on purpose.
type TaskPatch struct {
	Title       string
	Description string
	Priority    int
	DueDate     *time.Time
}

// TaskService wraps task business rules: field validation, the status state
// machine, ownership scoping and event publication after every mutation.
type TaskService struct {
	tasks    *repository.TaskRepository
	notifier notify.Notifier
	now      func() time.Time
}

func NewTaskService(tasks *repository.TaskRepository, notifier notify.Notifier) *TaskService {
	return &TaskService{tasks: tasks, notifier: notifier, now: time.Now}
}

// List returns tasks matching the filter ordered by priority descending,
// due date ascending, creation time descending. Owners come back with the
// password hash stripped.
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for i := range tasks {
		sanitizeOwner(&tasks[i])
	}
	return tasks, nil
}

// Get fetches a single task by id. Reads are not scoped to the caller: any
// authenticated user may fetch any task.
func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	sanitizeOwner(task)
	return task, nil
}

// Create persists a new task owned by ownerID. Status is always OPEN
// regardless of input, and the due date must not be in the past.
func (s *TaskService) Create(ctx context.Context, ownerID string, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if input.Priority < 1 {
		return nil, fmt.Errorf("%w: priority must be at least 1", ErrInvalidInput)
	}
	if input.DueDate.Before(s.now()) {
		return nil, ErrDueDateInPast
	}

	task := model.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Status:      model.StatusOpen,
		OwnerID:     ownerID,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}

	created, err := s.reload(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("[info] task created id=%s owner=%s", created.ID, ownerID)
	s.notifier.Publish(EventTaskCreated, created)
	return created, nil
}

// Update applies a partial patch to a task owned by callerID. A task owned
// by someone else yields ErrTaskNotFound. A patched due date is re-validated
// against the current instant; on failure nothing is written.
func (s *TaskService) Update(ctx context.Context, id, callerID string, patch TaskPatch) (*model.Task, error) {
	task, err := s.tasks.FindOwned(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	if patch.DueDate != nil && patch.DueDate.Before(s.now()) {
		return nil, ErrDueDateInPast
	}

	if patch.Title != "" {
		task.Title = patch.Title
	}
	if patch.Description != "" {
		task.Description = patch.Description
	}
	if patch.Priority > 0 {
		task.Priority = patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	updated, err := s.reload(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("[info] task updated id=%s owner=%s", updated.ID, callerID)
	s.notifier.Publish(EventTaskUpdated, updated)
	return updated, nil
}

// UpdateStatus advances the task through the status state machine:
// OPEN -> IN_PROGRESS -> DONE, plus the direct OPEN -> DONE shortcut.
// Requesting the current status again, leaving DONE, or regressing from
// IN_PROGRESS to OPEN all fail.
func (s *TaskService) UpdateStatus(ctx context.Context, id, callerID string, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	task, err := s.tasks.FindOwned(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	switch {
	case task.Status == status:
		return nil, ErrSameStatus
	case task.Status == model.StatusDone:
		return nil, ErrTaskCompleted
	case task.Status == model.StatusInProgress && status == model.StatusOpen:
		return nil, ErrTaskInProgress
	}

	task.Status = status
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	updated, err := s.reload(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("[info] task status changed id=%s owner=%s status=%s", updated.ID, callerID, status)
	s.notifier.Publish(EventTaskUpdated, updated)
	return updated, nil
}

// Delete removes a task owned by callerID and returns the removed record.
// No match, including a task that belongs to another owner, yields
// ErrTaskNotFound.
func (s *TaskService) Delete(ctx context.Context, id, callerID string) (*model.Task, error) {
	task, err := s.tasks.DeleteOwned(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	sanitizeOwner(task)

	log.Printf("[info] task deleted id=%s owner=%s", task.ID, callerID)
	s.notifier.Publish(EventTaskDeleted, task)
	return task, nil
}

// reload re-fetches a task with its owner populated and sanitized.
func (s *TaskService) reload(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload task: %w", err)
	}
	sanitizeOwner(task)
	return task, nil
}

func sanitizeOwner(task *model.Task) {
	if task.Owner != nil {
		owner := task.Owner.Sanitized()
		task.Owner = &owner
	}
}
