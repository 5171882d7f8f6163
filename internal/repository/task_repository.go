package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskFilter narrows List results. Zero values mean "no constraint".
type TaskFilter struct {
	OwnerID string
	Status  model.TaskStatus
	DueFrom *time.Time
}

// TaskRepository handles persistence for tasks. Every mutation that must be
// owner-scoped bakes the owner predicate into the query itself.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// List returns tasks matching the filter, most urgent first: priority
// descending, then due date ascending, then newest created.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Preload("Owner")
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DueFrom != nil {
		q = q.Where("due_date >= ?", *filter.DueFrom)
	}

	var tasks []model.Task
	if err := q.Order("priority DESC, due_date ASC, created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID fetches a task by id only, owner preloaded. Reads are not scoped
// to the caller.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindOwned fetches a task constrained to both id and owner. A task owned by
// someone else is indistinguishable from a missing one.
func (r *TaskRepository) FindOwned(ctx context.Context, ownerID, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// DeleteOwned removes the task scoped to owner and returns the removed
// record. Lookup and delete run in one transaction so the returned task is
// the row that was actually removed.
func (r *TaskRepository) DeleteOwned(ctx context.Context, ownerID, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Owner").Where("owner_id = ? AND id = ?", ownerID, id).First(&task).Error; err != nil {
			return err
		}
		return tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.Task{}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return &task, nil
}

// ListDueBefore returns unfinished tasks whose due date is at or before the
// given instant, owners preloaded. Used by the reminder sweep.
func (r *TaskRepository) ListDueBefore(ctx context.Context, until time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Owner").
		Where("status <> ? AND due_date <= ?", model.StatusDone, until).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
