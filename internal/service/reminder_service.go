package service

import (
	"context"
	"log"
	"time"

	"taskboard/internal/notify"
	"taskboard/internal/repository"
)

// ReminderService periodically publishes a task-due event for every
// unfinished task whose due date falls within the window or has passed.
// Best effort, same as every other notification.
type ReminderService struct {
	tasks    *repository.TaskRepository
	notifier notify.Notifier
	window   time.Duration
}

func NewReminderService(tasks *repository.TaskRepository, notifier notify.Notifier, window time.Duration) *ReminderService {
	return &ReminderService{tasks: tasks, notifier: notifier, window: window}
}

// Sweep finds tasks due before now+window and publishes one event per task.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) error {
	tasks, err := s.tasks.ListDueBefore(ctx, now.Add(s.window))
	if err != nil {
		return err
	}

	for i := range tasks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sanitizeOwner(&tasks[i])
		s.notifier.Publish(EventTaskDue, &tasks[i])
	}

	if len(tasks) > 0 {
		log.Printf("[info] reminder sweep published %d task-due events", len(tasks))
	}
	return nil
}
