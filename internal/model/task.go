package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is the lifecycle state of a task.
// Allowed transitions: OPEN -> IN_PROGRESS -> DONE, plus OPEN -> DONE.
// DONE is terminal and nothing moves back to OPEN.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task represents a single item owned by exactly one user.
// Ownership is fixed at creation and never transferred.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `gorm:"default:1" json:"priority"`
	DueDate     time.Time  `json:"dueDate"`
	Status      TaskStatus `gorm:"size:16;default:OPEN" json:"status"`
	OwnerID     string     `gorm:"index;size:36" json:"-"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
