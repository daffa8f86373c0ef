package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/utils"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the three known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          string     `gorm:"type:char(24);primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedTo  string     `gorm:"type:varchar(100)" json:"assignedTo"`
	CreatedBy   string     `gorm:"type:char(24);index" json:"createdBy"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `gorm:"index" json:"completedAt"`
}

// BeforeCreate assigns a document-store style 24-hex identifier.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		id, err := utils.NewObjectID()
		if err != nil {
			return err
		}
		t.ID = id
	}
	return nil
}
