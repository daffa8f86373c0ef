package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks ordered most recent first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	query := r.db.Model(&models.Task{}).Order("created_at DESC")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists the task. Status and completed_at travel in the same
// write, which is what keeps the status/timestamp invariant transactional.
func (r *GormTaskRepository) Update(task *models.Task) error {
	// Save alone skips nil pointer fields on struct updates in some GORM
	// paths; Select forces completed_at to be written even when cleared.
	return r.db.Model(task).
		Select("title", "description", "status", "assigned_to", "completed_at", "updated_at").
		Updates(map[string]any{
			"title":        task.Title,
			"description":  task.Description,
			"status":       task.Status,
			"assigned_to":  task.AssignedTo,
			"completed_at": task.CompletedAt,
			"updated_at":   time.Now(),
		}).Error
}

// Delete removes a task permanently
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Task{}).Error
}

// CountByStatus counts tasks grouped by status
func (r *GormTaskRepository) CountByStatus() (map[models.TaskStatus]int64, error) {
	type row struct {
		Status models.TaskStatus
		Count  int64
	}
	var rows []row

	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// CompletionSpans returns creation/completion pairs of completed tasks
// within the optional inclusive range.
func (r *GormTaskRepository) CompletionSpans(from, to *time.Time) ([]CompletionSpan, error) {
	spans := []CompletionSpan{}

	query := r.db.Model(&models.Task{}).
		Select("created_at, completed_at").
		Where("status = ?", models.TaskStatusCompleted).
		Where("completed_at IS NOT NULL")

	if from != nil {
		query = query.Where("completed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("completed_at <= ?", *to)
	}

	if err := query.Order("completed_at ASC").Scan(&spans).Error; err != nil {
		return nil, err
	}
	return spans, nil
}

// CreatedTimesBetween returns creation instants of tasks created in [from, to]
func (r *GormTaskRepository) CreatedTimesBetween(from, to time.Time) ([]time.Time, error) {
	times := []time.Time{}
	err := r.db.Model(&models.Task{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// CountCreatedSince counts tasks created at or after t
func (r *GormTaskRepository) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("created_at >= ?", t).
		Count(&count).Error
	return count, err
}

// CountCompletedSince counts tasks completed at or after t
func (r *GormTaskRepository) CountCompletedSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("status = ?", models.TaskStatusCompleted).
		Where("completed_at >= ?", t).
		Count(&count).Error
	return count, err
}
