package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/constants"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/repository"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/utils"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidTaskID      = errors.New("invalid task id")
	ErrTitleRequired      = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title is too long")
	ErrDescriptionTooLong = errors.New("description is too long")
	ErrAssigneeTooLong    = errors.New("assignee is too long")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrNoFields           = errors.New("no updatable fields supplied")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status *models.TaskStatus
	Limit  int
	Offset int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	AssignedTo  string
	CreatedBy   string
}

// UpdateTaskInput represents a partial update. Nil pointers mean the field
// was not supplied; supplied fields are applied as-is after validation.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	AssignedTo  *string
}

// Empty reports whether no updatable field was supplied.
func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil && in.AssignedTo == nil
}

// ListTasks returns tasks ordered most recent first
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask validates the input and persists a new task. Status defaults to
// pending; a task created directly as completed gets its completion stamp.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := utils.SanitizeText(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	description := utils.SanitizeText(input.Description)
	if len(description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	assignedTo := utils.SanitizeText(input.AssignedTo)
	if len(assignedTo) > constants.MaxAssigneeLength {
		return nil, ErrAssigneeTooLong
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      status,
		AssignedTo:  assignedTo,
		CreatedBy:   input.CreatedBy,
	}
	if status == models.TaskStatusCompleted {
		now := s.now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task by id
func (s *TaskService) GetTask(id string) (*models.Task, error) {
	if !utils.IsObjectID(id) {
		return nil, ErrInvalidTaskID
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update. Setting status to completed stamps
// completedAt; setting any other status clears it. Both travel in the same
// write as the status, keeping the invariant transactional.
func (s *TaskService) UpdateTask(id string, input UpdateTaskInput) (*models.Task, error) {
	if !utils.IsObjectID(id) {
		return nil, ErrInvalidTaskID
	}
	if input.Empty() {
		return nil, ErrNoFields
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := utils.SanitizeText(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if len(title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		task.Title = title
	}
	if input.Description != nil {
		description := utils.SanitizeText(*input.Description)
		if len(description) > constants.MaxDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		task.Description = description
	}
	if input.AssignedTo != nil {
		assignedTo := utils.SanitizeText(*input.AssignedTo)
		if len(assignedTo) > constants.MaxAssigneeLength {
			return nil, ErrAssigneeTooLong
		}
		task.AssignedTo = assignedTo
	}
	if input.Status != nil {
		status := *input.Status
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		if status == models.TaskStatusCompleted {
			if task.Status != models.TaskStatusCompleted {
				now := s.now()
				task.CompletedAt = &now
			}
		} else {
			task.CompletedAt = nil
		}
		task.Status = status
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	// Read back the persisted row so callers observe their own write.
	return s.taskRepo.FindByID(id)
}

// DeleteTask removes a task and returns its pre-delete snapshot so clients
// can offer undo/display affordances.
func (s *TaskService) DeleteTask(id string) (*models.Task, error) {
	if !utils.IsObjectID(id) {
		return nil, ErrInvalidTaskID
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}
