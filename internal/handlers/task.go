package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/aoigj100a/todo-fullstack-sub000/internal/errors"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/middleware"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks, most recent first. Optional status, limit and
// offset query parameters narrow the result.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		input.Limit = limit
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			apierrors.BadRequest(c, "Invalid offset")
			return
		}
		input.Offset = offset
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	apierrors.OK(c, http.StatusOK, tasks)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Status      string `json:"status"`
		AssignedTo  string `json:"assignedTo"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		AssignedTo:  req.AssignedTo,
		CreatedBy:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.OK(c, http.StatusCreated, task)
}

// UpdateTask applies a partial update. The raw JSON is inspected so that
// only supplied fields change; unknown fields are ignored.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{}
	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok {
			apierrors.BadRequest(c, "title must be a string")
			return
		}
		input.Title = &titleStr
	}
	if description, ok := rawReq["description"]; ok {
		descStr, ok := description.(string)
		if !ok {
			apierrors.BadRequest(c, "description must be a string")
			return
		}
		input.Description = &descStr
	}
	if status, ok := rawReq["status"]; ok {
		statusStr, ok := status.(string)
		if !ok {
			apierrors.BadRequest(c, "status must be a string")
			return
		}
		s := models.TaskStatus(statusStr)
		input.Status = &s
	}
	if assignedTo, ok := rawReq["assignedTo"]; ok {
		// assignedTo may be null to clear the assignee
		if assignedTo == nil {
			empty := ""
			input.AssignedTo = &empty
		} else if assignedStr, ok := assignedTo.(string); ok {
			input.AssignedTo = &assignedStr
		} else {
			apierrors.BadRequest(c, "assignedTo must be a string")
			return
		}
	}

	task, err := h.taskService.UpdateTask(c.Param("id"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.OK(c, http.StatusOK, task)
}

// DeleteTask removes a task and returns its pre-delete snapshot.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, err := h.taskService.DeleteTask(c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.OK(c, http.StatusOK, task)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTaskID),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrAssigneeTooLong),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNoFields):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, err)
	}
}
