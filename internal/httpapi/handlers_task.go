package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

type createTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Priority    int       `json:"priority" binding:"required,min=1"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
}

type updateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority" binding:"omitempty,min=1"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN IN_PROGRESS DONE"`
}

type listTasksQuery struct {
	Status  string     `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	DueDate *time.Time `form:"dueDate" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ListTasks returns all tasks matching the optional status/dueDate filters.
func (h *Handlers) ListTasks(c *gin.Context) {
	h.listTasks(c, "")
}

// ListOwnTasks returns the caller's tasks.
func (h *Handlers) ListOwnTasks(c *gin.Context) {
	h.listTasks(c, CurrentUser(c).ID)
}

// ListUserTasks returns the tasks owned by the user in the path.
func (h *Handlers) ListUserTasks(c *gin.Context) {
	h.listTasks(c, c.Param("id"))
}

func (h *Handlers) listTasks(c *gin.Context, ownerID string) {
	var query listTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, 422, bindingMessage(err))
		return
	}

	filter := repository.TaskFilter{
		OwnerID: ownerID,
		Status:  model.TaskStatus(query.Status),
		DueFrom: query.DueDate,
	}
	tasks, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, 200, "Tasks fetched successfully", tasks)
}

// GetTask returns a single task by id. Not scoped to the caller.
func (h *Handlers) GetTask(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, 200, "Task fetched successfully", task)
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 422, bindingMessage(err))
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), CurrentUser(c).ID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, 201, "Task created successfully", task)
}

// UpdateTask applies a partial update to a task owned by the caller.
func (h *Handlers) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 422, bindingMessage(err))
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), CurrentUser(c).ID, service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, 200, "Task updated successfully", task)
}

// UpdateTaskStatus moves a task through the status state machine.
func (h *Handlers) UpdateTaskStatus(c *gin.Context) {
	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 422, bindingMessage(err))
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), c.Param("id"), CurrentUser(c).ID, model.TaskStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, 200, "Task status updated successfully", task)
}

// DeleteTask removes a task owned by the caller and returns it.
func (h *Handlers) DeleteTask(c *gin.Context) {
	task, err := h.tasks.Delete(c.Request.Context(), c.Param("id"), CurrentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, 200, "Task deleted successfully", task)
}
