package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/user-task-api/internal/dto"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/metrics"
	"github.com/yukikurage/user-task-api/internal/services"
)

const (
	MsgSuccess          = "Éxito"
	MsgTaskNotFound     = "Tarea no encontrado, favor verificar"
	MsgTaskCreated      = "Tarea creada correctamente"
	MsgTaskUpdated      = "Tarea actualizada correctamente"
	MsgTaskDeleted      = "Tarea eliminada correctamente"
	MsgUserIDMissing    = "Código de usuario no encontrado, favor verificar"
	MsgTaskIDNotFound   = "Código de Tarea no encontrado, favor verificar"
	MsgTaskIDNotPresent = services.MsgTaskIDMissing

	defaultSkip = "0"
	defaultTop  = "20"
)

// TaskHandler serves the task endpoints
type TaskHandler struct {
	taskService *services.TaskService
	metrics     metrics.Recorder
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, recorder metrics.Recorder) *TaskHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &TaskHandler{
		taskService: taskService,
		metrics:     recorder,
	}
}

// ListUserTasks returns one page of a user's tasks with the user's total task count
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeTasks, MsgUserIDMissing)
		return
	}

	skip := c.Param("skip")
	if skip == "" {
		skip = defaultSkip
	}
	top := c.Param("top")
	if top == "" {
		top = defaultTop
	}

	ctx := c.Request.Context()
	tasks, err := h.taskService.GetUserTasks(ctx, userID, skip, top)
	if err != nil {
		respondError(c, apierrors.ErrCodeTasks, err)
		return
	}

	count, err := h.taskService.GetUserTasksCount(ctx, userID)
	if err != nil {
		respondError(c, apierrors.ErrCodeTasks, err)
		return
	}

	respondOK(c, http.StatusOK, dto.TaskListData{
		Tasks: h.taskService.FormatTasksResponse(tasks),
		Count: count,
	})
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeTasks, MsgTaskIDNotFound)
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, apierrors.ErrCodeTasks, err)
		return
	}
	if task == nil {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeTasks, MsgTaskNotFound)
		return
	}

	respondOK(c, http.StatusOK, dto.TaskEnvelopeData{
		Task:    h.taskService.FormatTaskResponse(*task),
		Message: MsgSuccess,
	})
}

// CreateTask creates a task for the userId given in the body
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeTask, apierrors.MsgInvalidBody)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
	})
	if err != nil {
		respondError(c, apierrors.ErrCodeTask, err)
		return
	}
	h.metrics.RecordTaskCreated()

	respondOK(c, http.StatusCreated, dto.TaskEnvelopeData{
		Task:    h.taskService.FormatTaskResponse(*task),
		Message: MsgTaskCreated,
	})
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeTask, MsgTaskIDNotPresent)
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeTask, apierrors.MsgInvalidBody)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		respondError(c, apierrors.ErrCodeTask, err)
		return
	}

	respondOK(c, http.StatusOK, dto.TaskEnvelopeData{
		Task:    h.taskService.FormatTaskResponse(*task),
		Message: MsgTaskUpdated,
	})
}

// DeleteTask deletes a task. Deleting a missing task succeeds.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeTask, MsgTaskIDNotPresent)
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondError(c, apierrors.ErrCodeTask, err)
		return
	}

	respondOK(c, http.StatusOK, dto.MessageData{Message: MsgTaskDeleted})
}
