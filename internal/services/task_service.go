package services

import (
	"context"
	"strings"

	"github.com/yukikurage/user-task-api/internal/dto"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"github.com/yukikurage/user-task-api/internal/repository"
	"github.com/yukikurage/user-task-api/internal/utils"
)

const (
	MsgUserIDRequired      = repository.MsgUserIDRequired
	MsgTaskIDRequired      = "Código de Tarea es requerido"
	MsgTitleRequired       = "El título de la tarea es requerido"
	MsgDescriptionRequired = "La descripción de la tarea es requerido"
	MsgTitleEmpty          = "El título de la tarea no puede ir vacío"
	MsgDescriptionEmpty    = "La descripción de la tarea no puede ir vacío"
	MsgTaskIDMissing       = "No encontré el Id de la tarea, favor verificar"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	UserID      string
}

// UpdateTaskInput represents a partial task update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// GetUserTasks returns one page of a user's tasks, newest first
func (s *TaskService) GetUserTasks(ctx context.Context, userID, skip, top string) ([]models.Task, error) {
	if userID == "" {
		return nil, apierrors.Validation(MsgUserIDRequired)
	}
	return s.taskRepo.FindByUserID(ctx, userID, skip, top)
}

// GetUserTasksCount returns the number of tasks a user owns
func (s *TaskService) GetUserTasksCount(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, apierrors.Validation(MsgUserIDRequired)
	}
	return s.taskRepo.CountByUserID(ctx, userID)
}

// GetTask returns a task, or nil if it does not exist
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	if taskID == "" {
		return nil, apierrors.Validation(MsgTaskIDRequired)
	}
	return s.taskRepo.FindByID(ctx, taskID)
}

// CreateTask validates and stores a new task. Fields are checked in the order
// title, description, userId and the first missing one is reported.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierrors.Validation(MsgTitleRequired)
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apierrors.Validation(MsgDescriptionRequired)
	}

	if input.UserID == "" {
		return nil, apierrors.Validation(MsgUserIDRequired)
	}

	return s.taskRepo.Create(ctx, repository.NewTask{
		Title:       title,
		Description: description,
		UserID:      input.UserID,
	})
}

// UpdateTask applies a partial update. Provided title and description are
// trimmed and must not end up empty; completed passes through as given.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if taskID == "" {
		return nil, apierrors.Validation(MsgTaskIDMissing)
	}

	var update repository.TaskUpdate

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apierrors.Validation(MsgTitleEmpty)
		}
		update.Title = &title
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apierrors.Validation(MsgDescriptionEmpty)
		}
		update.Description = &description
	}

	if input.Completed != nil {
		completed := *input.Completed
		update.Completed = &completed
	}

	return s.taskRepo.Update(ctx, taskID, update)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	return s.taskRepo.Delete(ctx, taskID)
}

// FormatTasksResponse projects tasks to their public shape
func (s *TaskService) FormatTasksResponse(tasks []models.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, s.FormatTaskResponse(task))
	}
	return out
}

// FormatTaskResponse projects a task to its public shape with ISO-8601 dates
func (s *TaskService) FormatTaskResponse(task models.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   utils.NormalizeTimestamp(task.CreatedAt),
		UpdatedAt:   utils.NormalizeTimestamp(task.UpdatedAt),
		UserID:      task.UserID,
	}
}
