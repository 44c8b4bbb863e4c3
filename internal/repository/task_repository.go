package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/user-task-api/internal/database"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"github.com/yukikurage/user-task-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db  *gorm.DB
	now Clock
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db, now: systemClock}
}

// CountByUserID counts the tasks owned by userID
func (r *GormTaskRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, countError(apierrors.Validation(MsgUserIDRequired))
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, countError(err)
	}
	return count, nil
}

// FindByUserID lists userID's tasks ordered by creation time, newest first
func (r *GormTaskRepository) FindByUserID(ctx context.Context, userID, skip, top string) ([]models.Task, error) {
	page, err := utils.ParsePagination(skip, top)
	if err != nil {
		return nil, apierrors.Storage(MsgFindUserTasks, err)
	}

	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(database.Paginate(page)).
		Find(&tasks).Error; err != nil {
		return nil, apierrors.Storage(MsgFindUserTasks, err)
	}
	return tasks, nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierrors.Storage(MsgFindTask, err)
	}
	return &task, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, input NewTask) (*models.Task, error) {
	now := stamp(r.now)
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		UserID:      input.UserID,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, apierrors.Storage(MsgCreateTask, err)
	}
	return task, nil
}

// Update applies the non-nil fields of update and re-reads the task
func (r *GormTaskRepository) Update(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, error) {
	changes := map[string]any{"updated_at": stamp(r.now)}
	if update.Title != nil {
		changes["title"] = *update.Title
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.Completed != nil {
		changes["completed"] = *update.Completed
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", taskID).
		Updates(changes).Error; err != nil {
		return nil, apierrors.Storage(MsgUpdateTask, err)
	}

	task, err := r.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apierrors.NotFound(MsgTaskNotFound)
	}
	return task, nil
}

// Delete hard deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, taskID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", taskID).Delete(&models.Task{}).Error; err != nil {
		return apierrors.Storage(MsgDeleteTask, err)
	}
	return nil
}
