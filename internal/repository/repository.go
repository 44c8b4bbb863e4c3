package repository

import (
	"context"
	"errors"
	"time"

	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
)

// Client-facing messages for storage failures
const (
	MsgFindUserByEmail = "Error al buscar el usuario por medio de su correo electrónico"
	MsgFindUser        = "Error al buscar el usuario"
	MsgCreateUser      = "Error al crear el usuario"
	MsgUpdateUser      = "Error al actualizar el usuario"
	MsgCountTasks      = "Ocurrió un error al obtener el conteo de tareas del usuario"
	MsgFindUserTasks   = "Ocurrió un error al momento de buscar las tareas del usuario"
	MsgFindTask        = "Error al buscar la tarea"
	MsgCreateTask      = "Error al crear la tarea"
	MsgUpdateTask      = "Error al actualizar la tarea"
	MsgTaskNotFound    = "Tarea no encontrada"
	MsgDeleteTask      = "Ocurrió un error al eliminar la tarea"
	MsgUserIDRequired  = "Código de usuario es requerido"
)

var (
	// ErrDuplicateEmail is returned (wrapped) by UserRepository.Create when the
	// normalized email is already registered.
	ErrDuplicateEmail = errors.New("user repository: email already registered")
	// ErrUserNotFound is the cause attached when a user update matches no record.
	ErrUserNotFound = errors.New("user repository: user not found")
)

// Clock returns the current time; repositories stamp records with it.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}

// stamp normalizes a clock reading to the precision every backend can store.
func stamp(c Clock) time.Time {
	return c().UTC().Truncate(time.Millisecond)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByEmail finds a user by lower-cased email; returns nil when absent
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID finds a user by id; returns nil when absent
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Create inserts a user keyed by its normalized email
	Create(ctx context.Context, email string) (*models.User, error)

	// UpdateLastLogin sets lastLogin to the current time
	UpdateLastLogin(ctx context.Context, id string) error
}

// NewTask holds the validated fields of a task to create
type NewTask struct {
	Title       string
	Description string
	UserID      string
}

// TaskUpdate holds a partial task update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CountByUserID counts the tasks owned by a user
	CountByUserID(ctx context.Context, userID string) (int64, error)

	// FindByUserID lists a user's tasks, newest first, paginated by skip/top
	FindByUserID(ctx context.Context, userID, skip, top string) ([]models.Task, error)

	// FindByID finds a task by id; returns nil when absent
	FindByID(ctx context.Context, taskID string) (*models.Task, error)

	// Create inserts a new, not yet completed task
	Create(ctx context.Context, input NewTask) (*models.Task, error)

	// Update merges a partial update and returns the stored task
	Update(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, error)

	// Delete removes a task; deleting a missing task is not an error
	Delete(ctx context.Context, taskID string) error
}

// countError keeps a missing-userId precondition visible to callers and hides
// every other failure behind the generic count message.
func countError(err error) error {
	if apierrors.IsKind(err, apierrors.KindValidation) {
		return err
	}
	return apierrors.Storage(MsgCountTasks, err)
}
