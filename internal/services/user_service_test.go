package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"github.com/yukikurage/user-task-api/internal/repository"
)

var ctxAny = mock.Anything

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "x+tag@sub.domain.org"}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{"", "plain", "no-at.example.com", "a@b", "a @b.co", "a@b .co", "a@@b.co", "@b.co"}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestUserService_FindOrCreateUser_InvalidEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	_, err := svc.FindOrCreateUser(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.True(t, apierrors.IsKind(err, apierrors.KindValidation))
	assert.Equal(t, MsgInvalidEmail, err.Error())
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestUserService_FindOrCreateUser_New(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	created := &models.User{ID: "u-1", Email: "new@example.com"}
	repo.On("FindByEmail", ctxAny, "new@example.com").Return(nil, nil).Once()
	repo.On("Create", ctxAny, "new@example.com").Return(created, nil).Once()

	result, err := svc.FindOrCreateUser(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Equal(t, created, result.User)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
}

func TestUserService_FindOrCreateUser_Existing(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.User{ID: "u-1", Email: "old@example.com", LastLogin: before}
	refreshed := &models.User{ID: "u-1", Email: "old@example.com", LastLogin: before.Add(time.Hour)}

	repo.On("FindByEmail", ctxAny, "old@example.com").Return(existing, nil).Once()
	repo.On("UpdateLastLogin", ctxAny, "u-1").Return(nil).Once()
	repo.On("FindByID", ctxAny, "u-1").Return(refreshed, nil).Once()

	result, err := svc.FindOrCreateUser(context.Background(), "old@example.com")
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, refreshed.LastLogin, result.User.LastLogin)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_FindOrCreateUser_LostRace(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	winner := &models.User{ID: "u-9", Email: "race@example.com"}
	repo.On("FindByEmail", ctxAny, "race@example.com").Return(nil, nil).Once()
	repo.On("Create", ctxAny, "race@example.com").
		Return(nil, apierrors.Storage(repository.MsgCreateUser, repository.ErrDuplicateEmail)).Once()
	repo.On("FindByEmail", ctxAny, "race@example.com").Return(winner, nil).Once()
	repo.On("UpdateLastLogin", ctxAny, "u-9").Return(nil).Once()
	repo.On("FindByID", ctxAny, "u-9").Return(winner, nil).Once()

	result, err := svc.FindOrCreateUser(context.Background(), "race@example.com")
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, "u-9", result.User.ID)
	repo.AssertExpectations(t)
}

func TestUserService_FindOrCreateUser_StorageFailures(t *testing.T) {
	cause := errors.New("backend down")

	t.Run("lookup", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)
		repo.On("FindByEmail", ctxAny, "a@b.co").Return(nil, apierrors.Storage(repository.MsgFindUserByEmail, cause))

		_, err := svc.FindOrCreateUser(context.Background(), "a@b.co")
		require.Error(t, err)
		assert.Equal(t, repository.MsgFindUserByEmail, err.Error())
	})

	t.Run("create", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)
		repo.On("FindByEmail", ctxAny, "a@b.co").Return(nil, nil)
		repo.On("Create", ctxAny, "a@b.co").Return(nil, apierrors.Storage(repository.MsgCreateUser, cause))

		_, err := svc.FindOrCreateUser(context.Background(), "a@b.co")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, repository.MsgCreateUser, err.Error())
	})

	t.Run("update last login", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)
		repo.On("FindByEmail", ctxAny, "a@b.co").Return(&models.User{ID: "u-1"}, nil)
		repo.On("UpdateLastLogin", ctxAny, "u-1").Return(apierrors.Storage(repository.MsgUpdateUser, cause))

		_, err := svc.FindOrCreateUser(context.Background(), "a@b.co")
		require.Error(t, err)
		assert.Equal(t, repository.MsgUpdateUser, err.Error())
	})
}

func TestUserService_CheckUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByEmail", ctxAny, "known@example.com").Return(&models.User{ID: "u-1"}, nil)
	repo.On("FindByEmail", ctxAny, "unknown@example.com").Return(nil, nil)

	exists, err := svc.CheckUser(context.Background(), "known@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckUser(context.Background(), "unknown@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.CheckUser(context.Background(), "bad email@x.co")
	require.Error(t, err)
	assert.Equal(t, MsgInvalidEmail, err.Error())

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
}

func TestUserService_FormatUserResponse(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))
	user := &models.User{
		ID:        "u-1",
		Email:     "a@b.co",
		CreatedAt: time.Unix(1700000000, 0),
	}

	resp := svc.FormatUserResponse(user, true, "token-value")
	assert.Equal(t, "u-1", resp.ID)
	assert.Equal(t, "a@b.co", resp.Email)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", resp.CreatedAt)
	assert.True(t, resp.Exists)
	assert.Equal(t, "token-value", resp.Token)
}
