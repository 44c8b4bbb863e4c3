package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/user-task-api/internal/database"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var mongoTestTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func namespace(mt *mtest.T, collection string) string {
	return mt.DB.Name() + "." + collection
}

func userDoc(id primitive.ObjectID, email string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: email},
		{Key: "createdAt", Value: mongoTestTime},
		{Key: "lastLogin", Value: mongoTestTime},
	}
}

func taskDoc(id primitive.ObjectID, title string, completed bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "description", Value: title + " description"},
		{Key: "completed", Value: completed},
		{Key: "userId", Value: "user-1"},
		{Key: "createdAt", Value: mongoTestTime},
		{Key: "updatedAt", Value: mongoTestTime},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by email hit", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, database.UsersCollection), mtest.FirstBatch,
			userDoc(id, "alice@example.com")))

		user, err := repo.FindByEmail(context.Background(), "Alice@Example.com")
		require.NoError(mt, err)
		require.NotNil(mt, user)
		assert.Equal(mt, id.Hex(), user.ID)
		assert.Equal(mt, "alice@example.com", user.Email)
		assert.True(mt, user.CreatedAt.Equal(mongoTestTime))
	})

	mt.Run("find by email miss", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, database.UsersCollection), mtest.FirstBatch))

		user, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		assert.NoError(mt, err)
		assert.Nil(mt, user)
	})

	mt.Run("find by email fault", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad value"}))

		_, err := repo.FindByEmail(context.Background(), "a@b.co")
		require.Error(mt, err)
		assert.True(mt, apierrors.IsKind(err, apierrors.KindStorage))
		assert.Equal(mt, MsgFindUserByEmail, err.Error())
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)

		user, err := repo.FindByID(context.Background(), "not-an-object-id")
		assert.NoError(mt, err)
		assert.Nil(mt, user)
	})

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		repo.now = func() time.Time { return mongoTestTime }
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user, err := repo.Create(context.Background(), "New@Example.com")
		require.NoError(mt, err)
		assert.Len(mt, user.ID, 24)
		assert.Equal(mt, "new@example.com", user.Email)
		assert.True(mt, user.CreatedAt.Equal(mongoTestTime))
		assert.True(mt, user.LastLogin.Equal(mongoTestTime))
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: tasks.Users index: idx_users_email",
		}))

		_, err := repo.Create(context.Background(), "dup@example.com")
		require.Error(mt, err)
		assert.ErrorIs(mt, err, ErrDuplicateEmail)
		assert.Equal(mt, MsgCreateUser, err.Error())
	})

	mt.Run("update last login", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.UpdateLastLogin(context.Background(), primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
	})

	mt.Run("update last login unknown user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdateLastLogin(context.Background(), primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.ErrorIs(mt, err, ErrUserNotFound)
		assert.Equal(mt, MsgUpdateUser, err.Error())
	})

	mt.Run("update last login malformed id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)

		err := repo.UpdateLastLogin(context.Background(), "bad")
		require.Error(mt, err)
		assert.True(mt, apierrors.IsKind(err, apierrors.KindStorage))
	})
}

func TestMongoTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("count", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, database.TasksCollection), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}}))

		count, err := repo.CountByUserID(context.Background(), "user-1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), count)
	})

	mt.Run("count empty user", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)

		_, err := repo.CountByUserID(context.Background(), "")
		require.Error(mt, err)
		assert.True(mt, apierrors.IsKind(err, apierrors.KindValidation))
		assert.Equal(mt, MsgUserIDRequired, err.Error())
	})

	mt.Run("count fault", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad value"}))

		_, err := repo.CountByUserID(context.Background(), "user-1")
		require.Error(mt, err)
		assert.Equal(mt, MsgCountTasks, err.Error())
	})

	mt.Run("find by user", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		newer, older := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, database.TasksCollection), mtest.FirstBatch,
			taskDoc(newer, "newer", false),
			taskDoc(older, "older", true),
		))

		tasks, err := repo.FindByUserID(context.Background(), "user-1", "0", "20")
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, newer.Hex(), tasks[0].ID)
		assert.Equal(mt, "older", tasks[1].Title)
		assert.True(mt, tasks[1].Completed)
	})

	mt.Run("find by user invalid page", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)

		_, err := repo.FindByUserID(context.Background(), "user-1", "0", "0")
		require.Error(mt, err)
		assert.True(mt, apierrors.IsKind(err, apierrors.KindStorage))
		assert.Equal(mt, MsgFindUserTasks, err.Error())
	})

	mt.Run("find by id miss", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, database.TasksCollection), mtest.FirstBatch))

		task, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
		assert.Nil(mt, task)
	})

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		repo.now = func() time.Time { return mongoTestTime }
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		task, err := repo.Create(context.Background(), NewTask{Title: "t", Description: "d", UserID: "user-1"})
		require.NoError(mt, err)
		assert.Len(mt, task.ID, 24)
		assert.False(mt, task.Completed)
		assert.True(mt, task.CreatedAt.Equal(task.UpdatedAt))
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, namespace(mt, database.TasksCollection), mtest.FirstBatch,
				taskDoc(id, "same title", true)),
		)

		completed := true
		task, err := repo.Update(context.Background(), id.Hex(), TaskUpdate{Completed: &completed})
		require.NoError(mt, err)
		assert.True(mt, task.Completed)
		assert.Equal(mt, "same title", task.Title)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, namespace(mt, database.TasksCollection), mtest.FirstBatch),
		)

		title := "x"
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), TaskUpdate{Title: &title})
		require.Error(mt, err)
		assert.True(mt, apierrors.IsKind(err, apierrors.KindNotFound))
		assert.Equal(mt, MsgTaskNotFound, err.Error())
	})

	mt.Run("update malformed id", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)

		title := "x"
		_, err := repo.Update(context.Background(), "bad", TaskUpdate{Title: &title})
		require.Error(mt, err)
		assert.True(mt, apierrors.IsKind(err, apierrors.KindNotFound))
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
		assert.NoError(mt, repo.Delete(context.Background(), "bad"))
	})

	mt.Run("delete fault", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad value"}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.Equal(mt, MsgDeleteTask, err.Error())
	})
}
