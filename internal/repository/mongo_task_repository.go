package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/user-task-api/internal/database"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"github.com/yukikurage/user-task-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	UserID      string             `bson:"userId"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toModel() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		UserID:      d.UserID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	coll *mongo.Collection
	now  Clock
}

// NewMongoTaskRepository creates a TaskRepository backed by db's Tasks collection
func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection(database.TasksCollection), now: systemClock}
}

// CountByUserID counts the tasks owned by userID
func (r *MongoTaskRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, countError(apierrors.Validation(MsgUserIDRequired))
	}

	count, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, countError(err)
	}
	return count, nil
}

// FindByUserID lists userID's tasks ordered by creation time, newest first
func (r *MongoTaskRepository) FindByUserID(ctx context.Context, userID, skip, top string) ([]models.Task, error) {
	page, err := utils.ParsePagination(skip, top)
	if err != nil {
		return nil, apierrors.Storage(MsgFindUserTasks, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Skip)).
		SetLimit(int64(page.Top))

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, apierrors.Storage(MsgFindUserTasks, err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apierrors.Storage(MsgFindUserTasks, err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}
	return tasks, nil
}

// FindByID finds a task by its hex ObjectID. Malformed ids are treated as absent.
func (r *MongoTaskRepository) FindByID(ctx context.Context, taskID string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, nil
	}

	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apierrors.Storage(MsgFindTask, err)
	}
	task := doc.toModel()
	return &task, nil
}

// Create inserts a new task
func (r *MongoTaskRepository) Create(ctx context.Context, input NewTask) (*models.Task, error) {
	now := stamp(r.now)
	doc := taskDocument{
		Title:       input.Title,
		Description: input.Description,
		UserID:      input.UserID,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, apierrors.Storage(MsgCreateTask, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, apierrors.Storage(MsgCreateTask, errors.New("unexpected inserted id type"))
	}
	doc.ID = oid
	task := doc.toModel()
	return &task, nil
}

// Update applies the non-nil fields of update and re-reads the task
func (r *MongoTaskRepository) Update(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, error) {
	if oid, err := primitive.ObjectIDFromHex(taskID); err == nil {
		set := bson.M{"updatedAt": stamp(r.now)}
		if update.Title != nil {
			set["title"] = *update.Title
		}
		if update.Description != nil {
			set["description"] = *update.Description
		}
		if update.Completed != nil {
			set["completed"] = *update.Completed
		}

		if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
			return nil, apierrors.Storage(MsgUpdateTask, err)
		}
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

// Delete removes a task
func (r *MongoTaskRepository) Delete(ctx context.Context, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil
	}

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return apierrors.Storage(MsgDeleteTask, err)
	}
	return nil
}
