package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yukikurage/user-task-api/internal/database"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	LastLogin time.Time          `bson:"lastLogin"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		LastLogin: d.LastLogin,
	}
}

// MongoUserRepository is a MongoDB implementation of UserRepository
type MongoUserRepository struct {
	coll *mongo.Collection
	now  Clock
}

// NewMongoUserRepository creates a UserRepository backed by db's Users collection
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(database.UsersCollection), now: systemClock}
}

// FindByEmail finds a user by email, case-insensitively
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apierrors.Storage(MsgFindUserByEmail, err)
	}
	return doc.toModel(), nil
}

// FindByID finds a user by its hex ObjectID. Malformed ids are treated as absent.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apierrors.Storage(MsgFindUser, err)
	}
	return doc.toModel(), nil
}

// Create inserts a user. The unique index on email makes the insert
// conditional: a concurrent duplicate fails with ErrDuplicateEmail.
func (r *MongoUserRepository) Create(ctx context.Context, email string) (*models.User, error) {
	now := stamp(r.now)
	doc := userDocument{
		Email:     strings.ToLower(email),
		CreatedAt: now,
		LastLogin: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apierrors.Storage(MsgCreateUser, ErrDuplicateEmail)
		}
		return nil, apierrors.Storage(MsgCreateUser, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, apierrors.Storage(MsgCreateUser, errors.New("unexpected inserted id type"))
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// UpdateLastLogin refreshes the user's last login time
func (r *MongoUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apierrors.Storage(MsgUpdateUser, err)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"lastLogin": stamp(r.now)}},
	)
	if err != nil {
		return apierrors.Storage(MsgUpdateUser, err)
	}
	if res.MatchedCount == 0 {
		return apierrors.Storage(MsgUpdateUser, ErrUserNotFound)
	}
	return nil
}
