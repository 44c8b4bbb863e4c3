package repository

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store bundles the repositories of one backend
type Store struct {
	Users UserRepository
	Tasks TaskRepository
}

// NewGormStore returns repositories backed by a SQL database
func NewGormStore(db *gorm.DB) Store {
	return Store{
		Users: NewUserRepository(db),
		Tasks: NewTaskRepository(db),
	}
}

// NewMongoStore returns repositories backed by a MongoDB database
func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Users: NewMongoUserRepository(db),
		Tasks: NewMongoTaskRepository(db),
	}
}
