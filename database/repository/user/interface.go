// File: database/repository/user/interface.go
package userRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"craftly/database"
	"craftly/models"
)

var ErrNotFound = errors.New("user not found")

// UserRepository is the read-side view the booking core has of user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new MongoDB UserRepository.
func NewMongoUserRepo() UserRepository {
	return &mongoUserRepo{coll: database.DB().Collection("users")}
}
