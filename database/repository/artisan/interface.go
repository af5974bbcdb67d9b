// File: database/repository/artisan/interface.go
package artisanRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"craftly/database"
	"craftly/models"
)

var ErrNotFound = errors.New("artisan not found")

// ArtisanRepository is the read-side view the booking core has of artisan
// accounts. Account lifecycle belongs to the identity service.
type ArtisanRepository interface {
	GetByID(ctx context.Context, id string) (*models.Artisan, error)
}

type mongoArtisanRepo struct {
	coll *mongo.Collection
}

// NewMongoArtisanRepo constructs a new MongoDB ArtisanRepository.
func NewMongoArtisanRepo() ArtisanRepository {
	return &mongoArtisanRepo{coll: database.DB().Collection("artisans")}
}
