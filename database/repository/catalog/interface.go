// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"craftly/database"
	"craftly/models"
)

var ErrNotFound = errors.New("service not found")

// CatalogRepository resolves service catalog entries. Catalog CRUD is a
// separate concern; the booking core only reads price, duration and ownership.
type CatalogRepository interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
}

type mongoCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	return &mongoCatalogRepo{coll: database.DB().Collection("services")}
}
