package directoryRepo

import (
	"context"

	"courtflow/database"
	"courtflow/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DirectoryRepository exposes paged, filtered, read-only lookups over the
// venue/resource/counterparty directory. The reservation workflow never
// mutates directory data.
type DirectoryRepository interface {
	SearchVenues(ctx context.Context, query string, page models.Page) ([]models.Venue, error)
	GetVenueByID(ctx context.Context, id string) (*models.Venue, error)
	ListResources(ctx context.Context, venueID string) ([]models.Resource, error)
	GetResourceByID(ctx context.Context, id string) (*models.Resource, error)
	SearchCounterparties(ctx context.Context, query string, page models.Page) ([]models.Counterparty, error)
}

type mongoDirectoryRepo struct {
	venues         *mongo.Collection
	resources      *mongo.Collection
	counterparties *mongo.Collection
}

// NewMongoDirectoryRepo returns a DirectoryRepository backed by MongoDB.
func NewMongoDirectoryRepo() DirectoryRepository {
	db := database.MongoClient.Database("courtflow")
	return &mongoDirectoryRepo{
		venues:         db.Collection("venues"),
		resources:      db.Collection("resources"),
		counterparties: db.Collection("counterparties"),
	}
}
