package directoryRepo

import (
	"context"

	"courtflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func pagedFindOptions(page models.Page, sortField string) *options.FindOptions {
	page = page.Clamp()
	return options.Find().
		SetSort(bson.M{sortField: 1}).
		SetSkip(int64((page.Number - 1) * page.Size)).
		SetLimit(int64(page.Size))
}

// SearchVenues returns active venues, optionally filtered by a
// case-insensitive name prefix.
func (r *mongoDirectoryRepo) SearchVenues(ctx context.Context, query string, page models.Page) ([]models.Venue, error) {
	filter := bson.M{"active": true}
	if query != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: "^" + query, Options: "i"}}
	}

	cursor, err := r.venues.Find(ctx, filter, pagedFindOptions(page, "name"))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var venues []models.Venue
	if err := cursor.All(ctx, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// GetVenueByID returns a single venue.
func (r *mongoDirectoryRepo) GetVenueByID(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	if err := r.venues.FindOne(ctx, bson.M{"id": id}).Decode(&venue); err != nil {
		return nil, err
	}
	return &venue, nil
}

// ListResources returns every resource of a venue, name ascending.
func (r *mongoDirectoryRepo) ListResources(ctx context.Context, venueID string) ([]models.Resource, error) {
	cursor, err := r.resources.Find(ctx, bson.M{"venueId": venueID},
		options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// GetResourceByID returns a single resource.
func (r *mongoDirectoryRepo) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	if err := r.resources.FindOne(ctx, bson.M{"id": id}).Decode(&resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// SearchCounterparties matches by name prefix or phone prefix.
func (r *mongoDirectoryRepo) SearchCounterparties(ctx context.Context, query string, page models.Page) ([]models.Counterparty, error) {
	filter := bson.M{}
	if query != "" {
		prefix := primitive.Regex{Pattern: "^" + query, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": prefix}},
			bson.M{"phone": bson.M{"$regex": prefix}},
		}
	}

	cursor, err := r.counterparties.Find(ctx, filter, pagedFindOptions(page, "name"))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counterparties []models.Counterparty
	if err := cursor.All(ctx, &counterparties); err != nil {
		return nil, err
	}
	return counterparties, nil
}
