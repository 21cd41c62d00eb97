package directory

import (
	"context"

	"courtflow/models"
)

// DirectoryService exposes the read-only venue/resource/counterparty
// lookups the reservation form consumes. Never mutated by the workflow.
type DirectoryService interface {
	SearchVenues(ctx context.Context, query string, page models.Page) ([]models.Venue, error)
	ListVenueResources(ctx context.Context, venueID string) ([]models.Resource, error)
	SearchCounterparties(ctx context.Context, query string, page models.Page) ([]models.Counterparty, error)
}
