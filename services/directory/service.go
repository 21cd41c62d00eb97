package directory

import (
	"context"
	"fmt"

	directoryRepo "courtflow/database/repository/directory"
	"courtflow/models"
)

// DefaultDirectoryService implements DirectoryService over the Mongo
// directory repository.
type DefaultDirectoryService struct {
	Repo directoryRepo.DirectoryRepository
}

// SearchVenues returns active venues matching the optional name filter.
func (s *DefaultDirectoryService) SearchVenues(ctx context.Context, query string, page models.Page) ([]models.Venue, error) {
	venues, err := s.Repo.SearchVenues(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}
	return venues, nil
}

// ListVenueResources returns the bookable resources of one venue.
func (s *DefaultDirectoryService) ListVenueResources(ctx context.Context, venueID string) ([]models.Resource, error) {
	if _, err := s.Repo.GetVenueByID(ctx, venueID); err != nil {
		return nil, fmt.Errorf("venue %s not found: %w", venueID, err)
	}
	resources, err := s.Repo.ListResources(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

// SearchCounterparties matches directory entries by name or phone prefix.
func (s *DefaultDirectoryService) SearchCounterparties(ctx context.Context, query string, page models.Page) ([]models.Counterparty, error) {
	counterparties, err := s.Repo.SearchCounterparties(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search counterparties: %w", err)
	}
	return counterparties, nil
}
