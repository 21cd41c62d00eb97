package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"courtflow/config"
	recordsRepo "courtflow/database/repository/records"
	"courtflow/models"
	"courtflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const draftKeyPrefix = "draft:"

// DraftStore persists draft JSON under a TTL. The production store is Redis;
// tests supply an in-memory one.
type DraftStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisDraftStore struct{}

func (redisDraftStore) Get(ctx context.Context, key string) (string, error) {
	return utils.GetDraftCacheClient().Get(ctx, key).Result()
}

func (redisDraftStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return utils.GetDraftCacheClient().Set(ctx, key, value, ttl).Err()
}

func (redisDraftStore) Del(ctx context.Context, key string) error {
	return utils.GetDraftCacheClient().Del(ctx, key).Err()
}

// draftRuntime holds the per-draft components whose lifetime matches the
// draft's: the availability cache/resolver and the submitter state machine.
// Never shared across drafts; dropped on submit, cancel or expiry.
type draftRuntime struct {
	resolver  *DefaultAvailabilityResolver
	submitter *DefaultReservationSubmitter
}

// DefaultReservationSessionService implements ReservationSessionService with
// drafts stored as JSON in Redis under a TTL.
type DefaultReservationSessionService struct {
	Source    AvailabilitySource
	Bookings  BookingSink
	Links     PaymentLinkSink
	Records   recordsRepo.ReservationRecordRepository
	Validator *ValidationEngine
	Scheduler LinkFollowUpScheduler
	// Drafts defaults to the Redis-backed store when unset.
	Drafts DraftStore

	mu       sync.Mutex
	runtimes map[string]*draftRuntime
}

func (s *DefaultReservationSessionService) drafts() DraftStore {
	if s.Drafts != nil {
		return s.Drafts
	}
	return redisDraftStore{}
}

func (s *DefaultReservationSessionService) runtime(draftID string) *draftRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtimes == nil {
		s.runtimes = make(map[string]*draftRuntime)
	}
	rt, ok := s.runtimes[draftID]
	if !ok {
		rt = &draftRuntime{
			resolver:  NewAvailabilityResolver(s.Source),
			submitter: NewReservationSubmitter(s.Bookings, s.Links, s.Validator),
		}
		s.runtimes[draftID] = rt
	}
	return rt
}

func (s *DefaultReservationSessionService) dropRuntime(draftID string) {
	s.mu.Lock()
	delete(s.runtimes, draftID)
	s.mu.Unlock()
}

func draftTTL() time.Duration {
	minutes := config.AppConfig.DraftTTLMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

// StartDraft creates a new draft, assigns it a unique ID and stores it
// under the session TTL. An unknown mode is rejected here so mode-specific
// validation rules can never be silently skipped later.
func (s *DefaultReservationSessionService) StartDraft(mode models.Mode) (*DraftView, error) {
	if mode != "" && !mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	ctx := context.Background()
	draft := NewDraft(uuid.New().String(), mode, time.Now())

	if err := s.storeDraft(ctx, draft); err != nil {
		return nil, err
	}
	return s.view(draft, ""), nil
}

// GetDraft returns the current snapshot with its validation state.
func (s *DefaultReservationSessionService) GetDraft(draftID string) (*DraftView, error) {
	draft, err := s.loadDraft(context.Background(), draftID)
	if err != nil {
		return nil, err
	}
	return s.view(*draft, ""), nil
}

// SetField applies one field write with cascade invalidation, re-resolves
// availability when the (resource, date, duration) triple is complete, and
// re-evaluates validation. A failed fetch keeps the draft usable with an
// empty slot list.
func (s *DefaultReservationSessionService) SetField(draftID, field string, value any) (*DraftView, error) {
	ctx := context.Background()
	logger := utils.GetLogger()

	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	state := NewSelectionState(*draft)
	if err := state.SetField(field, value); err != nil {
		return nil, err
	}
	updated := state.Snapshot()

	availabilityError := ""
	if _, cascades := cascade[field]; cascades && state.TripleComplete() {
		rt := s.runtime(draftID)
		slots, err := rt.resolver.Resolve(ctx, updated.ResourceID, updated.Date, updated.DurationMinutes)
		switch {
		case err == nil:
			updated.Availability = slots
		case errors.Is(err, ErrSuperseded):
			updated.Availability = rt.resolver.Current()
		default:
			var fetchErr *AvailabilityFetchError
			if errors.As(err, &fetchErr) {
				logger.Warn("availability fetch failed",
					zap.String("draftID", draftID),
					zap.String("resourceID", updated.ResourceID),
					zap.Error(err))
				updated.Availability = nil
				availabilityError = "could not load available slots, please retry"
			} else {
				return nil, err
			}
		}
	}

	if err := s.storeDraft(ctx, updated); err != nil {
		return nil, err
	}
	return s.view(updated, availabilityError), nil
}

// Submit runs the validation gate and the submitter, persists the outcome
// and decides the follow-up surface. On a slot conflict the selected slot is
// cleared and availability re-resolved for the unchanged triple; any other
// failure leaves the draft exactly as it was.
func (s *DefaultReservationSessionService) Submit(draftID string) (*models.ReservationResult, *FollowUp, error) {
	ctx := context.Background()
	logger := utils.GetLogger()

	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}

	rt := s.runtime(draftID)
	result, err := rt.submitter.Submit(ctx, *draft)
	if err != nil {
		var conflict *ReservationConflictError
		if errors.As(err, &conflict) {
			s.handleConflict(ctx, rt, *draft)
		}
		return nil, nil, err
	}

	if recordErr := s.persistRecord(ctx, *draft, *result); recordErr != nil {
		logger.Error("failed to persist reservation record",
			zap.String("draftID", draftID), zap.Error(recordErr))
	}

	followUp := DecideFollowUp(*result)
	if followUp.Show == SurfaceLinkShare && s.Scheduler != nil {
		if schedErr := s.Scheduler.ScheduleLinkFollowUp(*followUp.Link, followUp.ShareMessage); schedErr != nil {
			logger.Error("failed to schedule link follow-up",
				zap.String("linkID", followUp.Link.ID), zap.Error(schedErr))
		}
	}

	// Draft is replaced wholesale only on success.
	if delErr := s.drafts().Del(ctx, draftKeyPrefix+draftID); delErr != nil {
		logger.Warn("failed to delete submitted draft",
			zap.String("draftID", draftID), zap.Error(delErr))
	}
	s.dropRuntime(draftID)
	return result, &followUp, nil
}

// handleConflict clears the selected slot and re-issues availability
// resolution for the unchanged triple so the caller sees a fresh list.
func (s *DefaultReservationSessionService) handleConflict(ctx context.Context, rt *draftRuntime, draft models.BookingDraft) {
	logger := utils.GetLogger()

	state := NewSelectionState(draft)
	if err := state.SetField(FieldSlot, nil); err != nil {
		logger.Error("failed to clear conflicted slot", zap.Error(err))
		return
	}
	updated := state.Snapshot()

	slots, err := rt.resolver.Resolve(ctx, updated.ResourceID, updated.Date, updated.DurationMinutes)
	switch {
	case err == nil:
		updated.Availability = slots
	case errors.Is(err, ErrSuperseded):
		updated.Availability = rt.resolver.Current()
	default:
		logger.Warn("availability refresh after conflict failed", zap.Error(err))
	}

	if err := s.storeDraft(ctx, updated); err != nil {
		logger.Error("failed to store draft after conflict", zap.Error(err))
	}
}

// CurrentAvailability returns the latest applied slot list for a draft.
func (s *DefaultReservationSessionService) CurrentAvailability(draftID string) []models.Slot {
	s.mu.Lock()
	rt, ok := s.runtimes[draftID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return rt.resolver.Current()
}

// CancelDraft discards the draft and its availability cache.
func (s *DefaultReservationSessionService) CancelDraft(draftID string) error {
	ctx := context.Background()
	if err := s.drafts().Del(ctx, draftKeyPrefix+draftID); err != nil {
		return fmt.Errorf("failed to cancel draft: %w", err)
	}
	s.dropRuntime(draftID)
	return nil
}

func (s *DefaultReservationSessionService) view(draft models.BookingDraft, availabilityError string) *DraftView {
	return &DraftView{
		Draft:             draft,
		Validation:        s.Validator.Validate(draft),
		AvailabilityError: availabilityError,
	}
}

func (s *DefaultReservationSessionService) loadDraft(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	data, err := s.drafts().Get(ctx, draftKeyPrefix+draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found or expired: %w", err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	return &draft, nil
}

func (s *DefaultReservationSessionService) storeDraft(ctx context.Context, draft models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.drafts().Set(ctx, draftKeyPrefix+draft.DraftID, data, draftTTL()); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

// persistRecord writes the submission trail to Mongo.
func (s *DefaultReservationSessionService) persistRecord(ctx context.Context, draft models.BookingDraft, result models.ReservationResult) error {
	if s.Records == nil {
		return nil
	}

	record := models.ReservationRecord{
		ID:      uuid.New().String(),
		Kind:    result.Kind,
		VenueID: draft.VenueID,
	}
	switch result.Kind {
	case models.ResultConfirmed:
		record.Status = models.RecordStatusConfirmed
		record.ResourceID = result.Reservation.ResourceID
		record.CounterpartyID = result.Reservation.CounterpartyID
		record.Date = result.Reservation.Date
		record.StartTime = result.Reservation.StartTime
		record.EndTime = result.Reservation.EndTime
		record.BookingID = result.Reservation.BookingID
		if result.Receipt != nil {
			record.ReceiptID = result.Receipt.ID
		}
	case models.ResultLink:
		record.Status = models.RecordStatusLinkPending
		record.ResourceID = draft.ResourceID
		record.CounterpartyID = draft.CounterpartyID
		record.CounterpartyPhone = result.Link.CounterpartyPhone
		record.Date = result.Link.Date
		record.StartTime = result.Link.StartTime
		record.EndTime = result.Link.EndTime
		record.Link = result.Link
	}

	_, err := s.Records.Create(ctx, record)
	return err
}
