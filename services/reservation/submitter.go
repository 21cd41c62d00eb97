package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"courtflow/models"
)

// BookingSink is the external confirmed-booking collaborator.
type BookingSink interface {
	CreateBooking(ctx context.Context, req models.ImmediateBookingRequest) (*models.BookingConfirmation, error)
}

// PaymentLinkSink is the external payment-link collaborator.
type PaymentLinkSink interface {
	CreatePaymentLink(ctx context.Context, req models.PaymentLinkRequest) (*models.PaymentLinkDescriptor, error)
}

// SubmitState is the submitter's lifecycle state.
type SubmitState string

const (
	StateIdle       SubmitState = "IDLE"
	StateValidating SubmitState = "VALIDATING"
	StateSubmitting SubmitState = "SUBMITTING"
	StateSucceeded  SubmitState = "SUCCEEDED"
	StateFailed     SubmitState = "FAILED"
)

// DefaultReservationSubmitter turns a validated draft into exactly one of
// the two partner requests and runs it. SUBMITTING is the single suspend
// point; a second submit while one is in flight is rejected, never queued.
type DefaultReservationSubmitter struct {
	Bookings  BookingSink
	Links     PaymentLinkSink
	Validator *ValidationEngine

	mu    sync.Mutex
	state SubmitState
}

// NewReservationSubmitter returns a submitter bound to one draft lifetime.
func NewReservationSubmitter(bookings BookingSink, links PaymentLinkSink, validator *ValidationEngine) *DefaultReservationSubmitter {
	return &DefaultReservationSubmitter{
		Bookings:  bookings,
		Links:     links,
		Validator: validator,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *DefaultReservationSubmitter) State() SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == "" {
		return StateIdle
	}
	return s.state
}

// Submit validates the draft, builds the mode-selected request, and invokes
// the corresponding partner operation. Failures are always typed; the draft
// is never left partially mutated.
func (s *DefaultReservationSubmitter) Submit(ctx context.Context, draft models.BookingDraft) (*models.ReservationResult, error) {
	// The guard covers the whole attempt, not just the partner call: a
	// second submit arriving anywhere between VALIDATING and a terminal
	// state is rejected, never queued.
	s.mu.Lock()
	if s.state == StateValidating || s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, &ConcurrentSubmissionError{}
	}
	s.state = StateValidating
	s.mu.Unlock()

	if errs := s.Validator.Validate(draft); len(errs) > 0 {
		s.setState(StateFailed)
		return nil, &ValidationError{Mode: string(draft.Mode), Fields: errs}
	}

	// Re-normalize the chosen slot so the wire format is canonical even if
	// the slot was injected from an older cached list.
	nt, err := NormalizeSlotTime(models.SlotLike{
		StartTime: draft.SelectedSlot.StartTime,
		EndTime:   draft.SelectedSlot.EndTime,
		Label:     draft.SelectedSlot.Label,
	}, draft.DurationMinutes)
	if err != nil {
		s.setState(StateFailed)
		return nil, err
	}

	s.setState(StateSubmitting)

	var result *models.ReservationResult
	var submitErr error
	switch draft.Mode {
	case models.ModeImmediate:
		result, submitErr = s.submitImmediate(ctx, draft, nt)
	case models.ModeLink:
		result, submitErr = s.submitLink(ctx, draft, nt)
	default:
		submitErr = &UnknownSubmissionError{Err: fmt.Errorf("unknown mode %q", draft.Mode)}
	}

	if submitErr != nil {
		s.setState(StateFailed)
		return nil, submitErr
	}
	s.setState(StateSucceeded)
	return result, nil
}

func (s *DefaultReservationSubmitter) submitImmediate(ctx context.Context, draft models.BookingDraft, nt NormalizedTime) (*models.ReservationResult, error) {
	req := models.ImmediateBookingRequest{
		CounterpartyID:   draft.CounterpartyID,
		ResourceID:       draft.ResourceID,
		Date:             draft.Date,
		StartTime:        nt.StartTime,
		DurationMinutes:  draft.DurationMinutes,
		MatchKind:        draft.MatchKind,
		Notes:            draft.Notes,
		SendReceiptEmail: draft.SendReceiptEmail,
		ReceiptEmail:     draft.ReceiptEmail,
		RecordingEnabled: draft.RecordingEnabled,
	}

	conf, err := s.Bookings.CreateBooking(ctx, req)
	if err != nil {
		return nil, classifySubmissionError(err)
	}

	return &models.ReservationResult{
		Kind: models.ResultConfirmed,
		Reservation: &models.Reservation{
			BookingID:       conf.BookingID,
			ResourceID:      draft.ResourceID,
			CounterpartyID:  draft.CounterpartyID,
			Date:            draft.Date,
			StartTime:       nt.StartTime,
			EndTime:         nt.EndTime,
			DurationMinutes: draft.DurationMinutes,
			MatchKind:       draft.MatchKind,
			Notes:           draft.Notes,
		},
		Receipt: conf.Receipt,
	}, nil
}

func (s *DefaultReservationSubmitter) submitLink(ctx context.Context, draft models.BookingDraft, nt NormalizedTime) (*models.ReservationResult, error) {
	req := models.PaymentLinkRequest{
		ResourceID: draft.ResourceID,
		Date:       draft.Date,
		StartTime:  nt.StartTime,
		EndTime:    nt.EndTime,
	}
	// Exactly one counterparty reference goes on the wire; a known directory
	// entry wins over a bare phone number.
	if draft.CounterpartyID != "" {
		req.CounterpartyID = draft.CounterpartyID
	} else {
		req.CounterpartyPhone = draft.CounterpartyPhone
	}

	link, err := s.Links.CreatePaymentLink(ctx, req)
	if err != nil {
		return nil, classifySubmissionError(err)
	}

	return &models.ReservationResult{
		Kind: models.ResultLink,
		Link: link,
	}, nil
}

func (s *DefaultReservationSubmitter) setState(state SubmitState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// classifySubmissionError keeps conflict errors typed and wraps everything
// else so no partner failure is ever swallowed into a silent default.
func classifySubmissionError(err error) error {
	var conflict *ReservationConflictError
	if errors.As(err, &conflict) {
		return conflict
	}
	var unknown *UnknownSubmissionError
	if errors.As(err, &unknown) {
		return unknown
	}
	return &UnknownSubmissionError{Err: err}
}
