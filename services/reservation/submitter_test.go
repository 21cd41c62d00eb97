package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtflow/models"
)

type fakeBookings struct {
	lastReq models.ImmediateBookingRequest
	called  int
	conf    *models.BookingConfirmation
	err     error
}

func (f *fakeBookings) CreateBooking(ctx context.Context, req models.ImmediateBookingRequest) (*models.BookingConfirmation, error) {
	f.lastReq = req
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return f.conf, nil
}

type fakeLinks struct {
	lastReq models.PaymentLinkRequest
	called  int
	link    *models.PaymentLinkDescriptor
	err     error

	// When set, CreatePaymentLink signals entered and blocks until release
	// is closed.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeLinks) CreatePaymentLink(ctx context.Context, req models.PaymentLinkRequest) (*models.PaymentLinkDescriptor, error) {
	f.lastReq = req
	f.called++
	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.link, nil
}

func newSubmitter(bookings *fakeBookings, links *fakeLinks) *DefaultReservationSubmitter {
	return NewReservationSubmitter(bookings, links, fixedEngine())
}

func TestSubmitValidationGate(t *testing.T) {
	bookings := &fakeBookings{}
	links := &fakeLinks{}
	sub := newSubmitter(bookings, links)

	_, err := sub.Submit(context.Background(), models.BookingDraft{Mode: models.ModeImmediate})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}
	if validationErr.Mode != string(models.ModeImmediate) {
		t.Errorf("error mode = %q", validationErr.Mode)
	}
	if len(validationErr.Fields) == 0 {
		t.Error("expected violated fields in the error")
	}
	if bookings.called != 0 || links.called != 0 {
		t.Error("no partner operation may run on a non-submittable draft")
	}
	if sub.State() != StateFailed {
		t.Errorf("state = %s, want FAILED", sub.State())
	}
}

func TestSubmitImmediate(t *testing.T) {
	bookings := &fakeBookings{conf: &models.BookingConfirmation{
		BookingID: "bk-42",
		Receipt:   &models.Receipt{ID: "rcpt-9", Amount: 100, Currency: "SAR"},
	}}
	sub := newSubmitter(bookings, &fakeLinks{})

	draft := submittableDraft(models.ModeImmediate)
	draft.Notes = "warm-up first"
	result, err := sub.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.Kind != models.ResultConfirmed {
		t.Fatalf("kind = %s, want CONFIRMED", result.Kind)
	}
	if result.Reservation == nil || result.Reservation.BookingID != "bk-42" {
		t.Fatalf("reservation = %+v", result.Reservation)
	}
	if result.Reservation.EndTime != "15:00:00" {
		t.Errorf("end time = %q, want 15:00:00", result.Reservation.EndTime)
	}
	if result.Receipt == nil || result.Receipt.ID != "rcpt-9" {
		t.Errorf("receipt = %+v", result.Receipt)
	}

	req := bookings.lastReq
	if req.CounterpartyID != "cp-7" || req.ResourceID != "court-3" || req.StartTime != "14:00:00" {
		t.Errorf("wire request = %+v", req)
	}
	if req.Notes != "warm-up first" {
		t.Errorf("notes = %q", req.Notes)
	}
	if sub.State() != StateSucceeded {
		t.Errorf("state = %s, want SUCCEEDED", sub.State())
	}
}

func TestSubmitImmediateWithoutReceipt(t *testing.T) {
	bookings := &fakeBookings{conf: &models.BookingConfirmation{BookingID: "bk-42"}}
	sub := newSubmitter(bookings, &fakeLinks{})

	result, err := sub.Submit(context.Background(), submittableDraft(models.ModeImmediate))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Receipt != nil {
		t.Fatalf("receipt = %+v, want nil when the partner issued none", result.Receipt)
	}
}

func TestSubmitLinkPrefersCounterpartyID(t *testing.T) {
	cases := []struct {
		name      string
		id        string
		phone     string
		wantID    string
		wantPhone string
	}{
		{name: "phone only", phone: "+15551234567", wantPhone: "+15551234567"},
		{name: "id only", id: "cp-7", wantID: "cp-7"},
		{name: "id wins over phone", id: "cp-7", phone: "+15551234567", wantID: "cp-7"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			links := &fakeLinks{link: &models.PaymentLinkDescriptor{ID: "pl-1", PublicURL: "https://pay.example/pl-1"}}
			sub := newSubmitter(&fakeBookings{}, links)

			draft := submittableDraft(models.ModeLink)
			draft.CounterpartyID = tt.id
			draft.CounterpartyPhone = tt.phone

			result, err := sub.Submit(context.Background(), draft)
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if result.Kind != models.ResultLink || result.Link == nil || result.Link.ID != "pl-1" {
				t.Fatalf("result = %+v", result)
			}

			req := links.lastReq
			if req.CounterpartyID != tt.wantID || req.CounterpartyPhone != tt.wantPhone {
				t.Fatalf("wire request carries id=%q phone=%q, want id=%q phone=%q",
					req.CounterpartyID, req.CounterpartyPhone, tt.wantID, tt.wantPhone)
			}
			if req.StartTime != "14:00:00" || req.EndTime != "15:00:00" {
				t.Errorf("wire times = %s-%s", req.StartTime, req.EndTime)
			}
		})
	}
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	links := &fakeLinks{
		link:    &models.PaymentLinkDescriptor{ID: "pl-1"},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	sub := newSubmitter(&fakeBookings{}, links)

	draft := submittableDraft(models.ModeLink)
	done := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), draft)
		done <- err
	}()
	<-links.entered

	_, err := sub.Submit(context.Background(), draft)
	var concurrentErr *ConcurrentSubmissionError
	if !errors.As(err, &concurrentErr) {
		t.Fatalf("second submit error = %T (%v), want *ConcurrentSubmissionError", err, err)
	}

	close(links.release)
	if firstErr := <-done; firstErr != nil {
		t.Fatalf("first submit failed: %v", firstErr)
	}
	if links.called != 1 {
		t.Fatalf("partner called %d times, want 1", links.called)
	}
}

func TestSubmitRejectsOverlapDuringValidation(t *testing.T) {
	// The guard must hold from the moment a submit enters validation, not
	// only while the partner call is in flight.
	entered := make(chan struct{})
	release := make(chan struct{})
	engine := &ValidationEngine{Now: func() time.Time {
		close(entered)
		<-release
		return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	}}
	links := &fakeLinks{link: &models.PaymentLinkDescriptor{ID: "pl-1"}}
	sub := NewReservationSubmitter(&fakeBookings{}, links, engine)

	draft := submittableDraft(models.ModeLink)
	done := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), draft)
		done <- err
	}()
	<-entered

	_, err := sub.Submit(context.Background(), draft)
	var concurrentErr *ConcurrentSubmissionError
	if !errors.As(err, &concurrentErr) {
		t.Fatalf("overlapping submit error = %T (%v), want *ConcurrentSubmissionError", err, err)
	}

	close(release)
	if firstErr := <-done; firstErr != nil {
		t.Fatalf("first submit failed: %v", firstErr)
	}
	if links.called != 1 {
		t.Fatalf("partner called %d times, want 1", links.called)
	}
}

func TestSubmitClassifiesPartnerErrors(t *testing.T) {
	t.Run("conflict stays typed", func(t *testing.T) {
		bookings := &fakeBookings{err: &ReservationConflictError{Err: errors.New("409 slot taken")}}
		sub := newSubmitter(bookings, &fakeLinks{})

		_, err := sub.Submit(context.Background(), submittableDraft(models.ModeImmediate))
		var conflict *ReservationConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("error = %T (%v), want *ReservationConflictError", err, err)
		}
		if sub.State() != StateFailed {
			t.Errorf("state = %s, want FAILED", sub.State())
		}
	})

	t.Run("anything else wraps as unknown", func(t *testing.T) {
		cause := errors.New("tls handshake timeout")
		links := &fakeLinks{err: cause}
		sub := newSubmitter(&fakeBookings{}, links)

		_, err := sub.Submit(context.Background(), submittableDraft(models.ModeLink))
		var unknown *UnknownSubmissionError
		if !errors.As(err, &unknown) {
			t.Fatalf("error = %T (%v), want *UnknownSubmissionError", err, err)
		}
		if !errors.Is(err, cause) {
			t.Error("wrapped error must preserve the cause")
		}
	})
}

func TestSubmitRejectsMalformedSlot(t *testing.T) {
	sub := newSubmitter(&fakeBookings{}, &fakeLinks{})

	draft := submittableDraft(models.ModeImmediate)
	draft.SelectedSlot = &models.Slot{StartTime: "garbage"}

	_, err := sub.Submit(context.Background(), draft)
	var timeErr *TimeFormatError
	if !errors.As(err, &timeErr) {
		t.Fatalf("error = %T (%v), want *TimeFormatError", err, err)
	}
}

func TestSubmitterResettableAfterFailure(t *testing.T) {
	bookings := &fakeBookings{err: errors.New("boom")}
	sub := newSubmitter(bookings, &fakeLinks{})

	if _, err := sub.Submit(context.Background(), submittableDraft(models.ModeImmediate)); err == nil {
		t.Fatal("expected first submit to fail")
	}
	if sub.State() != StateFailed {
		t.Fatalf("state = %s, want FAILED", sub.State())
	}

	// A failed attempt does not lock the submitter; a retry runs.
	bookings.err = nil
	bookings.conf = &models.BookingConfirmation{BookingID: "bk-1"}
	if _, err := sub.Submit(context.Background(), submittableDraft(models.ModeImmediate)); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if sub.State() != StateSucceeded {
		t.Fatalf("state = %s, want SUCCEEDED", sub.State())
	}
}
