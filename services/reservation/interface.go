package reservation

import (
	"courtflow/models"
)

// DraftView is what every draft mutation returns to the caller: the current
// snapshot, the live validation state, and a recoverable availability error
// when the last fetch failed (the form stays usable).
type DraftView struct {
	Draft             models.BookingDraft `json:"draft"`
	Validation        map[string]string   `json:"validation,omitempty"`
	AvailabilityError string              `json:"availabilityError,omitempty"`
}

// LinkFollowUpScheduler hands payment-link follow-up work (share-message
// delivery, expiry sweep) to the deferred-work queue.
type LinkFollowUpScheduler interface {
	ScheduleLinkFollowUp(link models.PaymentLinkDescriptor, shareMessage string) error
}

// ReservationSessionService drives one reservation workflow per draft:
// field mutations with cascade invalidation, availability resolution,
// validation, submission and the follow-up decision.
type ReservationSessionService interface {
	StartDraft(mode models.Mode) (*DraftView, error)
	GetDraft(draftID string) (*DraftView, error)
	SetField(draftID, field string, value any) (*DraftView, error)
	Submit(draftID string) (*models.ReservationResult, *FollowUp, error)
	CurrentAvailability(draftID string) []models.Slot
	CancelDraft(draftID string) error
}
