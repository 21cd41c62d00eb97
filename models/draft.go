package models

import "time"

// Mode selects which reservation contract a draft will be submitted through.
type Mode string

const (
	ModeImmediate Mode = "IMMEDIATE"
	ModeLink      Mode = "LINK"
)

// Valid reports whether m is one of the two submission modes.
func (m Mode) Valid() bool {
	return m == ModeImmediate || m == ModeLink
}

// MatchKind is the play format for a court reservation.
type MatchKind string

const (
	MatchSingle MatchKind = "SINGLE"
	MatchDouble MatchKind = "DOUBLE"
)

// AllowedDurations is the fixed set of bookable durations in minutes.
var AllowedDurations = []int{60, 90, 120}

// IsAllowedDuration reports whether d is one of the bookable durations.
func IsAllowedDuration(d int) bool {
	for _, allowed := range AllowedDurations {
		if d == allowed {
			return true
		}
	}
	return false
}

// BookingDraft is the single mutable selection record for one reservation
// workflow. It is stored as JSON in Redis for the lifetime of the draft.
type BookingDraft struct {
	DraftID           string    `json:"draftId"`
	CounterpartyID    string    `json:"counterpartyId,omitempty"`
	CounterpartyPhone string    `json:"counterpartyPhone,omitempty"`
	VenueID           string    `json:"venueId,omitempty"`
	ResourceID        string    `json:"resourceId,omitempty"`
	Date              string    `json:"date,omitempty"` // "YYYY-MM-DD"
	DurationMinutes   int       `json:"durationMinutes,omitempty"`
	MatchKind         MatchKind `json:"matchKind,omitempty"`
	SelectedSlot      *Slot     `json:"selectedSlot,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	Mode              Mode      `json:"mode"`
	PaymentMethod     string    `json:"paymentMethod,omitempty"`
	SendReceiptEmail  bool      `json:"sendReceiptEmail,omitempty"`
	ReceiptEmail      string    `json:"receiptEmail,omitempty"`
	RecordingEnabled  bool      `json:"recordingEnabled,omitempty"`

	// Availability is the cached slot list for the current
	// (resource, date, duration) triple. Cleared on any cascade.
	Availability []Slot    `json:"availability,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
