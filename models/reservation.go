package models

import "time"

// ImmediateBookingRequest is the payload for the confirmed-booking partner
// operation. Built only from a validated draft.
type ImmediateBookingRequest struct {
	CounterpartyID   string    `json:"counterpartyId"`
	ResourceID       string    `json:"resourceId"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"` // canonical "HH:MM:SS"
	DurationMinutes  int       `json:"durationMinutes"`
	MatchKind        MatchKind `json:"matchKind"`
	Notes            string    `json:"notes,omitempty"`
	SendReceiptEmail bool      `json:"sendReceiptEmail"`
	ReceiptEmail     string    `json:"receiptEmail,omitempty"`
	RecordingEnabled bool      `json:"recordingEnabled"`
}

// PaymentLinkRequest is the payload for the payment-link partner operation.
// At most one of CounterpartyPhone / CounterpartyID is populated.
type PaymentLinkRequest struct {
	ResourceID        string `json:"resourceId"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	CounterpartyPhone string `json:"counterpartyPhone,omitempty"`
	CounterpartyID    string `json:"counterpartyId,omitempty"`
}

// BookingConfirmation is the partner's acknowledgment of a confirmed
// booking. The receipt is absent when the partner did not generate one.
type BookingConfirmation struct {
	BookingID string   `json:"bookingId"`
	Receipt   *Receipt `json:"receipt,omitempty"`
}

// Reservation is a confirmed booking as acknowledged by the partner.
type Reservation struct {
	BookingID       string    `json:"bookingId"`
	ResourceID      string    `json:"resourceId"`
	CounterpartyID  string    `json:"counterpartyId"`
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"` // display only, never sent upstream
	DurationMinutes int       `json:"durationMinutes"`
	MatchKind       MatchKind `json:"matchKind"`
	Notes           string    `json:"notes,omitempty"`
}

// Receipt references a generated receipt. The partner may not produce one.
type Receipt struct {
	ID       string    `json:"id"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency"`
	IssuedAt time.Time `json:"issuedAt"`
}

// ResultKind discriminates the two submission outcomes.
type ResultKind string

const (
	ResultConfirmed ResultKind = "CONFIRMED"
	ResultLink      ResultKind = "LINK"
)

// ReservationResult is produced exactly once per successful submission and
// never mutated afterward.
type ReservationResult struct {
	Kind        ResultKind             `json:"kind"`
	Reservation *Reservation           `json:"reservation,omitempty"`
	Receipt     *Receipt               `json:"receipt,omitempty"`
	Link        *PaymentLinkDescriptor `json:"link,omitempty"`
}
