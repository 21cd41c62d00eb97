package models

import "time"

// Record statuses for persisted reservation outcomes.
const (
	RecordStatusConfirmed   = "confirmed"
	RecordStatusLinkPending = "link_pending"
	RecordStatusLinkExpired = "link_expired"
)

// ReservationRecord is the persisted trail of a successful submission,
// either a confirmed booking or an issued payment link.
type ReservationRecord struct {
	ID                string                 `bson:"id" json:"id"`
	Kind              ResultKind             `bson:"kind" json:"kind"`
	Status            string                 `bson:"status" json:"status"`
	ResourceID        string                 `bson:"resourceId" json:"resourceId"`
	VenueID           string                 `bson:"venueId,omitempty" json:"venueId,omitempty"`
	CounterpartyID    string                 `bson:"counterpartyId,omitempty" json:"counterpartyId,omitempty"`
	CounterpartyPhone string                 `bson:"counterpartyPhone,omitempty" json:"counterpartyPhone,omitempty"`
	Date              string                 `bson:"date" json:"date"`
	StartTime         string                 `bson:"startTime" json:"startTime"`
	EndTime           string                 `bson:"endTime" json:"endTime"`
	BookingID         string                 `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	ReceiptID         string                 `bson:"receiptId,omitempty" json:"receiptId,omitempty"`
	Link              *PaymentLinkDescriptor `bson:"link,omitempty" json:"link,omitempty"`
	CreatedAt         time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time              `bson:"updatedAt" json:"updatedAt"`
}
