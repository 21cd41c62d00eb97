package models

import "time"

// PaymentLinkDescriptor is a server-issued, time-boxed payment reference.
// The client never extends it; it only displays remaining time and builds a
// share message from it.
type PaymentLinkDescriptor struct {
	ID                string    `json:"id"`
	ResourceLabel     string    `json:"resourceLabel"`
	VenueLabel        string    `json:"venueLabel"`
	Date              string    `json:"date"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	TotalAmount       float64   `json:"totalAmount"`
	RecordingAddon    bool      `json:"recordingAddon"`
	ExpiresAt         time.Time `json:"expiresAt"`
	CounterpartyPhone string    `json:"counterpartyPhone,omitempty"`
	PublicURL         string    `json:"publicUrl"`
}

// RemainingTime returns how long the link stays redeemable from now.
func (d PaymentLinkDescriptor) RemainingTime(now time.Time) time.Duration {
	if remaining := d.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
