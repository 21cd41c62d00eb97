package reservation

import (
	"fmt"

	"courtflow/models"
)

// FollowUpSurface names the screen the caller should present next.
type FollowUpSurface string

const (
	SurfaceReceipt   FollowUpSurface = "RECEIPT"
	SurfaceLinkShare FollowUpSurface = "LINK_SHARE"
	SurfaceNone      FollowUpSurface = "NONE"
)

// FollowUp is the decision payload. Rendering is the caller's concern.
type FollowUp struct {
	Show         FollowUpSurface               `json:"show"`
	ReceiptID    string                        `json:"receiptId,omitempty"`
	Link         *models.PaymentLinkDescriptor `json:"link,omitempty"`
	ShareMessage string                        `json:"shareMessage,omitempty"`
}

// shareMessageTemplate is the fixed bilingual share format. Order of
// substitution: venue, resource, date, start, end, amount (twice for the
// Arabic half), then the public URL.
const shareMessageTemplate = "حجزك في %s - %s\nالتاريخ: %s من %s إلى %s\nالمبلغ: %.2f ريال\n---\nYour booking at %s (%s)\nDate: %s, %s - %s\nTotal: SAR %.2f\nComplete your payment here: %s"

// DecideFollowUp maps a submission result to the follow-up surface. A
// confirmed reservation without a receipt id shows nothing; a payment link
// always opens the share surface with a pre-built message.
func DecideFollowUp(result models.ReservationResult) FollowUp {
	switch result.Kind {
	case models.ResultConfirmed:
		if result.Receipt != nil && result.Receipt.ID != "" {
			return FollowUp{Show: SurfaceReceipt, ReceiptID: result.Receipt.ID}
		}
		return FollowUp{Show: SurfaceNone}
	case models.ResultLink:
		if result.Link == nil {
			return FollowUp{Show: SurfaceNone}
		}
		return FollowUp{
			Show:         SurfaceLinkShare,
			Link:         result.Link,
			ShareMessage: BuildShareMessage(*result.Link),
		}
	}
	return FollowUp{Show: SurfaceNone}
}

// BuildShareMessage renders the fixed bilingual share text for a link.
func BuildShareMessage(link models.PaymentLinkDescriptor) string {
	start := shortClock(link.StartTime)
	end := shortClock(link.EndTime)
	return fmt.Sprintf(shareMessageTemplate,
		link.VenueLabel, link.ResourceLabel, link.Date, start, end, link.TotalAmount,
		link.VenueLabel, link.ResourceLabel, link.Date, start, end, link.TotalAmount,
		link.PublicURL,
	)
}

// shortClock trims canonical "HH:MM:SS" down to "HH:MM" for display.
func shortClock(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}
