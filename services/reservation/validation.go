package reservation

import (
	"regexp"
	"time"

	"courtflow/models"
)

var (
	// E.164-like, e.g. +966501234567.
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Rule order, shared rules first then mode-specific ones. A caller showing a
// single summary message picks the first violated field in this order.
var (
	immediateRuleOrder = []string{
		FieldResource, FieldDate, FieldDuration, FieldSlot,
		FieldCounterparty, FieldMatchKind, FieldPaymentMethod, FieldReceiptEmail,
	}
	linkRuleOrder = []string{
		FieldResource, FieldDate, FieldDuration, FieldSlot,
		FieldCounterpartyPhone,
	}
)

// ValidationEngine produces a field -> message mapping for a draft. An empty
// mapping means the draft is ready to submit.
type ValidationEngine struct {
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (v *ValidationEngine) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Validate returns every violated field, not just the first.
func (v *ValidationEngine) Validate(draft models.BookingDraft) map[string]string {
	errs := make(map[string]string)

	// Shared rules.
	if draft.ResourceID == "" {
		errs[FieldResource] = "select a court"
	}
	if draft.Date == "" {
		errs[FieldDate] = "select a date"
	} else if parsed, err := time.Parse("2006-01-02", draft.Date); err != nil {
		errs[FieldDate] = "date must be YYYY-MM-DD"
	} else if parsed.Format("2006-01-02") < CanonicalDate(v.now()) {
		errs[FieldDate] = "date cannot be in the past"
	}
	if draft.DurationMinutes == 0 {
		errs[FieldDuration] = "select a duration"
	} else if !models.IsAllowedDuration(draft.DurationMinutes) {
		errs[FieldDuration] = "duration must be 60, 90 or 120 minutes"
	}
	if draft.SelectedSlot == nil {
		errs[FieldSlot] = "select a time slot"
	}

	switch draft.Mode {
	case models.ModeImmediate:
		if draft.CounterpartyID == "" {
			errs[FieldCounterparty] = "select a player"
		}
		if draft.MatchKind == "" {
			errs[FieldMatchKind] = "select single or double"
		}
		if draft.PaymentMethod == "" {
			errs[FieldPaymentMethod] = "select a payment method"
		}
		if draft.SendReceiptEmail {
			if draft.ReceiptEmail == "" {
				errs[FieldReceiptEmail] = "email is required to send a receipt"
			} else if !emailRe.MatchString(draft.ReceiptEmail) {
				errs[FieldReceiptEmail] = "enter a valid email address"
			}
		}
	case models.ModeLink:
		if draft.CounterpartyID == "" && draft.CounterpartyPhone == "" {
			errs[FieldCounterpartyPhone] = "select a player or enter a phone number"
		} else if draft.CounterpartyPhone != "" && !phoneRe.MatchString(draft.CounterpartyPhone) {
			errs[FieldCounterpartyPhone] = "enter a valid international phone number"
		}
	}

	return errs
}

// FirstInvalidField picks the violated field a single summary message should
// reference, following the shared-then-mode-specific rule order.
func FirstInvalidField(mode string, errs map[string]string) string {
	order := immediateRuleOrder
	if models.Mode(mode) == models.ModeLink {
		order = linkRuleOrder
	}
	for _, field := range order {
		if _, violated := errs[field]; violated {
			return field
		}
	}
	return ""
}
