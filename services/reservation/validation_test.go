package reservation

import (
	"testing"
	"time"

	"courtflow/models"
)

func fixedEngine() *ValidationEngine {
	return &ValidationEngine{
		Now: func() time.Time {
			return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func submittableDraft(mode models.Mode) models.BookingDraft {
	draft := models.BookingDraft{
		DraftID:         "draft-1",
		Mode:            mode,
		ResourceID:      "court-3",
		Date:            "2025-03-10",
		DurationMinutes: 60,
		SelectedSlot:    &models.Slot{StartTime: "14:00:00", EndTime: "15:00:00", Available: true},
	}
	switch mode {
	case models.ModeImmediate:
		draft.CounterpartyID = "cp-7"
		draft.MatchKind = models.MatchSingle
		draft.PaymentMethod = "cash"
	case models.ModeLink:
		draft.CounterpartyPhone = "+966501234567"
	}
	return draft
}

func TestValidateEmptyDraft(t *testing.T) {
	engine := fixedEngine()

	t.Run("immediate", func(t *testing.T) {
		errs := engine.Validate(models.BookingDraft{Mode: models.ModeImmediate})
		for _, field := range []string{
			FieldResource, FieldDate, FieldDuration, FieldSlot,
			FieldCounterparty, FieldMatchKind, FieldPaymentMethod,
		} {
			if _, ok := errs[field]; !ok {
				t.Errorf("missing violation for %s", field)
			}
		}
		if _, ok := errs[FieldCounterpartyPhone]; ok {
			t.Error("phone rule must not apply in immediate mode")
		}
		if _, ok := errs[FieldReceiptEmail]; ok {
			t.Error("receipt email rule must not apply when the toggle is off")
		}
	})

	t.Run("link", func(t *testing.T) {
		errs := engine.Validate(models.BookingDraft{Mode: models.ModeLink})
		for _, field := range []string{FieldResource, FieldDate, FieldDuration, FieldSlot, FieldCounterpartyPhone} {
			if _, ok := errs[field]; !ok {
				t.Errorf("missing violation for %s", field)
			}
		}
		for _, field := range []string{FieldCounterparty, FieldMatchKind, FieldPaymentMethod} {
			if _, ok := errs[field]; ok {
				t.Errorf("%s rule must not apply in link mode", field)
			}
		}
	})
}

func TestValidateSubmittableDraft(t *testing.T) {
	engine := fixedEngine()
	for _, mode := range []models.Mode{models.ModeImmediate, models.ModeLink} {
		if errs := engine.Validate(submittableDraft(mode)); len(errs) != 0 {
			t.Errorf("mode %s: expected clean draft, got %v", mode, errs)
		}
	}
}

func TestValidateDateRules(t *testing.T) {
	engine := fixedEngine()
	cases := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "today", date: "2025-03-01", wantErr: false},
		{name: "future", date: "2025-06-15", wantErr: false},
		{name: "yesterday", date: "2025-02-28", wantErr: true},
		{name: "malformed", date: "10/03/2025", wantErr: true},
		{name: "empty", date: "", wantErr: true},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			draft := submittableDraft(models.ModeImmediate)
			draft.Date = tt.date
			_, got := engine.Validate(draft)[FieldDate]
			if got != tt.wantErr {
				t.Fatalf("date %q: violation = %v, want %v", tt.date, got, tt.wantErr)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	engine := fixedEngine()
	for _, d := range models.AllowedDurations {
		draft := submittableDraft(models.ModeImmediate)
		draft.DurationMinutes = d
		if _, bad := engine.Validate(draft)[FieldDuration]; bad {
			t.Errorf("duration %d should be allowed", d)
		}
	}
	for _, d := range []int{0, 45, 75, 180} {
		draft := submittableDraft(models.ModeImmediate)
		draft.DurationMinutes = d
		if _, bad := engine.Validate(draft)[FieldDuration]; !bad {
			t.Errorf("duration %d should be rejected", d)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	engine := fixedEngine()
	cases := []struct {
		phone string
		valid bool
	}{
		{"+966501234567", true},
		{"966501234567", true},
		{"+15551234567", true},
		{"0501234567", false},  // leading zero
		{"0501234567x", false}, // trailing junk
		{"abc", false},
		{"+", false},
	}
	for _, tt := range cases {
		draft := submittableDraft(models.ModeLink)
		draft.CounterpartyPhone = tt.phone
		_, violated := engine.Validate(draft)[FieldCounterpartyPhone]
		if violated == tt.valid {
			t.Errorf("phone %q: valid = %v, want %v", tt.phone, !violated, tt.valid)
		}
	}
}

func TestValidateLinkAcceptsDirectoryCounterparty(t *testing.T) {
	// A known directory entry satisfies link mode without any phone.
	engine := fixedEngine()
	draft := submittableDraft(models.ModeLink)
	draft.CounterpartyPhone = ""
	draft.CounterpartyID = "cp-7"
	if errs := engine.Validate(draft); len(errs) != 0 {
		t.Fatalf("expected clean draft, got %v", errs)
	}
}

func TestValidateReceiptEmail(t *testing.T) {
	engine := fixedEngine()
	cases := []struct {
		name    string
		send    bool
		email   string
		wantErr bool
	}{
		{name: "toggle off ignores email", send: false, email: "", wantErr: false},
		{name: "toggle on requires email", send: true, email: "", wantErr: true},
		{name: "toggle on rejects malformed", send: true, email: "not-an-email", wantErr: true},
		{name: "toggle on accepts valid", send: true, email: "player@example.com", wantErr: false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			draft := submittableDraft(models.ModeImmediate)
			draft.SendReceiptEmail = tt.send
			draft.ReceiptEmail = tt.email
			_, got := engine.Validate(draft)[FieldReceiptEmail]
			if got != tt.wantErr {
				t.Fatalf("violation = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestFirstInvalidField(t *testing.T) {
	engine := fixedEngine()

	errs := engine.Validate(models.BookingDraft{Mode: models.ModeImmediate})
	if got := FirstInvalidField(string(models.ModeImmediate), errs); got != FieldResource {
		t.Errorf("first field = %q, want %q", got, FieldResource)
	}

	draft := submittableDraft(models.ModeImmediate)
	draft.CounterpartyID = ""
	draft.PaymentMethod = ""
	errs = engine.Validate(draft)
	if got := FirstInvalidField(string(models.ModeImmediate), errs); got != FieldCounterparty {
		t.Errorf("first field = %q, want %q", got, FieldCounterparty)
	}

	linkErrs := engine.Validate(models.BookingDraft{Mode: models.ModeLink})
	if got := FirstInvalidField(string(models.ModeLink), linkErrs); got != FieldResource {
		t.Errorf("first link field = %q, want %q", got, FieldResource)
	}

	if got := FirstInvalidField(string(models.ModeImmediate), nil); got != "" {
		t.Errorf("clean draft first field = %q, want empty", got)
	}
}
