package reservation

import (
	"encoding/json"
	"fmt"
	"time"

	"courtflow/models"
)

// Field names accepted by SetField. They double as the keys of the
// validation error map, so handlers can address form fields directly.
const (
	FieldVenue             = "venueId"
	FieldResource          = "resourceId"
	FieldDate              = "date"
	FieldDuration          = "duration"
	FieldSlot              = "selectedSlot"
	FieldMode              = "mode"
	FieldCounterparty      = "counterpartyId"
	FieldCounterpartyPhone = "counterpartyPhone"
	FieldMatchKind         = "matchKind"
	FieldNotes             = "notes"
	FieldPaymentMethod     = "paymentMethod"
	FieldSendReceiptEmail  = "sendReceiptEmail"
	FieldReceiptEmail      = "receiptEmail"
	FieldRecording         = "recordingEnabled"
)

// cascade maps an upstream field to the downstream fields it invalidates.
// Any entry here also clears the cached availability list. All resets go
// through this one table; handlers never clear fields ad hoc.
var cascade = map[string][]string{
	FieldVenue:    {FieldResource, FieldSlot},
	FieldResource: {FieldSlot},
	FieldDate:     {FieldSlot},
	FieldDuration: {FieldSlot},
}

// SelectionState holds one BookingDraft and enforces cascade invalidation.
// It never performs I/O; persistence is the session service's concern.
type SelectionState struct {
	draft models.BookingDraft
}

// NewSelectionState wraps an existing draft, typically loaded from Redis.
func NewSelectionState(draft models.BookingDraft) *SelectionState {
	return &SelectionState{draft: draft}
}

// Snapshot returns a read-only copy of the current draft.
func (s *SelectionState) Snapshot() models.BookingDraft {
	copied := s.draft
	if s.draft.SelectedSlot != nil {
		slot := *s.draft.SelectedSlot
		copied.SelectedSlot = &slot
	}
	copied.Availability = append([]models.Slot(nil), s.draft.Availability...)
	return copied
}

// Reset clears every selection and the availability cache, keeping only the
// draft identity.
func (s *SelectionState) Reset() {
	s.draft = models.BookingDraft{
		DraftID:   s.draft.DraftID,
		Mode:      models.ModeImmediate,
		CreatedAt: s.draft.CreatedAt,
	}
}

// SetField applies the field write, then the cascade table. Writes on
// unrelated fields commute; a field and its dependent do not (last cascade
// wins).
func (s *SelectionState) SetField(name string, value any) error {
	switch name {
	case FieldVenue:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.VenueID = v
	case FieldResource:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.ResourceID = v
	case FieldDate:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.Date = v
	case FieldDuration:
		v, err := asInt(name, value)
		if err != nil {
			return err
		}
		s.draft.DurationMinutes = v
	case FieldSlot:
		switch slot := value.(type) {
		case nil:
			s.draft.SelectedSlot = nil
		case models.Slot:
			s.draft.SelectedSlot = &slot
		case *models.Slot:
			s.draft.SelectedSlot = slot
		default:
			return fmt.Errorf("field %s: unsupported value type %T", name, value)
		}
	case FieldMode:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		mode := models.Mode(v)
		if !mode.Valid() {
			return fmt.Errorf("field %s: unknown mode %q", name, v)
		}
		s.draft.Mode = mode
	case FieldCounterparty:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.CounterpartyID = v
	case FieldCounterpartyPhone:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.CounterpartyPhone = v
	case FieldMatchKind:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.MatchKind = models.MatchKind(v)
	case FieldNotes:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.Notes = v
	case FieldPaymentMethod:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.PaymentMethod = v
	case FieldSendReceiptEmail:
		v, err := asBool(name, value)
		if err != nil {
			return err
		}
		s.draft.SendReceiptEmail = v
	case FieldReceiptEmail:
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		s.draft.ReceiptEmail = v
	case FieldRecording:
		v, err := asBool(name, value)
		if err != nil {
			return err
		}
		s.draft.RecordingEnabled = v
	default:
		return fmt.Errorf("unknown field %q", name)
	}

	s.applyCascade(name)
	return nil
}

// applyCascade clears every downstream field of the written one, plus the
// availability cache, atomically with the write.
func (s *SelectionState) applyCascade(name string) {
	downstream, ok := cascade[name]
	if !ok {
		return
	}
	for _, field := range downstream {
		switch field {
		case FieldResource:
			s.draft.ResourceID = ""
		case FieldSlot:
			s.draft.SelectedSlot = nil
		}
	}
	s.draft.Availability = nil
}

// TripleComplete reports whether the (resource, date, duration) inputs of
// the availability resolver are all set.
func (s *SelectionState) TripleComplete() bool {
	return s.draft.ResourceID != "" && s.draft.Date != "" && s.draft.DurationMinutes != 0
}

// DecodeFieldValue decodes a raw JSON value into the Go type SetField
// expects for the given field.
func DecodeFieldValue(field string, raw json.RawMessage) (any, error) {
	switch field {
	case FieldDuration:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("field %s: expected a number: %w", field, err)
		}
		return v, nil
	case FieldSlot:
		if string(raw) == "null" {
			return nil, nil
		}
		var v models.Slot
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("field %s: expected a slot object: %w", field, err)
		}
		return v, nil
	case FieldSendReceiptEmail, FieldRecording:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("field %s: expected a boolean: %w", field, err)
		}
		return v, nil
	default:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("field %s: expected a string: %w", field, err)
		}
		return v, nil
	}
}

func asString(name string, value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %s: expected string, got %T", name, value)
	}
	return v, nil
}

func asInt(name string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("field %s: expected number, got %T", name, value)
	}
}

func asBool(name string, value any) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("field %s: expected bool, got %T", name, value)
	}
	return v, nil
}

// NewDraft builds a fresh draft with defaults applied.
func NewDraft(id string, mode models.Mode, now time.Time) models.BookingDraft {
	if mode == "" {
		mode = models.ModeImmediate
	}
	return models.BookingDraft{
		DraftID:   id,
		Mode:      mode,
		CreatedAt: now,
	}
}
