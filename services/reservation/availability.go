package reservation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"courtflow/models"
	"courtflow/utils"

	"go.uber.org/zap"
)

// AvailabilitySource is the external availability collaborator.
type AvailabilitySource interface {
	GetAvailability(ctx context.Context, resourceID, date string, durationMinutes int) ([]models.SlotLike, error)
}

type tripleKey struct {
	resourceID      string
	date            string
	durationMinutes int
}

// DefaultAvailabilityResolver resolves candidate slots for one draft. Result
// application is last-writer-wins keyed by the input triple, not by arrival
// order: a response issued for an older triple is discarded once a newer
// request has been issued or applied.
type DefaultAvailabilityResolver struct {
	Source AvailabilitySource

	mu         sync.Mutex
	latest     tripleKey
	seq        uint64
	appliedSeq uint64
	slots      []models.Slot
}

// NewAvailabilityResolver returns a resolver bound to one draft lifetime.
func NewAvailabilityResolver(source AvailabilitySource) *DefaultAvailabilityResolver {
	return &DefaultAvailabilityResolver{Source: source}
}

// Resolve fetches and normalizes candidate slots for the given triple. An
// incomplete triple yields an empty list without issuing a request. A stale
// response returns ErrSuperseded and is never applied.
func (r *DefaultAvailabilityResolver) Resolve(ctx context.Context, resourceID, date string, durationMinutes int) ([]models.Slot, error) {
	if resourceID == "" || date == "" || durationMinutes == 0 {
		return nil, nil
	}

	key := tripleKey{resourceID: resourceID, date: date, durationMinutes: durationMinutes}

	r.mu.Lock()
	r.seq++
	mySeq := r.seq
	r.latest = key
	r.mu.Unlock()

	raw, fetchErr := r.Source.GetAvailability(ctx, resourceID, date, durationMinutes)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest != key || mySeq <= r.appliedSeq {
		return nil, ErrSuperseded
	}
	if fetchErr != nil {
		return nil, &AvailabilityFetchError{Err: fetchErr}
	}

	slots := normalizeSlots(raw, durationMinutes)
	r.appliedSeq = mySeq
	r.slots = slots
	return slots, nil
}

// Current returns the last applied slot list.
func (r *DefaultAvailabilityResolver) Current() []models.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Slot(nil), r.slots...)
}

// normalizeSlots maps heterogeneous raw entries through the time normalizer,
// drops unrecognizable records, deduplicates by start+end (keeping an
// available entry over an unavailable one) and orders by start ascending.
func normalizeSlots(raw []models.SlotLike, durationMinutes int) []models.Slot {
	logger := utils.GetLogger()
	byKey := make(map[string]models.Slot, len(raw))

	for i, entry := range raw {
		nt, err := NormalizeSlotTime(entry, durationMinutes)
		if err != nil {
			logger.Warn("skipping unrecognizable availability entry",
				zap.Int("index", i), zap.Error(err))
			continue
		}

		available := true
		if entry.Available != nil {
			available = *entry.Available
		}
		label := entry.Label
		if label == "" {
			label = fmt.Sprintf("%s - %s", nt.StartTime[:5], nt.EndTime[:5])
		}
		price := entry.Price
		if price < 0 {
			price = 0
		}

		slot := models.Slot{
			StartTime: nt.StartTime,
			EndTime:   nt.EndTime,
			Label:     label,
			Price:     price,
			Available: available,
		}

		existing, seen := byKey[slot.Key()]
		if !seen || (!existing.Available && slot.Available) {
			byKey[slot.Key()] = slot
		}
	}

	slots := make([]models.Slot, 0, len(byKey))
	for _, slot := range byKey {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots
}
