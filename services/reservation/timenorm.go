package reservation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"courtflow/models"
)

// The availability feed mixes several time representations. Normalization
// tries a fixed pattern order; the order is part of the contract because a
// malformed record may match more than one pattern:
//
//  1. a field that is already an exact "HH:MM" or "HH:MM:SS" clock
//  2. a combined "HH:MM-HH:MM" label carrying both bounds
//  3. any "HH:MM" substring anywhere, with the end derived from the duration
var (
	exactClockRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)(?::([0-5]\d))?$`)
	clockRangeRe = regexp.MustCompile(`([01]?\d|2[0-3]):([0-5]\d)\s*-\s*([01]?\d|2[0-3]):([0-5]\d)`)
	anyClockRe   = regexp.MustCompile(`([01]?\d|2[0-3]):([0-5]\d)`)
)

// NormalizedTime is the canonical wire form of a slot's bounds.
type NormalizedTime struct {
	StartTime string // "HH:MM:SS"
	EndTime   string // "HH:MM:SS"
}

// NormalizeSlotTime converts a raw slot entry into canonical start and end
// times. durationMinutes is used to derive the end time whenever the payload
// does not carry an explicit one. Returns TimeFormatError when no pattern
// matches; callers must treat that as a fatal input error, not a transient
// fetch failure.
func NormalizeSlotTime(raw models.SlotLike, durationMinutes int) (NormalizedTime, error) {
	// Pattern 1: an exact clock field.
	for _, field := range []string{raw.StartTime, raw.Time} {
		if m := exactClockRe.FindStringSubmatch(field); m != nil {
			start := canonicalClock(m[1], m[2], m[3])
			// An explicit exact end time is trusted over the derived one.
			if em := exactClockRe.FindStringSubmatch(raw.EndTime); em != nil {
				return NormalizedTime{StartTime: start, EndTime: canonicalClock(em[1], em[2], em[3])}, nil
			}
			return NormalizedTime{StartTime: start, EndTime: deriveEnd(m[1], m[2], durationMinutes)}, nil
		}
	}

	// Pattern 2: a combined "HH:MM-HH:MM" label.
	for _, field := range []string{raw.Label, raw.Time} {
		if m := clockRangeRe.FindStringSubmatch(field); m != nil {
			return NormalizedTime{
				StartTime: canonicalClock(m[1], m[2], ""),
				EndTime:   canonicalClock(m[3], m[4], ""),
			}, nil
		}
	}

	// Pattern 3: any clock substring anywhere; end is duration-derived.
	for _, field := range []string{raw.StartTime, raw.Time, raw.Label, raw.EndTime} {
		if m := anyClockRe.FindStringSubmatch(field); m != nil {
			return NormalizedTime{
				StartTime: canonicalClock(m[1], m[2], ""),
				EndTime:   deriveEnd(m[1], m[2], durationMinutes),
			}, nil
		}
	}

	return NormalizedTime{}, &TimeFormatError{
		Raw: fmt.Sprintf("start=%q end=%q time=%q label=%q", raw.StartTime, raw.EndTime, raw.Time, raw.Label),
	}
}

// canonicalClock zero-pads a matched clock to "HH:MM:SS".
func canonicalClock(hh, mm, ss string) string {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	s := 0
	if ss != "" {
		s, _ = strconv.Atoi(ss)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// deriveEnd computes start + duration, wrapping hour arithmetic modulo 24
// without carrying into the date. Same-day bookings only; the calling layer
// owns that invariant.
func deriveEnd(hh, mm string, durationMinutes int) string {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	total := h*60 + m + durationMinutes
	return fmt.Sprintf("%02d:%02d:00", (total/60)%24, total%60)
}

// CanonicalDate renders a local calendar date in ISO "YYYY-MM-DD" form.
func CanonicalDate(t time.Time) string {
	return t.Format("2006-01-02")
}
