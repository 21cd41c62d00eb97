package models

// SlotLike is a raw availability entry as returned by the partner API.
// The feed is loosely structured: depending on the venue's upstream system a
// record may carry an exact clock field, a combined "HH:MM-HH:MM" label, or
// only a free-form label with a time buried inside it.
type SlotLike struct {
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	Time      string  `json:"time,omitempty"`
	Label     string  `json:"label,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Available *bool   `json:"available,omitempty"` // nil means available
}

// Slot is a normalized booking window. Times are canonical "HH:MM:SS".
// Two slots are equal iff StartTime and EndTime are equal.
type Slot struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Label     string  `json:"label"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// Key returns the equality key for deduplication.
func (s Slot) Key() string {
	return s.StartTime + "|" + s.EndTime
}
