package models

// Venue is a facility grouping one or more bookable resources.
type Venue struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	NameAr string `bson:"nameAr,omitempty" json:"nameAr,omitempty"`
	City   string `bson:"city" json:"city"`
	Active bool   `bson:"active" json:"active"`
}

// Resource is a bookable court/facility unit inside a venue.
type Resource struct {
	ID      string `bson:"id" json:"id"`
	VenueID string `bson:"venueId" json:"venueId"`
	Name    string `bson:"name" json:"name"`
	Indoor  bool   `bson:"indoor" json:"indoor"`
	Size    string `bson:"size,omitempty" json:"size,omitempty"` // "single" or "double"
}

// Counterparty is the person a reservation is made for. It may be a known
// directory entry or only a phone number captured at booking time.
type Counterparty struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Page holds standard paging parameters for directory reads.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
}

// Clamp applies sane defaults and upper bounds.
func (p Page) Clamp() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 20
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}
