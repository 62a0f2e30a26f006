package models

import "time"

// IntentType enumerates the closed set of utterance intents the classifier
// can produce. Unmatched input maps to IntentUnknown, never an error.
type IntentType string

const (
	IntentGreet          IntentType = "greet"
	IntentSearchLocation IntentType = "search_location"
	IntentProvideDates   IntentType = "provide_dates"
	IntentProvideGuests  IntentType = "provide_guests"
	IntentFilter         IntentType = "filter"
	IntentBook           IntentType = "book"
	IntentConfirm        IntentType = "confirm"
	IntentCancel         IntentType = "cancel"
	IntentHelp           IntentType = "help"
	IntentUnknown        IntentType = "unknown"
)

// EntityKind enumerates the typed fragments the extractor recognizes.
type EntityKind string

const (
	EntityLocation   EntityKind = "location"
	EntityDateRange  EntityKind = "date_range"
	EntityGuestCount EntityKind = "guest_count"
	EntityRoomCount  EntityKind = "room_count"
	EntityAmenity    EntityKind = "amenity"
	EntityPriceBound EntityKind = "price_bound"
)

// PriceBound is a one-sided or two-sided price constraint in whole currency
// units. A zero Max means unbounded above.
type PriceBound struct {
	Min float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max float64 `json:"max,omitempty" bson:"max,omitempty"`
}

// DateRange is a check-in/check-out pair. Dates are date-only; times are
// always midnight UTC.
type DateRange struct {
	CheckIn  time.Time `json:"checkIn" bson:"checkIn"`
	CheckOut time.Time `json:"checkOut" bson:"checkOut"`
}

// Entity is a typed value extracted from utterance text. Value carries the
// canonical surface form; the typed fields are populated per Kind.
type Entity struct {
	Kind      EntityKind  `json:"kind" bson:"kind"`
	Value     string      `json:"value" bson:"value"`
	Start     int         `json:"start" bson:"start"`
	End       int         `json:"end" bson:"end"`
	DateRange *DateRange  `json:"dateRange,omitempty" bson:"dateRange,omitempty"`
	Count     int         `json:"count,omitempty" bson:"count,omitempty"`
	Price     *PriceBound `json:"price,omitempty" bson:"price,omitempty"`
}

// Intent is the classified purpose of a user utterance.
type Intent struct {
	Type       IntentType `json:"type" bson:"type"`
	Confidence float64    `json:"confidence" bson:"confidence"`
	RawText    string     `json:"rawText" bson:"rawText"`
}
