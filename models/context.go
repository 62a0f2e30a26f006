package models

import "time"

// ConversationState enumerates the dialogue states. Transitions only ever
// move along the edges the reducer defines; ABANDONED is reached solely via
// idle expiry.
type ConversationState string

const (
	StateGreeting               ConversationState = "greeting"
	StateAwaitingLocation       ConversationState = "awaiting_location"
	StateAwaitingDates          ConversationState = "awaiting_dates"
	StateAwaitingGuests         ConversationState = "awaiting_guests"
	StateSearching              ConversationState = "searching"
	StateResultsPresented       ConversationState = "results_presented"
	StateFiltering              ConversationState = "filtering"
	StateAwaitingBookingConfirm ConversationState = "awaiting_booking_confirm"
	StateBookingInProgress      ConversationState = "booking_in_progress"
	StateCompleted              ConversationState = "completed"
	StateCancelled              ConversationState = "cancelled"
	StateAbandoned              ConversationState = "abandoned"
)

// Terminal reports whether the forward flow ends at this state. CANCELLED
// can still be reached from COMPLETED when a booking reference exists.
func (s ConversationState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateAbandoned
}

// SearchSlots is the per-session slot store. Slots fill opportunistically:
// a value is accepted whenever mentioned, independent of the state that
// expects it.
type SearchSlots struct {
	Destination     string            `json:"destination,omitempty" bson:"destination,omitempty"`
	Dates           *DateRange        `json:"dates,omitempty" bson:"dates,omitempty"`
	Guests          int               `json:"guests,omitempty" bson:"guests,omitempty"`
	Rooms           int               `json:"rooms,omitempty" bson:"rooms,omitempty"`
	Amenities       []string          `json:"amenities,omitempty" bson:"amenities,omitempty"`
	PriceMin        float64           `json:"priceMin,omitempty" bson:"priceMin,omitempty"`
	PriceMax        float64           `json:"priceMax,omitempty" bson:"priceMax,omitempty"`
	CandidateHotels []HotelSummary    `json:"candidateHotels,omitempty" bson:"candidateHotels,omitempty"`
	SelectedHotel   *HotelSummary     `json:"selectedHotel,omitempty" bson:"selectedHotel,omitempty"`
	BookingRef      *BookingReference `json:"bookingRef,omitempty" bson:"bookingRef,omitempty"`
}

// HasAmenity reports whether the amenity is already recorded.
func (s *SearchSlots) HasAmenity(a string) bool {
	for _, have := range s.Amenities {
		if have == a {
			return true
		}
	}
	return false
}

// ReadyToSearch reports whether all slots required for an automatic search
// are present.
func (s *SearchSlots) ReadyToSearch() bool {
	return s.Destination != "" && s.Dates != nil && s.Guests > 0
}

// ConversationContext is the mutable per-session record of slots and current
// state. It is owned by the session manager and mutated only through the
// reducer.
type ConversationContext struct {
	SessionID   string            `json:"sessionId" bson:"sessionId"`
	State       ConversationState `json:"state" bson:"state"`
	Slots       SearchSlots       `json:"slots" bson:"slots"`
	LastUpdated time.Time         `json:"lastUpdated" bson:"lastUpdated"`
}

// NewConversationContext returns a fresh context in the initial state.
func NewConversationContext(sessionID string, now time.Time) ConversationContext {
	return ConversationContext{
		SessionID:   sessionID,
		State:       StateGreeting,
		LastUpdated: now,
	}
}
