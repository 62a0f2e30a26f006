package models

// ResponseCategory tells the rendering layer what kind of reply to produce.
// The engine never emits user-facing prose on its own authority; it emits a
// category plus payload and the responder templates the text.
type ResponseCategory string

const (
	CategoryGreeting          ResponseCategory = "greeting"
	CategoryAskLocation       ResponseCategory = "ask_location"
	CategoryAskDates          ResponseCategory = "ask_dates"
	CategoryAskGuests         ResponseCategory = "ask_guests"
	CategoryPresentResults    ResponseCategory = "present_results"
	CategoryNoResults         ResponseCategory = "no_results"
	CategoryAskBookingConfirm ResponseCategory = "ask_booking_confirm"
	CategoryBookingConfirmed  ResponseCategory = "booking_confirmed"
	CategoryCancelled         ResponseCategory = "cancelled"
	CategoryRetryableError    ResponseCategory = "retryable_error"
	CategoryValidationError   ResponseCategory = "validation_error"
	CategoryClarify           ResponseCategory = "clarify"
	CategoryHelp              ResponseCategory = "help"
	CategoryCompletedHint     ResponseCategory = "completed_hint"
)

// ChatResponse is what a processed turn returns to the API layer.
type ChatResponse struct {
	SessionID   string            `json:"sessionId"`
	Category    ResponseCategory  `json:"category"`
	Message     string            `json:"message"`
	Suggestions []string          `json:"suggestions,omitempty"`
	State       ConversationState `json:"state"`
	Slots       SearchSlots       `json:"slots"`
	Intent      *Intent           `json:"intent,omitempty"`
	Entities    []Entity          `json:"entities,omitempty"`
	Hotels      []HotelSummary    `json:"hotels,omitempty"`
	Booking     *BookingReference `json:"booking,omitempty"`
}
