package models

// HotelSummary is the provider's view of a bookable hotel, trimmed to what
// the chat surface presents.
type HotelSummary struct {
	ID           string   `json:"id" bson:"id"`
	Name         string   `json:"name" bson:"name"`
	Address      string   `json:"address" bson:"address"`
	Rating       float64  `json:"rating" bson:"rating"`
	Price        float64  `json:"price" bson:"price"`
	Currency     string   `json:"currency" bson:"currency"`
	Amenities    []string `json:"amenities" bson:"amenities"`
	Description  string   `json:"description,omitempty" bson:"description,omitempty"`
	PricingToken string   `json:"pricingToken,omitempty" bson:"pricingToken,omitempty"`
}

// BookingReference identifies a confirmed booking at the provider.
type BookingReference struct {
	BookingID string `json:"bookingId" bson:"bookingId"`
	HotelID   string `json:"hotelId" bson:"hotelId"`
	Status    string `json:"status" bson:"status"`
}

// CancellationResult is the provider's answer to a cancellation request.
type CancellationResult struct {
	BookingID string `json:"bookingId" bson:"bookingId"`
	Cancelled bool   `json:"cancelled" bson:"cancelled"`
	Message   string `json:"message,omitempty" bson:"message,omitempty"`
}
