package hotel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"concierge/models"
	"concierge/services/chatbot"
	"concierge/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResults caps how many hotels a search surfaces in chat.
const maxResults = 5

// APIProvider talks to the upstream hotel API over HTTP. It satisfies the
// chat engine's HotelProvider interface.
type APIProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewAPIProvider builds a provider for the given upstream base URL.
func NewAPIProvider(baseURL, apiKey string) *APIProvider {
	return &APIProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type occupancy struct {
	NoOfRoom int `json:"noOfRoom"`
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type searchRequest struct {
	CheckInDate  string      `json:"checkInDate"`
	CheckOutDate string      `json:"checkOutDate"`
	Lat          float64     `json:"lat"`
	Lng          float64     `json:"lng"`
	Nationality  string      `json:"nationality"`
	Type         string      `json:"type"`
	Occupancies  []occupancy `json:"occupancies"`
	Currency     string      `json:"currency"`
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Hotels []models.HotelSummary `json:"hotels"`
	} `json:"data"`
	Message string `json:"message"`
}

// SearchHotels queries the upstream API and returns at most maxResults
// hotels around the destination.
func (p *APIProvider) SearchHotels(ctx context.Context, destination string, dates models.DateRange, guests, rooms int) ([]models.HotelSummary, error) {
	coords := Geocode(destination)
	req := searchRequest{
		CheckInDate:  dates.CheckIn.Format("2006-01-02"),
		CheckOutDate: dates.CheckOut.Format("2006-01-02"),
		Lat:          coords.Lat,
		Lng:          coords.Lng,
		Nationality:  "US",
		Type:         "leisure",
		Occupancies:  []occupancy{{NoOfRoom: rooms, Adults: guests}},
		Currency:     "USD",
	}

	var resp searchResponse
	if err := p.post(ctx, "/api/hotels/search", req, &resp); err != nil {
		return nil, chatbot.NewProviderError("search", "upstream search call failed", err)
	}
	if !resp.Success {
		return nil, chatbot.NewProviderError("search", resp.Message, nil)
	}

	hotels := resp.Data.Hotels
	if len(hotels) > maxResults {
		hotels = hotels[:maxResults]
	}
	utils.GetLogger().Debug("hotel search completed",
		zap.String("destination", destination), zap.Int("results", len(hotels)))
	return hotels, nil
}

// FilterHotels narrows candidates in process: a hotel survives when it
// offers at least one requested amenity and its price sits inside the
// requested window. Zero bounds mean unbounded.
func (p *APIProvider) FilterHotels(candidates []models.HotelSummary, amenities []string, priceMin, priceMax float64) []models.HotelSummary {
	return Filter(candidates, amenities, priceMin, priceMax)
}

type bookRequest struct {
	BookingID    string `json:"bookingId"`
	HotelID      string `json:"hotelId"`
	PricingToken string `json:"pricingToken"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Guests       int    `json:"guests"`
	Rooms        int    `json:"rooms"`
}

type bookResponse struct {
	Status string `json:"status"`
	Data   struct {
		BookingID string `json:"bookingId"`
	} `json:"data"`
	Message string `json:"message"`
}

// BookHotel books the selected hotel using the conversation's slots. Missing
// selection data is a validation failure, not a provider outage.
func (p *APIProvider) BookHotel(ctx context.Context, hotelID string, convCtx models.ConversationContext) (*models.BookingReference, error) {
	slots := convCtx.Slots
	if slots.SelectedHotel == nil || slots.SelectedHotel.ID != hotelID {
		return nil, &chatbot.ValidationError{Slot: "selected_hotel", Message: "no hotel selected"}
	}
	if slots.Dates == nil {
		return nil, &chatbot.ValidationError{Slot: "dates", Message: "stay dates missing"}
	}

	rooms := slots.Rooms
	if rooms == 0 {
		rooms = 1
	}
	req := bookRequest{
		BookingID:    fmt.Sprintf("CHAT_%s_%s", hotelID, uuid.New().String()),
		HotelID:      hotelID,
		PricingToken: slots.SelectedHotel.PricingToken,
		CheckInDate:  slots.Dates.CheckIn.Format("2006-01-02"),
		CheckOutDate: slots.Dates.CheckOut.Format("2006-01-02"),
		Guests:       slots.Guests,
		Rooms:        rooms,
	}

	var resp bookResponse
	if err := p.post(ctx, "/api/hotels/book", req, &resp); err != nil {
		return nil, chatbot.NewProviderError("book", "upstream booking call failed", err)
	}
	if resp.Status != "success" {
		return nil, chatbot.NewProviderError("book", resp.Message, nil)
	}

	bookingID := resp.Data.BookingID
	if bookingID == "" {
		bookingID = req.BookingID
	}
	return &models.BookingReference{
		BookingID: bookingID,
		HotelID:   hotelID,
		Status:    "confirmed",
	}, nil
}

type cancelRequest struct {
	BookingID string `json:"bookingId"`
}

type cancelResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CancelBooking cancels a confirmed booking at the provider.
func (p *APIProvider) CancelBooking(ctx context.Context, ref models.BookingReference) (*models.CancellationResult, error) {
	var resp cancelResponse
	if err := p.post(ctx, "/api/hotels/cancel", cancelRequest{BookingID: ref.BookingID}, &resp); err != nil {
		return nil, chatbot.NewProviderError("cancel", "upstream cancel call failed", err)
	}
	if resp.Status != "success" {
		return nil, chatbot.NewProviderError("cancel", resp.Message, nil)
	}
	return &models.CancellationResult{
		BookingID: ref.BookingID,
		Cancelled: true,
		Message:   resp.Message,
	}, nil
}

// post sends a JSON request to the upstream API and decodes the reply.
func (p *APIProvider) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
