package chatbot

import (
	"context"
	"testing"
	"time"

	"concierge/models"
)

// fakeProvider counts calls and serves canned results.
type fakeProvider struct {
	searchCalls int
	bookCalls   int
	cancelCalls int

	searchHotels []models.HotelSummary
	searchErr    error
	bookErr      error
	cancelErr    error
}

func (f *fakeProvider) SearchHotels(ctx context.Context, destination string, dates models.DateRange, guests, rooms int) ([]models.HotelSummary, error) {
	f.searchCalls++
	return f.searchHotels, f.searchErr
}

func (f *fakeProvider) FilterHotels(candidates []models.HotelSummary, amenities []string, priceMin, priceMax float64) []models.HotelSummary {
	out := make([]models.HotelSummary, 0, len(candidates))
	for _, h := range candidates {
		if priceMax > 0 && h.Price > priceMax {
			continue
		}
		out = append(out, h)
	}
	return out
}

func (f *fakeProvider) BookHotel(ctx context.Context, hotelID string, convCtx models.ConversationContext) (*models.BookingReference, error) {
	f.bookCalls++
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &models.BookingReference{BookingID: "bk-" + hotelID, HotelID: hotelID, Status: "confirmed"}, nil
}

func (f *fakeProvider) CancelBooking(ctx context.Context, ref models.BookingReference) (*models.CancellationResult, error) {
	f.cancelCalls++
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &models.CancellationResult{BookingID: ref.BookingID, Cancelled: true}, nil
}

func newTestEngine(fake *fakeProvider) *DefaultChatEngine {
	sessions := NewSessionManager(20, time.Hour, nil, nil)
	return NewDefaultChatEngine(sessions, fake)
}

func send(t *testing.T, e *DefaultChatEngine, sessionID, text string) *models.ChatResponse {
	t.Helper()
	resp, err := e.HandleMessage(context.Background(), sessionID, text, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", text, err)
	}
	return resp
}

func TestEngineSearchFiresExactlyOnce(t *testing.T) {
	fake := &fakeProvider{searchHotels: sampleHotels()}
	e := newTestEngine(fake)

	send(t, e, "s1", "I need a hotel in New York")
	if fake.searchCalls != 0 {
		t.Fatalf("search fired before slots were complete: %d", fake.searchCalls)
	}
	send(t, e, "s1", "this weekend")
	if fake.searchCalls != 0 {
		t.Fatalf("search fired before guests arrived: %d", fake.searchCalls)
	}

	resp := send(t, e, "s1", "2 people")
	if fake.searchCalls != 1 {
		t.Fatalf("searchCalls = %d, want exactly 1", fake.searchCalls)
	}
	if resp.State != models.StateResultsPresented {
		t.Errorf("state = %s, want results_presented", resp.State)
	}
	if len(resp.Hotels) != 3 {
		t.Errorf("hotels = %d, want 3", len(resp.Hotels))
	}
}

func TestEngineFullBookingFlow(t *testing.T) {
	fake := &fakeProvider{searchHotels: sampleHotels()}
	e := newTestEngine(fake)

	send(t, e, "s1", "hello")
	send(t, e, "s1", "I need a hotel in New York this weekend for 2 guests")

	resp := send(t, e, "s1", "book the first one")
	if resp.State != models.StateAwaitingBookingConfirm {
		t.Fatalf("state = %s, want awaiting_booking_confirm", resp.State)
	}

	resp = send(t, e, "s1", "yes")
	if fake.bookCalls != 1 {
		t.Fatalf("bookCalls = %d, want 1", fake.bookCalls)
	}
	if resp.State != models.StateCompleted {
		t.Errorf("state = %s, want completed", resp.State)
	}
	if resp.Booking == nil || resp.Booking.BookingID != "bk-h1" {
		t.Errorf("booking = %+v", resp.Booking)
	}

	// Cancelling after completion must reach the provider.
	resp = send(t, e, "s1", "cancel my booking")
	if fake.cancelCalls != 1 {
		t.Fatalf("cancelCalls = %d, want 1", fake.cancelCalls)
	}
	if resp.State != models.StateCancelled {
		t.Errorf("state = %s, want cancelled", resp.State)
	}
}

func TestEngineBookingFailureKeepsConfirmState(t *testing.T) {
	fake := &fakeProvider{
		searchHotels: sampleHotels(),
		bookErr:      NewProviderError("book", "upstream outage", nil),
	}
	e := newTestEngine(fake)

	send(t, e, "s1", "I need a hotel in New York this weekend for 2 guests")
	send(t, e, "s1", "book the first one")

	resp := send(t, e, "s1", "yes")
	if resp.Category != models.CategoryRetryableError {
		t.Errorf("category = %s, want retryable_error", resp.Category)
	}
	if resp.State != models.StateAwaitingBookingConfirm {
		t.Errorf("state = %s, want awaiting_booking_confirm", resp.State)
	}
	if resp.Booking != nil {
		t.Error("booking reference recorded despite failure")
	}

	// Retry succeeds once the provider recovers.
	fake.bookErr = nil
	resp = send(t, e, "s1", "yes")
	if resp.State != models.StateCompleted || resp.Booking == nil {
		t.Errorf("retry: state=%s booking=%+v", resp.State, resp.Booking)
	}
}

func TestEngineSearchFailureIsRetryable(t *testing.T) {
	fake := &fakeProvider{searchErr: NewProviderError("search", "timeout", nil)}
	e := newTestEngine(fake)

	resp := send(t, e, "s1", "I need a hotel in New York this weekend for 2 guests")
	if resp.Category != models.CategoryRetryableError {
		t.Errorf("category = %s, want retryable_error", resp.Category)
	}
	if resp.State == models.StateSearching || resp.State == models.StateResultsPresented {
		t.Errorf("state = %s, should have reverted", resp.State)
	}

	// Same slots retry the search without re-entering them.
	fake.searchErr = nil
	fake.searchHotels = sampleHotels()
	resp = send(t, e, "s1", "search again for a hotel in new york")
	if fake.searchCalls != 2 {
		t.Fatalf("searchCalls = %d, want 2", fake.searchCalls)
	}
	if resp.State != models.StateResultsPresented {
		t.Errorf("state = %s, want results_presented", resp.State)
	}
}

func TestEngineFilterNarrowsInProcess(t *testing.T) {
	fake := &fakeProvider{searchHotels: sampleHotels()}
	e := newTestEngine(fake)

	send(t, e, "s1", "I need a hotel in New York this weekend for 2 guests")
	resp := send(t, e, "s1", "show me only ones under $200")

	if fake.searchCalls != 1 {
		t.Fatalf("filtering re-ran the search: %d calls", fake.searchCalls)
	}
	if resp.State != models.StateFiltering {
		t.Errorf("state = %s, want filtering", resp.State)
	}
	for _, h := range resp.Slots.CandidateHotels {
		if h.Price > 200 {
			t.Errorf("hotel %s above the cap at %v", h.ID, h.Price)
		}
	}
}

func TestEngineDateUtteranceKeepsResults(t *testing.T) {
	fake := &fakeProvider{searchHotels: sampleHotels()}
	e := newTestEngine(fake)

	send(t, e, "s1", "I need a hotel in New York this weekend for 2 guests")

	// "check in tomorrow" carries a date, not a destination. It must narrow
	// the shown list, never wipe it or re-aim the search.
	resp := send(t, e, "s1", "we check in tomorrow")
	if resp.Slots.Destination != "new york" {
		t.Errorf("destination = %q, want new york", resp.Slots.Destination)
	}
	if len(resp.Slots.CandidateHotels) != 3 {
		t.Errorf("candidates = %d, want the original 3", len(resp.Slots.CandidateHotels))
	}
	if fake.searchCalls != 1 {
		t.Errorf("searchCalls = %d, a date mention re-ran the search", fake.searchCalls)
	}
}

func TestEngineExpiredSession(t *testing.T) {
	fake := &fakeProvider{searchHotels: sampleHotels()}
	e := newTestEngine(fake)

	send(t, e, "s1", "hello")
	ls, err := e.Sessions.Checkout(context.Background(), "s1", time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	ls.Session().Status = models.SessionAbandoned
	ls.Release()

	if _, err := e.HandleMessage(context.Background(), "s1", "hello again", time.Now().UTC()); err != ErrSessionExpired {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}
}

func TestEngineRecordsHistory(t *testing.T) {
	fake := &fakeProvider{searchHotels: sampleHotels()}
	e := newTestEngine(fake)

	send(t, e, "s1", "hello")
	snap, err := e.GetSessionSnapshot(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.History) != 2 {
		t.Fatalf("history = %d messages, want user + system", len(snap.History))
	}
	if snap.History[0].Role != models.RoleUser || snap.History[1].Role != models.RoleSystem {
		t.Errorf("roles = %s, %s", snap.History[0].Role, snap.History[1].Role)
	}
	if snap.History[0].Intent != models.IntentGreet {
		t.Errorf("recorded intent = %s", snap.History[0].Intent)
	}
}
