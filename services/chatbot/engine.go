package chatbot

import (
	"context"
	"time"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// HotelProvider is the external search/booking collaborator. Implemented by
// services/hotel; faked in tests. Calls may block on the network, so the
// engine never holds a session lock across them.
type HotelProvider interface {
	SearchHotels(ctx context.Context, destination string, dates models.DateRange, guests, rooms int) ([]models.HotelSummary, error)
	FilterHotels(candidates []models.HotelSummary, amenities []string, priceMin, priceMax float64) []models.HotelSummary
	BookHotel(ctx context.Context, hotelID string, convCtx models.ConversationContext) (*models.BookingReference, error)
	CancelBooking(ctx context.Context, ref models.BookingReference) (*models.CancellationResult, error)
}

// ChatEngine is the conversational interface consumed by the API layer.
type ChatEngine interface {
	HandleMessage(ctx context.Context, sessionID, text string, now time.Time) (*models.ChatResponse, error)
	GetSessionSnapshot(ctx context.Context, sessionID string) (*models.ChatSession, error)
	ResetSession(ctx context.Context, sessionID string) error
	ActiveSessions() []models.ChatSession
}

// DefaultChatEngine implements ChatEngine: classify and extract (pure), run
// the reducer under the session lock, perform the provider call with the
// lock released, then relock and commit with a staleness check.
type DefaultChatEngine struct {
	Classifier  *Classifier
	Extractor   *Extractor
	Sessions    *SessionManager
	Provider    HotelProvider
	Responder   *Responder
	CallTimeout time.Duration
}

// NewDefaultChatEngine wires an engine with the default pattern catalogs.
func NewDefaultChatEngine(sessions *SessionManager, provider HotelProvider) *DefaultChatEngine {
	return &DefaultChatEngine{
		Classifier:  NewClassifier(),
		Extractor:   NewExtractor(),
		Sessions:    sessions,
		Provider:    provider,
		Responder:   NewResponder(),
		CallTimeout: 10 * time.Second,
	}
}

// HandleMessage processes one user turn and returns the response category
// plus payload slots. Collaborator failures never crash the session: they
// come back as retryable/validation categories with state unchanged.
func (e *DefaultChatEngine) HandleMessage(ctx context.Context, sessionID, text string, now time.Time) (*models.ChatResponse, error) {
	logger := utils.GetLogger()

	ls, err := e.Sessions.Checkout(ctx, sessionID, now)
	if err != nil {
		return nil, err
	}

	intent := e.Classifier.Classify(text)
	entities := e.Extractor.Extract(text, now)

	userMsg := models.ChatMessage{
		SessionID: sessionID,
		Role:      models.RoleUser,
		Text:      text,
		Timestamp: now,
		Intent:    intent.Type,
		Entities:  entities,
	}
	ls.AppendMessage(userMsg)
	e.Sessions.LogMessage(ctx, userMsg)

	out := Reduce(ls.Session().Context, intent, entities, now)

	if out.Effect == EffectNone {
		ls.Session().Context = out.Context
		resp := e.finishTurn(ctx, ls, intent, entities, out.Category, now)
		return resp, nil
	}

	// Snapshot what the effect needs, then drop the lock for the external
	// call.
	slots := out.Context.Slots
	stamp := ls.Session().Context.LastUpdated
	ls.Release()

	callCtx, cancel := context.WithTimeout(ctx, e.CallTimeout)
	defer cancel()

	var (
		hotels  []models.HotelSummary
		ref     *models.BookingReference
		callErr error
	)
	switch out.Effect {
	case EffectSearch:
		rooms := slots.Rooms
		if rooms == 0 {
			rooms = 1
		}
		hotels, callErr = e.Provider.SearchHotels(callCtx, slots.Destination, *slots.Dates, slots.Guests, rooms)
	case EffectFilter:
		hotels = e.Provider.FilterHotels(slots.CandidateHotels, slots.Amenities, slots.PriceMin, slots.PriceMax)
	case EffectBook:
		ref, callErr = e.Provider.BookHotel(callCtx, out.HotelID, out.Context)
	case EffectCancel:
		_, callErr = e.Provider.CancelBooking(callCtx, *slots.BookingRef)
	}
	if callErr != nil {
		logger.Warn("hotel provider call failed",
			zap.String("sessionID", sessionID),
			zap.Int("effect", int(out.Effect)),
			zap.Error(callErr))
	}

	// Relock and commit. If another turn slipped in while the call was in
	// flight, rebase onto the current context: its slot edits survive and
	// this effect's results land on top (last-write-wins).
	ls, err = e.Sessions.Checkout(ctx, sessionID, now)
	if err != nil {
		return nil, err
	}
	if !ls.Session().Context.LastUpdated.Equal(stamp) {
		logger.Debug("context changed during provider call, rebasing",
			zap.String("sessionID", sessionID))
		rebased := ls.Session().Context
		rebased.Slots.CandidateHotels = out.Context.Slots.CandidateHotels
		rebased.Slots.SelectedHotel = out.Context.Slots.SelectedHotel
		out.Context = rebased
	}

	var (
		committed models.ConversationContext
		category  models.ResponseCategory
	)
	switch out.Effect {
	case EffectSearch:
		committed, category = ApplySearchResult(out, hotels, callErr, now)
	case EffectFilter:
		committed, category = ApplyFilterResult(out, hotels, now)
	case EffectBook:
		committed, category = ApplyBookingResult(out, ref, callErr, now)
	case EffectCancel:
		committed, category = ApplyCancelResult(out, callErr, now)
	}
	ls.Session().Context = committed

	resp := e.finishTurn(ctx, ls, intent, entities, category, now)
	return resp, nil
}

// finishTurn records the system reply, persists, releases the lock and
// shapes the API response. Caller must hold ls.
func (e *DefaultChatEngine) finishTurn(ctx context.Context, ls *LockedSession, intent models.Intent, entities []models.Entity, category models.ResponseCategory, now time.Time) *models.ChatResponse {
	s := ls.Session()
	syncSessionStatus(s)

	message, suggestions := e.Responder.Render(category, s)

	sysMsg := models.ChatMessage{
		SessionID: s.SessionID,
		Role:      models.RoleSystem,
		Text:      message,
		Timestamp: now,
	}
	ls.AppendMessage(sysMsg)
	e.Sessions.LogMessage(ctx, sysMsg)
	ls.Save(ctx)

	resp := &models.ChatResponse{
		SessionID:   s.SessionID,
		Category:    category,
		Message:     message,
		Suggestions: suggestions,
		State:       s.Context.State,
		Slots:       s.Context.Slots,
		Intent:      &intent,
		Entities:    entities,
		Booking:     s.Context.Slots.BookingRef,
	}
	if category == models.CategoryPresentResults {
		resp.Hotels = s.Context.Slots.CandidateHotels
	}
	ls.Release()
	return resp
}

// syncSessionStatus keeps the session lifecycle aligned with terminal
// conversation states.
func syncSessionStatus(s *models.ChatSession) {
	switch s.Context.State {
	case models.StateCompleted:
		s.Status = models.SessionCompleted
	case models.StateCancelled:
		s.Status = models.SessionCancelled
	case models.StateAbandoned:
		s.Status = models.SessionAbandoned
	}
}

// GetSessionSnapshot returns a copy of the session, including history.
func (e *DefaultChatEngine) GetSessionSnapshot(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return e.Sessions.Snapshot(ctx, sessionID)
}

// ResetSession restores the conversation to the initial state.
func (e *DefaultChatEngine) ResetSession(ctx context.Context, sessionID string) error {
	return e.Sessions.Reset(ctx, sessionID, time.Now().UTC())
}

// ActiveSessions lists sessions still in progress.
func (e *DefaultChatEngine) ActiveSessions() []models.ChatSession {
	return e.Sessions.ActiveSessions()
}
