package chatbot

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"concierge/models"
)

// Effect names the single external call a turn may require. The reducer
// itself never performs I/O; the engine executes the effect between the
// Reduce call and the matching Apply*Result commit.
type Effect int

const (
	EffectNone Effect = iota
	EffectSearch
	EffectFilter
	EffectBook
	EffectCancel
)

// Outcome is the reducer's verdict for one turn: the updated context, the
// response category, and the effect (if any) the engine must run. PrevState
// is kept so a failed effect can leave the visible state unchanged.
type Outcome struct {
	Context   models.ConversationContext
	PrevState models.ConversationState
	Category  models.ResponseCategory
	Effect    Effect
	HotelID   string
}

// Reduce is the dialogue state machine: a pure function of
// (context, intent, entities). Entities merge into slots opportunistically
// regardless of state; the state then advances along the slot ladder, one
// step at a time, entering SEARCHING automatically once destination, dates
// and guests are all present.
func Reduce(ctx models.ConversationContext, intent models.Intent, entities []models.Entity, now time.Time) Outcome {
	out := Outcome{Context: ctx, PrevState: ctx.State, Category: models.CategoryClarify}
	out.Context.LastUpdated = now

	// Explicit cancel preempts everything, including COMPLETED when a
	// booking reference exists.
	if intent.Type == models.IntentCancel && ctx.State != models.StateCancelled && ctx.State != models.StateAbandoned {
		if ref := ctx.Slots.BookingRef; ref != nil {
			out.Effect = EffectCancel
			out.Category = models.CategoryCancelled
			return out
		}
		out.Context.State = models.StateCancelled
		out.Category = models.CategoryCancelled
		return out
	}

	if ctx.State == models.StateCancelled || ctx.State == models.StateAbandoned {
		out.Category = models.CategoryCompletedHint
		return out
	}

	merged := mergeSlots(&out.Context.Slots, entities)

	if intent.Type == models.IntentHelp && merged == 0 {
		out.Category = models.CategoryHelp
		return out
	}

	// Recognition miss with nothing extractable: clarify for the slot the
	// current state expects, state untouched.
	if intent.Type == models.IntentUnknown && merged == 0 {
		out.Category = models.CategoryClarify
		return out
	}

	switch ctx.State {
	case models.StateResultsPresented, models.StateFiltering:
		switch intent.Type {
		case models.IntentFilter:
			out.Context.State = models.StateFiltering
			out.Effect = EffectFilter
			out.Category = models.CategoryPresentResults
			return out
		case models.IntentBook, models.IntentConfirm:
			hotel, err := resolveHotelSelection(intent.RawText, out.Context.Slots.CandidateHotels)
			if err != nil {
				out.Category = models.CategoryValidationError
				return out
			}
			out.Context.Slots.SelectedHotel = hotel
			out.Context.State = models.StateAwaitingBookingConfirm
			out.Category = models.CategoryAskBookingConfirm
			return out
		}
		// A location change while results are on screen clears the
		// candidates (mergeSlots did that) and falls through to the ladder
		// for a fresh search. Any other slot update narrows the current
		// list instead.
		if len(out.Context.Slots.CandidateHotels) > 0 {
			if merged > 0 {
				out.Context.State = models.StateFiltering
				out.Effect = EffectFilter
			}
			out.Category = models.CategoryPresentResults
			return out
		}

	case models.StateAwaitingBookingConfirm:
		switch intent.Type {
		case models.IntentConfirm, models.IntentBook:
			if out.Context.Slots.SelectedHotel == nil {
				out.Category = models.CategoryValidationError
				return out
			}
			out.Context.State = models.StateBookingInProgress
			out.Effect = EffectBook
			out.HotelID = out.Context.Slots.SelectedHotel.ID
			out.Category = models.CategoryBookingConfirmed
			return out
		}
		out.Category = models.CategoryAskBookingConfirm
		return out

	case models.StateBookingInProgress:
		// A turn should never observe this transient state; re-prompt.
		out.Category = models.CategoryAskBookingConfirm
		return out

	case models.StateCompleted:
		out.Category = models.CategoryCompletedHint
		return out
	}

	// BOOK before any results exist: point the user back at the ladder.
	if intent.Type == models.IntentBook && len(out.Context.Slots.CandidateHotels) == 0 {
		out.Category = ladderCategory(&out.Context)
		out.Context.State = ladderState(&out.Context)
		return out
	}

	// Slot ladder. One step per turn, except SEARCHING which triggers as
	// soon as the three required slots are present, whatever the order they
	// arrived in.
	if out.Context.Slots.ReadyToSearch() {
		out.Context.State = models.StateSearching
		out.Effect = EffectSearch
		out.Category = models.CategoryPresentResults
		return out
	}

	out.Context.State = ladderState(&out.Context)
	out.Category = ladderCategory(&out.Context)
	if intent.Type == models.IntentGreet && ctx.State == models.StateGreeting && merged == 0 {
		out.Category = models.CategoryGreeting
	}
	return out
}

// ladderState is the furthest slot-filling state the present slots justify.
func ladderState(ctx *models.ConversationContext) models.ConversationState {
	switch {
	case ctx.Slots.Destination == "":
		return models.StateAwaitingLocation
	case ctx.Slots.Dates == nil:
		return models.StateAwaitingDates
	default:
		return models.StateAwaitingGuests
	}
}

func ladderCategory(ctx *models.ConversationContext) models.ResponseCategory {
	switch {
	case ctx.Slots.Destination == "":
		return models.CategoryAskLocation
	case ctx.Slots.Dates == nil:
		return models.CategoryAskDates
	default:
		return models.CategoryAskGuests
	}
}

// mergeSlots fills slots from entities, whatever the current state, and
// returns how many were accepted. A destination change invalidates any
// candidate list and selection from the previous search.
func mergeSlots(slots *models.SearchSlots, entities []models.Entity) int {
	merged := 0
	for _, e := range entities {
		switch e.Kind {
		case models.EntityLocation:
			if e.Value == slots.Destination {
				continue
			}
			slots.Destination = e.Value
			slots.CandidateHotels = nil
			slots.SelectedHotel = nil
			merged++
		case models.EntityDateRange:
			if e.DateRange != nil {
				dr := *e.DateRange
				slots.Dates = &dr
				merged++
			}
		case models.EntityGuestCount:
			if e.Count > 0 {
				slots.Guests = e.Count
				merged++
			}
		case models.EntityRoomCount:
			if e.Count > 0 {
				slots.Rooms = e.Count
				merged++
			}
		case models.EntityAmenity:
			if !slots.HasAmenity(e.Value) {
				slots.Amenities = append(slots.Amenities, e.Value)
				merged++
			}
		case models.EntityPriceBound:
			if e.Price != nil {
				if e.Price.Min > 0 {
					slots.PriceMin = e.Price.Min
				}
				if e.Price.Max > 0 {
					slots.PriceMax = e.Price.Max
				}
				merged++
			}
		}
	}
	return merged
}

var (
	ordinalWords = []struct {
		word string
		n    int
	}{
		{"first", 1}, {"second", 2}, {"third", 3}, {"fourth", 4}, {"fifth", 5},
	}
	ordinalDigitRe = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)?\b`)
)

// resolveHotelSelection picks a candidate by explicit name, by ordinal
// reference ("book the first hotel", "number 2"), or by default when the
// reference is absent: a lone candidate selects itself, otherwise the list
// head. Out-of-range ordinals are a validation miss.
func resolveHotelSelection(text string, candidates []models.HotelSummary) (*models.HotelSummary, error) {
	if len(candidates) == 0 {
		return nil, &ValidationError{Slot: "selected_hotel", Message: "no hotels to choose from"}
	}
	lower := strings.ToLower(text)

	for i := range candidates {
		if name := strings.ToLower(candidates[i].Name); name != "" && strings.Contains(lower, name) {
			return &candidates[i], nil
		}
	}

	// Several ordinals in one utterance resolve to the one mentioned first.
	idx := 0
	found := false
	bestPos := -1
	for _, ord := range ordinalWords {
		if pos := indexOfWord(lower, ord.word); pos >= 0 && (bestPos < 0 || pos < bestPos) {
			bestPos = pos
			idx, found = ord.n-1, true
		}
	}
	if !found {
		if m := ordinalDigitRe.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				idx, found = n-1, true
			}
		}
	}
	if found && idx >= len(candidates) {
		return nil, &ValidationError{Slot: "selected_hotel", Message: "that option is not on the list"}
	}
	return &candidates[idx], nil
}

// ApplySearchResult commits the outcome of an EffectSearch. A provider
// failure reverts to the pre-search state so the same slots can retry; an
// empty result does the same but asks for adjusted criteria.
func ApplySearchResult(out Outcome, hotels []models.HotelSummary, err error, now time.Time) (models.ConversationContext, models.ResponseCategory) {
	ctx := out.Context
	ctx.LastUpdated = now
	if err != nil {
		ctx.State = out.PrevState
		return ctx, models.CategoryRetryableError
	}
	if len(hotels) == 0 {
		ctx.State = out.PrevState
		return ctx, models.CategoryNoResults
	}
	ctx.Slots.CandidateHotels = hotels
	ctx.State = models.StateResultsPresented
	return ctx, models.CategoryPresentResults
}

// ApplyFilterResult commits the outcome of an EffectFilter. Filtering is
// idempotent for unchanged slots; an empty filtered set keeps the previous
// candidates so the user can relax the filter.
func ApplyFilterResult(out Outcome, hotels []models.HotelSummary, now time.Time) (models.ConversationContext, models.ResponseCategory) {
	ctx := out.Context
	ctx.LastUpdated = now
	if len(hotels) == 0 {
		return ctx, models.CategoryNoResults
	}
	ctx.Slots.CandidateHotels = hotels
	ctx.State = models.StateFiltering
	return ctx, models.CategoryPresentResults
}

// ApplyBookingResult commits the outcome of an EffectBook. Failure leaves
// the session in AWAITING_BOOKING_CONFIRM with no booking reference so the
// user can retry or pick a different hotel.
func ApplyBookingResult(out Outcome, ref *models.BookingReference, err error, now time.Time) (models.ConversationContext, models.ResponseCategory) {
	ctx := out.Context
	ctx.LastUpdated = now
	if err != nil {
		ctx.State = models.StateAwaitingBookingConfirm
		if _, ok := err.(*ValidationError); ok {
			return ctx, models.CategoryValidationError
		}
		return ctx, models.CategoryRetryableError
	}
	ctx.Slots.BookingRef = ref
	ctx.State = models.StateCompleted
	return ctx, models.CategoryBookingConfirmed
}

// ApplyCancelResult commits the outcome of an EffectCancel. A provider
// failure leaves state untouched; success lands in CANCELLED with the
// reference retained for the record.
func ApplyCancelResult(out Outcome, err error, now time.Time) (models.ConversationContext, models.ResponseCategory) {
	ctx := out.Context
	ctx.LastUpdated = now
	if err != nil {
		ctx.State = out.PrevState
		return ctx, models.CategoryRetryableError
	}
	ctx.State = models.StateCancelled
	return ctx, models.CategoryCancelled
}
