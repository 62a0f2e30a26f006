package chatbot

import (
	"fmt"
	"strings"

	"concierge/models"
)

// Responder turns a response category plus session payload into user-facing
// text and quick-reply suggestions. Templating only; it never touches state.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Render produces the message and suggestions for one turn.
func (r *Responder) Render(category models.ResponseCategory, s *models.ChatSession) (string, []string) {
	slots := s.Context.Slots

	switch category {
	case models.CategoryGreeting:
		return "Hi! I can help you find and book a hotel. Where would you like to stay?",
			[]string{"Hotels in New York", "Hotels in Miami", "Help"}

	case models.CategoryAskLocation:
		return "Which city or neighborhood would you like to stay in?",
			[]string{"New York", "Los Angeles", "Chicago"}

	case models.CategoryAskDates:
		return fmt.Sprintf("Great, %s it is. When would you like to check in and out?", titleCase(slots.Destination)),
			[]string{"This weekend", "Next week", "Tomorrow"}

	case models.CategoryAskGuests:
		return "How many guests will be staying?",
			[]string{"Just me", "2 guests", "Family of 4"}

	case models.CategoryPresentResults:
		n := len(slots.CandidateHotels)
		if n == 0 {
			return "Searching for hotels that match your trip...", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "I found %d hotel%s in %s:\n", n, plural(n), titleCase(slots.Destination))
		for i, h := range slots.CandidateHotels {
			fmt.Fprintf(&b, "%d. %s - $%.0f/night, rated %.1f\n", i+1, h.Name, h.Price, h.Rating)
		}
		b.WriteString("Say \"book the first one\" or ask me to filter the list.")
		return b.String(), []string{"Book the first one", "Only ones with breakfast", "Under $200"}

	case models.CategoryNoResults:
		return "I couldn't find any hotels matching those criteria. Try different dates, another area, or a wider price range.",
			[]string{"Change dates", "Change location", "Remove filters"}

	case models.CategoryAskBookingConfirm:
		if h := slots.SelectedHotel; h != nil {
			return fmt.Sprintf("You picked %s at $%.0f/night. Shall I confirm the booking?", h.Name, h.Price),
				[]string{"Yes, confirm", "Cancel"}
		}
		return "Which hotel would you like to book?", []string{"The first one", "Cancel"}

	case models.CategoryBookingConfirmed:
		if ref := slots.BookingRef; ref != nil {
			return fmt.Sprintf("Your booking is confirmed! Reference: %s. Anything else I can help with?", ref.BookingID), nil
		}
		return "Your booking is confirmed!", nil

	case models.CategoryCancelled:
		if slots.BookingRef != nil {
			return "Your booking has been cancelled. Come back any time you plan another trip.", nil
		}
		return "No problem, I've cancelled this conversation. Come back any time.", nil

	case models.CategoryRetryableError:
		return "Sorry, something went wrong on our side. Please try that again in a moment.",
			[]string{"Try again"}

	case models.CategoryValidationError:
		return "I couldn't do that with the details I have. Could you pick one of the listed hotels?",
			[]string{"The first one", "Show the list again"}

	case models.CategoryHelp:
		return "I can search hotels by city, dates, guests and budget, then book the one you pick. " +
			"Try \"I need a hotel in New York this weekend for 2 guests\".",
			[]string{"Hotels in New York", "This weekend", "2 guests"}

	case models.CategoryCompletedHint:
		return "This conversation has finished. Start a new session to plan another trip.", nil

	case models.CategoryClarify:
		return clarifyMessage(s.Context.State), nil
	}

	return "Sorry, I didn't catch that. Could you rephrase?", nil
}

// clarifyMessage re-prompts for whatever the current state is waiting on.
func clarifyMessage(state models.ConversationState) string {
	switch state {
	case models.StateAwaitingLocation, models.StateGreeting:
		return "Sorry, I didn't catch that. Which city would you like to stay in?"
	case models.StateAwaitingDates:
		return "Sorry, I didn't catch that. What dates are you planning to stay?"
	case models.StateAwaitingGuests:
		return "Sorry, I didn't catch that. How many guests will be staying?"
	case models.StateResultsPresented, models.StateFiltering:
		return "Sorry, I didn't catch that. You can pick a hotel from the list or ask me to filter it."
	case models.StateAwaitingBookingConfirm:
		return "Sorry, I didn't catch that. Should I confirm the booking?"
	default:
		return "Sorry, I didn't catch that. Could you rephrase?"
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func titleCase(s string) string {
	if s == "" {
		return "that area"
	}
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
