package chatbot

import (
	"testing"

	"concierge/models"
)

func TestClassifyFullPatterns(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		text string
		want models.IntentType
	}{
		{"Hello there", models.IntentGreet},
		{"good morning", models.IntentGreet},
		{"I want to stay in New York", models.IntentSearchLocation},
		{"looking for a hotel downtown", models.IntentSearchLocation},
		{"this weekend", models.IntentProvideDates},
		{"check-in on 2024-12-15", models.IntentProvideDates},
		{"2 adults", models.IntentProvideGuests},
		{"only ones with breakfast", models.IntentFilter},
		{"show me cheaper options", models.IntentFilter},
		{"book the first one", models.IntentBook},
		{"i'll take the second hotel", models.IntentBook},
		{"yes", models.IntentConfirm},
		{"go ahead", models.IntentConfirm},
		{"cancel my booking", models.IntentCancel},
		{"forget it", models.IntentCancel},
		{"what can you do", models.IntentHelp},
	}
	for _, tc := range cases {
		got := c.Classify(tc.text)
		if got.Type != tc.want {
			t.Errorf("%q: intent = %s, want %s", tc.text, got.Type, tc.want)
		}
		if got.Confidence != 1.0 {
			t.Errorf("%q: confidence = %v, want 1.0 on a full pattern hit", tc.text, got.Confidence)
		}
	}
}

func TestClassifyKeywordFallback(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("hotel")
	if got.Type != models.IntentSearchLocation {
		t.Fatalf("intent = %s, want %s", got.Type, models.IntentSearchLocation)
	}
	if got.Confidence <= 0 || got.Confidence >= 1 {
		t.Errorf("keyword-only confidence = %v, want strictly between 0 and 1", got.Confidence)
	}
}

func TestClassifyUnknown(t *testing.T) {
	c := NewClassifier()

	for _, text := range []string{"", "   ", "asdf qwerty", "the weather is nice"} {
		got := c.Classify(text)
		if got.Type != models.IntentUnknown {
			t.Errorf("%q: intent = %s, want unknown", text, got.Type)
		}
		if got.Confidence != 0 {
			t.Errorf("%q: unknown confidence = %v, want 0", text, got.Confidence)
		}
	}
}

func TestClassifyConfidenceRange(t *testing.T) {
	c := NewClassifier()

	inputs := []string{
		"hello", "book", "cancel everything", "hotels near the airport",
		"1234567890", "!!!", "yes yes yes", "rooms", "stay",
	}
	for _, text := range inputs {
		got := c.Classify(text)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("%q: confidence %v out of range", text, got.Confidence)
		}
	}
}

func TestClassifyCancelBeatsBook(t *testing.T) {
	c := NewClassifier()

	// Both catalogs can score this; the cancel entry is declared first and
	// must win the tie.
	got := c.Classify("cancel the hotel room")
	if got.Type != models.IntentCancel {
		t.Errorf("intent = %s, want cancel", got.Type)
	}
}
