package chatbot

import (
	"testing"

	"concierge/models"
)

func findEntity(entities []models.Entity, kind models.EntityKind) *models.Entity {
	for i := range entities {
		if entities[i].Kind == kind {
			return &entities[i]
		}
	}
	return nil
}

func TestExtractLocation(t *testing.T) {
	x := NewExtractor()

	cases := []struct {
		text string
		want string
	}{
		{"I want to stay in New York", "new york"},
		{"looking for a hotel in NYC", "new york"},
		{"somewhere near Times Square", "times square"},
		{"a hotel in Miami", "miami"},
		{"stay in san francisco", "san francisco"},
	}
	for _, tc := range cases {
		got := findEntity(x.Extract(tc.text, refNow), models.EntityLocation)
		if got == nil {
			t.Errorf("%q: no location extracted", tc.text)
			continue
		}
		if got.Value != tc.want {
			t.Errorf("%q: location = %q, want %q", tc.text, got.Value, tc.want)
		}
	}
}

func TestExtractLocationStopwords(t *testing.T) {
	x := NewExtractor()
	for _, text := range []string{
		"arriving in december",
		"thanks in advance",
		"i will be there at the latest",
	} {
		if e := findEntity(x.Extract(text, refNow), models.EntityLocation); e != nil {
			t.Errorf("%q: extracted bogus location %q", text, e.Value)
		}
	}
}

func TestExtractDateWordsAreNotLocations(t *testing.T) {
	x := NewExtractor()

	// "in today" and friends sit right where the prepositional location rule
	// looks; they must resolve as dates, never as destinations.
	for _, text := range []string{
		"checking in today",
		"check in tomorrow",
		"we check in tonight",
		"checking in next friday",
	} {
		entities := x.Extract(text, refNow)
		if e := findEntity(entities, models.EntityLocation); e != nil {
			t.Errorf("%q: date word extracted as location %q", text, e.Value)
		}
		if e := findEntity(entities, models.EntityDateRange); e == nil || e.DateRange == nil {
			t.Errorf("%q: no date extracted", text)
		}
	}
}

func TestExtractGuestCount(t *testing.T) {
	x := NewExtractor()

	cases := []struct {
		text string
		want int
	}{
		{"2 adults please", 2},
		{"we are four people", 4},
		{"family of 5", 5},
		{"it's a couple", 2},
		{"just me", 1},
	}
	for _, tc := range cases {
		got := findEntity(x.Extract(tc.text, refNow), models.EntityGuestCount)
		if got == nil {
			t.Errorf("%q: no guest count extracted", tc.text)
			continue
		}
		if got.Count != tc.want {
			t.Errorf("%q: guests = %d, want %d", tc.text, got.Count, tc.want)
		}
	}
}

func TestExtractRoomCount(t *testing.T) {
	x := NewExtractor()

	got := findEntity(x.Extract("three rooms for 6 guests", refNow), models.EntityRoomCount)
	if got == nil || got.Count != 3 {
		t.Fatalf("rooms = %+v, want count 3", got)
	}
	guests := findEntity(x.Extract("three rooms for 6 guests", refNow), models.EntityGuestCount)
	if guests == nil || guests.Count != 6 {
		t.Fatalf("guests = %+v, want count 6", guests)
	}
}

func TestExtractAmenities(t *testing.T) {
	x := NewExtractor()

	entities := x.Extract("needs free wifi, breakfast and a swimming pool", refNow)
	var got []string
	for _, e := range entities {
		if e.Kind == models.EntityAmenity {
			got = append(got, e.Value)
		}
	}
	want := map[string]bool{"wifi": true, "breakfast": true, "pool": true}
	if len(got) != len(want) {
		t.Fatalf("amenities = %v, want %v", got, want)
	}
	for _, a := range got {
		if !want[a] {
			t.Errorf("unexpected amenity %q", a)
		}
	}
}

func TestExtractPriceBounds(t *testing.T) {
	x := NewExtractor()

	e := findEntity(x.Extract("only ones under $200", refNow), models.EntityPriceBound)
	if e == nil || e.Price == nil || e.Price.Max != 200 || e.Price.Min != 0 {
		t.Fatalf("under $200: got %+v", e)
	}

	e = findEntity(x.Extract("at least $80 a night", refNow), models.EntityPriceBound)
	if e == nil || e.Price == nil || e.Price.Min != 80 {
		t.Fatalf("at least $80: got %+v", e)
	}

	e = findEntity(x.Extract("100 to 300 dollars", refNow), models.EntityPriceBound)
	if e == nil || e.Price == nil || e.Price.Min != 100 || e.Price.Max != 300 {
		t.Fatalf("100 to 300: got %+v", e)
	}
}

func TestExtractLiteralDatesCarryNoPrice(t *testing.T) {
	x := NewExtractor()

	// The hyphens in an ISO date look like a numeric range to the price
	// rules; the date span must shield them.
	for _, text := range []string{
		"from 2024-12-15 to 2024-12-18",
		"arriving 2024-12-15",
	} {
		if e := findEntity(x.Extract(text, refNow), models.EntityPriceBound); e != nil {
			t.Errorf("%q: date misread as price %+v", text, e.Price)
		}
	}

	// A real budget next to a literal date still comes through.
	entities := x.Extract("2024-12-15 to 2024-12-18, somewhere under $150", refNow)
	e := findEntity(entities, models.EntityPriceBound)
	if e == nil || e.Price == nil || e.Price.Max != 150 {
		t.Fatalf("price next to dates: got %+v", e)
	}
	if d := findEntity(entities, models.EntityDateRange); d == nil || d.DateRange == nil {
		t.Fatal("date lost next to a price")
	}
}

func TestExtractCombinedUtterance(t *testing.T) {
	x := NewExtractor()

	entities := x.Extract("I need a hotel in New York this weekend for 2 guests with breakfast under $250", refNow)

	if e := findEntity(entities, models.EntityLocation); e == nil || e.Value != "new york" {
		t.Errorf("location = %+v", e)
	}
	if e := findEntity(entities, models.EntityDateRange); e == nil || e.DateRange == nil {
		t.Errorf("dates = %+v", e)
	} else if !e.DateRange.CheckIn.Equal(day(2024, 12, 14)) {
		t.Errorf("check-in = %v", e.DateRange.CheckIn)
	}
	if e := findEntity(entities, models.EntityGuestCount); e == nil || e.Count != 2 {
		t.Errorf("guests = %+v", e)
	}
	if e := findEntity(entities, models.EntityAmenity); e == nil || e.Value != "breakfast" {
		t.Errorf("amenity = %+v", e)
	}
	if e := findEntity(entities, models.EntityPriceBound); e == nil || e.Price == nil || e.Price.Max != 250 {
		t.Errorf("price = %+v", e)
	}

	// Entities come back ordered by position in the text.
	for i := 1; i < len(entities); i++ {
		if entities[i].Start < entities[i-1].Start {
			t.Errorf("entities out of order: %d before %d", entities[i].Start, entities[i-1].Start)
		}
	}
}

func TestExtractEmptyAndNoise(t *testing.T) {
	x := NewExtractor()

	if got := x.Extract("", refNow); len(got) != 0 {
		t.Errorf("empty input produced %v", got)
	}
	if got := x.Extract("asdf qwerty zzz", refNow); len(got) != 0 {
		t.Errorf("noise produced %v", got)
	}
}
