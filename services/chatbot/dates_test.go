package chatbot

import (
	"testing"
	"time"
)

// Tuesday afternoon, used as the reference time across date tests.
var refNow = time.Date(2024, 12, 10, 15, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveRelativeDates(t *testing.T) {
	cases := []struct {
		text     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"i'd like to go this weekend", day(2024, 12, 14), day(2024, 12, 15)},
		{"maybe next weekend", day(2024, 12, 21), day(2024, 12, 22)},
		{"sometime next week", day(2024, 12, 17), day(2024, 12, 18)},
		{"arriving tomorrow", day(2024, 12, 11), day(2024, 12, 12)},
		{"a room for tonight", day(2024, 12, 10), day(2024, 12, 11)},
		{"checking in today", day(2024, 12, 10), day(2024, 12, 11)},
		{"next friday works", day(2024, 12, 13), day(2024, 12, 14)},
		{"next tuesday please", day(2024, 12, 17), day(2024, 12, 18)},
	}
	for _, tc := range cases {
		dr, _, _, ok := resolveRelativeDates(tc.text, refNow)
		if !ok {
			t.Errorf("%q: no date resolved", tc.text)
			continue
		}
		if !dr.CheckIn.Equal(tc.checkIn) || !dr.CheckOut.Equal(tc.checkOut) {
			t.Errorf("%q: got %v to %v, want %v to %v",
				tc.text, dr.CheckIn, dr.CheckOut, tc.checkIn, tc.checkOut)
		}
	}
}

func TestResolveRelativeDatesOnSaturday(t *testing.T) {
	saturday := time.Date(2024, 12, 14, 9, 0, 0, 0, time.UTC)
	dr, _, _, ok := resolveRelativeDates("this weekend", saturday)
	if !ok {
		t.Fatal("no date resolved")
	}
	// Already Saturday: the phrase rolls a full week forward.
	if want := day(2024, 12, 21); !dr.CheckIn.Equal(want) {
		t.Errorf("check-in = %v, want %v", dr.CheckIn, want)
	}
}

func TestResolveRelativeDatesFirstWeekdayMentionedWins(t *testing.T) {
	// Two weekday phrases in one utterance: resolution picks the earlier
	// mention, every time.
	for i := 0; i < 20; i++ {
		dr, _, _, ok := resolveRelativeDates("next friday or next monday", refNow)
		if !ok {
			t.Fatal("no date resolved")
		}
		if want := day(2024, 12, 13); !dr.CheckIn.Equal(want) {
			t.Fatalf("check-in = %v, want %v (friday)", dr.CheckIn, want)
		}
	}
}

func TestResolveRelativeDatesNone(t *testing.T) {
	if _, _, _, ok := resolveRelativeDates("two adults and a pool", refNow); ok {
		t.Error("resolved a date from text without one")
	}
}

func TestResolveExplicitDates(t *testing.T) {
	dr, _, _, ok := resolveExplicitDates("from 2024-12-15 to 2024-12-18")
	if !ok {
		t.Fatal("no date resolved")
	}
	if !dr.CheckIn.Equal(day(2024, 12, 15)) || !dr.CheckOut.Equal(day(2024, 12, 18)) {
		t.Errorf("got %v to %v", dr.CheckIn, dr.CheckOut)
	}
}

func TestResolveExplicitDatesSingle(t *testing.T) {
	dr, _, _, ok := resolveExplicitDates("arriving 12/20/2024")
	if !ok {
		t.Fatal("no date resolved")
	}
	if !dr.CheckIn.Equal(day(2024, 12, 20)) || !dr.CheckOut.Equal(day(2024, 12, 21)) {
		t.Errorf("single date should mean one night, got %v to %v", dr.CheckIn, dr.CheckOut)
	}
}

func TestResolveExplicitDatesRejectsNonsense(t *testing.T) {
	if _, _, _, ok := resolveExplicitDates("try 13/45/2024"); ok {
		t.Error("accepted an impossible calendar date")
	}
}

func TestNextWeekdayStrictlyAfter(t *testing.T) {
	// refNow is a Tuesday; "next tuesday" must not resolve to today.
	got := nextWeekday(refNow, time.Tuesday)
	if want := day(2024, 12, 17); !got.Equal(want) {
		t.Errorf("nextWeekday = %v, want %v", got, want)
	}
}
