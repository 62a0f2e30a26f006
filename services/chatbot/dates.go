package chatbot

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"concierge/models"
)

// Date phrases resolve against the reference time handed to the extractor,
// never the wall clock, so extraction stays deterministic and testable.

var (
	explicitDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b|\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)

	// Ordered so scanning is deterministic; the earliest phrase in the text
	// wins regardless of declaration order.
	weekdayNames = []struct {
		name string
		day  time.Weekday
	}{
		{"monday", time.Monday},
		{"tuesday", time.Tuesday},
		{"wednesday", time.Wednesday},
		{"thursday", time.Thursday},
		{"friday", time.Friday},
		{"saturday", time.Saturday},
		{"sunday", time.Sunday},
	}
)

// dateOnly truncates to midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nextWeekday returns the next occurrence of w strictly after now. When now
// already falls on w, the result rolls a full week forward.
func nextWeekday(now time.Time, w time.Weekday) time.Time {
	today := dateOnly(now)
	ahead := (int(w) - int(today.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return today.AddDate(0, 0, ahead)
}

// resolveRelativeDates turns a relative phrase into a concrete check-in and
// check-out. The returned span covers the matched phrase; ok is false when
// the text carries no recognizable relative date.
func resolveRelativeDates(text string, now time.Time) (models.DateRange, int, int, bool) {
	lower := strings.ToLower(text)

	type rule struct {
		phrase  string
		resolve func() models.DateRange
	}
	// Ordered: more specific phrases first so "next weekend" is not eaten by
	// a bare weekday rule.
	rules := []rule{
		{"next weekend", func() models.DateRange {
			sat := nextWeekday(now, time.Saturday).AddDate(0, 0, 7)
			return models.DateRange{CheckIn: sat, CheckOut: sat.AddDate(0, 0, 1)}
		}},
		{"this weekend", func() models.DateRange {
			sat := nextWeekday(now, time.Saturday)
			return models.DateRange{CheckIn: sat, CheckOut: sat.AddDate(0, 0, 1)}
		}},
		{"next week", func() models.DateRange {
			in := dateOnly(now).AddDate(0, 0, 7)
			return models.DateRange{CheckIn: in, CheckOut: in.AddDate(0, 0, 1)}
		}},
		{"tomorrow", func() models.DateRange {
			in := dateOnly(now).AddDate(0, 0, 1)
			return models.DateRange{CheckIn: in, CheckOut: in.AddDate(0, 0, 1)}
		}},
		{"tonight", func() models.DateRange {
			in := dateOnly(now)
			return models.DateRange{CheckIn: in, CheckOut: in.AddDate(0, 0, 1)}
		}},
		{"today", func() models.DateRange {
			in := dateOnly(now)
			return models.DateRange{CheckIn: in, CheckOut: in.AddDate(0, 0, 1)}
		}},
	}
	for _, r := range rules {
		if idx := strings.Index(lower, r.phrase); idx >= 0 {
			return r.resolve(), idx, idx + len(r.phrase), true
		}
	}

	// "next friday" and friends: one-night stay on that day. When several
	// weekday phrases appear, the first one mentioned wins.
	bestIdx, bestLen := -1, 0
	var bestDay time.Weekday
	for _, wd := range weekdayNames {
		phrase := "next " + wd.name
		if idx := strings.Index(lower, phrase); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			bestIdx, bestLen, bestDay = idx, len(phrase), wd.day
		}
	}
	if bestIdx >= 0 {
		in := nextWeekday(now, bestDay)
		return models.DateRange{CheckIn: in, CheckOut: in.AddDate(0, 0, 1)}, bestIdx, bestIdx + bestLen, true
	}

	return models.DateRange{}, 0, 0, false
}

// parseExplicitDate interprets one regex match as a concrete date. Two-digit
// years are read as 20xx, matching the upstream booking API.
func parseExplicitDate(m []string) (time.Time, bool) {
	var year, month, day int
	if m[1] != "" { // YYYY-MM-DD
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	} else { // MM/DD/YYYY or MM-DD-YY
		month, _ = strconv.Atoi(m[4])
		day, _ = strconv.Atoi(m[5])
		year, _ = strconv.Atoi(m[6])
		if year < 100 {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// resolveExplicitDates picks up literal dates. One date means a one-night
// stay; the first two dates in order form the check-in/check-out pair.
func resolveExplicitDates(text string) (models.DateRange, int, int, bool) {
	matches := explicitDateRe.FindAllStringSubmatchIndex(text, 2)
	if len(matches) == 0 {
		return models.DateRange{}, 0, 0, false
	}

	var dates []time.Time
	start, end := -1, 0
	for _, loc := range matches {
		sub := make([]string, 7)
		for g := 1; g <= 6; g++ {
			if loc[2*g] >= 0 {
				sub[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		d, ok := parseExplicitDate(sub)
		if !ok {
			continue
		}
		dates = append(dates, d)
		if start < 0 {
			start = loc[0]
		}
		end = loc[1]
	}
	if len(dates) == 0 {
		return models.DateRange{}, 0, 0, false
	}
	if len(dates) >= 2 && dates[1].After(dates[0]) {
		return models.DateRange{CheckIn: dates[0], CheckOut: dates[1]}, start, end, true
	}
	return models.DateRange{CheckIn: dates[0], CheckOut: dates[0].AddDate(0, 0, 1)}, start, end, true
}
