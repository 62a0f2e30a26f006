package chatbot

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"concierge/models"
)

// Extractor scans raw text for typed fragments using ordered pattern rules.
// Pure and deterministic: the reference time is injected per call and the
// extractor holds no mutable state after construction.
type Extractor struct {
	locations  []*regexp.Regexp
	guestRules []countRule
	roomRules  []countRule
	amenities  []amenityRule
	priceRules []priceRule
}

type countRule struct {
	re      *regexp.Regexp
	literal int // used when the rule carries no digit group
}

type amenityRule struct {
	re        *regexp.Regexp
	canonical string
}

type priceRule struct {
	re   *regexp.Regexp
	kind string // "max", "min", "range"
}

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// NewExtractor compiles the pattern catalog. Rules are tried in declaration
// order per kind and the first match per kind per text span wins.
func NewExtractor() *Extractor {
	return &Extractor{
		locations: []*regexp.Regexp{
			regexp.MustCompile(`\b(new york city|new york|nyc|manhattan|brooklyn|queens|bronx|staten island)\b`),
			regexp.MustCompile(`\b(times square|central park|wall street|soho|chelsea|greenwich)\b`),
			regexp.MustCompile(`\b(los angeles|san francisco|chicago|miami|boston|seattle|las vegas|washington)\b`),
			regexp.MustCompile(`\b(?:in|at|near|around) ([a-z]+(?: [a-z]+)?)\b`),
		},
		guestRules: []countRule{
			{re: regexp.MustCompile(`\b(\d+)\s*(?:adults?|guests?|people|persons?)\b`)},
			{re: regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten)\s*(?:adults?|guests?|people|persons?)\b`)},
			{re: regexp.MustCompile(`\bfamily of (\d+)\b`)},
			{re: regexp.MustCompile(`\b(?:a couple|couple of us|two of us)\b`), literal: 2},
			{re: regexp.MustCompile(`\b(?:just me|by myself|solo|single traveller|single traveler)\b`), literal: 1},
		},
		roomRules: []countRule{
			{re: regexp.MustCompile(`\b(\d+)\s*rooms?\b`)},
			{re: regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten)\s*rooms?\b`)},
			{re: regexp.MustCompile(`\b(?:a|another) room\b`), literal: 1},
		},
		amenities: []amenityRule{
			{regexp.MustCompile(`\b(?:continental breakfast|free breakfast|breakfast)\b`), "breakfast"},
			{regexp.MustCompile(`\b(?:free wifi|wifi|wireless internet|internet)\b`), "wifi"},
			{regexp.MustCompile(`\b(?:swimming pool|outdoor pool|indoor pool|pool)\b`), "pool"},
			{regexp.MustCompile(`\b(?:fitness center|fitness|gym|workout)\b`), "gym"},
			{regexp.MustCompile(`\b(?:spa|massage|wellness)\b`), "spa"},
			{regexp.MustCompile(`\b(?:free parking|valet|parking)\b`), "parking"},
			{regexp.MustCompile(`\b(?:restaurant|dining)\b`), "restaurant"},
			{regexp.MustCompile(`\b(?:bar|lounge)\b`), "bar"},
			{regexp.MustCompile(`\b(?:room service|in-room dining)\b`), "room_service"},
			{regexp.MustCompile(`\b(?:concierge|front desk)\b`), "concierge"},
		},
		priceRules: []priceRule{
			{regexp.MustCompile(`\$?(\d+)\s*(?:to|-|and)\s*\$?(\d+)\s*(?:dollars|bucks|usd)?\b`), "range"},
			{regexp.MustCompile(`\b(?:under|below|less than|cheaper than|at most|max(?:imum)? of)\s*\$?(\d+)\b`), "max"},
			{regexp.MustCompile(`\b(?:over|above|more than|at least|min(?:imum)? of)\s*\$?(\d+)\b`), "min"},
			{regexp.MustCompile(`\bbetween\s*\$?(\d+)\s*and\s*\$?(\d+)\b`), "range"},
		},
	}
}

// locationStopwords are caught by the prepositional location rule but never
// name a destination. Relative-date vocabulary is here because "checking in
// today" puts a date word right where the rule expects a place.
var locationStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "your": true,
	"that": true, "this": true, "there": true, "fact": true, "order": true,
	"case": true, "general": true, "total": true, "advance": true,
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"today": true, "tonight": true, "tomorrow": true, "next": true,
	"week": true, "weekend": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Extract scans text and returns zero or more typed entities. Unrecognized
// fragments are silently dropped.
func (x *Extractor) Extract(text string, now time.Time) []models.Entity {
	lower := strings.ToLower(text)
	var out []models.Entity
	claimed := map[models.EntityKind][][2]int{}

	claim := func(kind models.EntityKind, start, end int) bool {
		for _, span := range claimed[kind] {
			if start < span[1] && end > span[0] {
				return false
			}
		}
		claimed[kind] = append(claimed[kind], [2]int{start, end})
		return true
	}
	overlapsDate := func(start, end int) bool {
		for _, span := range claimed[models.EntityDateRange] {
			if start < span[1] && end > span[0] {
				return true
			}
		}
		return false
	}

	// Literal date spans are off limits for the numeric rules even when a
	// relative phrase wins the date slot.
	literalDateSpans := explicitDateRe.FindAllStringIndex(lower, -1)
	insideLiteralDate := func(start, end int) bool {
		for _, span := range literalDateSpans {
			if start < span[1] && end > span[0] {
				return true
			}
		}
		return false
	}

	// Dates first: relative phrases outrank literal dates, and their spans
	// shield the location and price rules from date vocabulary.
	if dr, start, end, ok := resolveRelativeDates(lower, now); ok {
		if claim(models.EntityDateRange, start, end) {
			out = append(out, models.Entity{
				Kind:      models.EntityDateRange,
				Value:     lower[start:end],
				Start:     start,
				End:       end,
				DateRange: &dr,
			})
		}
	} else if dr, start, end, ok := resolveExplicitDates(lower); ok {
		if claim(models.EntityDateRange, start, end) {
			out = append(out, models.Entity{
				Kind:      models.EntityDateRange,
				Value:     lower[start:end],
				Start:     start,
				End:       end,
				DateRange: &dr,
			})
		}
	}

	// Locations.
	for i, re := range x.locations {
		for _, loc := range re.FindAllStringSubmatchIndex(lower, -1) {
			start, end := loc[0], loc[1]
			value := lower[loc[2]:loc[3]]
			if i == len(x.locations)-1 { // prepositional rule
				first := strings.SplitN(value, " ", 2)[0]
				if locationStopwords[first] || overlapsDate(start, end) {
					continue
				}
			}
			if !claim(models.EntityLocation, start, end) {
				continue
			}
			out = append(out, models.Entity{
				Kind:  models.EntityLocation,
				Value: canonicalLocation(value),
				Start: start,
				End:   end,
			})
		}
	}

	out = append(out, x.extractCounts(lower, models.EntityGuestCount, x.guestRules, claim)...)
	out = append(out, x.extractCounts(lower, models.EntityRoomCount, x.roomRules, claim)...)

	// Amenities.
	for _, rule := range x.amenities {
		for _, loc := range rule.re.FindAllStringIndex(lower, -1) {
			if !claim(models.EntityAmenity, loc[0], loc[1]) {
				continue
			}
			out = append(out, models.Entity{
				Kind:  models.EntityAmenity,
				Value: rule.canonical,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	// Price bounds. Spans inside a literal date never carry a price: without
	// the guard "2024-12-15" would read as a 12-to-2024 dollar range.
	for _, rule := range x.priceRules {
		for _, loc := range rule.re.FindAllStringSubmatchIndex(lower, -1) {
			if overlapsDate(loc[0], loc[1]) || insideLiteralDate(loc[0], loc[1]) {
				continue
			}
			if !claim(models.EntityPriceBound, loc[0], loc[1]) {
				continue
			}
			bound := &models.PriceBound{}
			first, _ := strconv.ParseFloat(lower[loc[2]:loc[3]], 64)
			switch rule.kind {
			case "max":
				bound.Max = first
			case "min":
				bound.Min = first
			case "range":
				second, _ := strconv.ParseFloat(lower[loc[4]:loc[5]], 64)
				if second < first {
					first, second = second, first
				}
				bound.Min, bound.Max = first, second
			}
			out = append(out, models.Entity{
				Kind:  models.EntityPriceBound,
				Value: lower[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
				Price: bound,
			})
			break
		}
	}

	out = dedupeEntities(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (x *Extractor) extractCounts(lower string, kind models.EntityKind, rules []countRule, claim func(models.EntityKind, int, int) bool) []models.Entity {
	var out []models.Entity
	for _, rule := range rules {
		for _, loc := range rule.re.FindAllStringSubmatchIndex(lower, -1) {
			if !claim(kind, loc[0], loc[1]) {
				continue
			}
			count := rule.literal
			if len(loc) > 3 && loc[2] >= 0 {
				token := lower[loc[2]:loc[3]]
				if n, err := strconv.Atoi(token); err == nil {
					count = n
				} else if n, ok := wordNumbers[token]; ok {
					count = n
				}
			}
			if count <= 0 {
				// Qualitative phrase without a digit defaults to 1.
				count = 1
			}
			out = append(out, models.Entity{
				Kind:  kind,
				Value: lower[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
				Count: count,
			})
		}
	}
	return out
}

// canonicalLocation normalizes the well-known abbreviations the upstream
// geocoder expects spelled out.
func canonicalLocation(v string) string {
	switch v {
	case "nyc", "new york city":
		return "new york"
	default:
		return v
	}
}

func dedupeEntities(entities []models.Entity) []models.Entity {
	type key struct {
		kind  models.EntityKind
		value string
	}
	seen := map[key]bool{}
	out := entities[:0]
	for _, e := range entities {
		k := key{e.Kind, e.Value}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}
