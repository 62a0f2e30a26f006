package hotel

import (
	"strings"

	"concierge/models"
)

// Filter narrows a candidate list without touching the network. A hotel
// passes when it offers at least one of the requested amenities (none
// requested passes everything) and its nightly price falls inside the
// requested window. Zero bounds leave that side open.
func Filter(candidates []models.HotelSummary, amenities []string, priceMin, priceMax float64) []models.HotelSummary {
	out := make([]models.HotelSummary, 0, len(candidates))
	for _, h := range candidates {
		if len(amenities) > 0 && !hasAnyAmenity(h, amenities) {
			continue
		}
		if priceMin > 0 && h.Price < priceMin {
			continue
		}
		if priceMax > 0 && h.Price > priceMax {
			continue
		}
		out = append(out, h)
	}
	return out
}

func hasAnyAmenity(h models.HotelSummary, wanted []string) bool {
	for _, w := range wanted {
		for _, a := range h.Amenities {
			if strings.EqualFold(a, w) {
				return true
			}
		}
	}
	return false
}
