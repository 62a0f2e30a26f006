package hotel

import "strings"

// Coordinates is a lat/lng pair for the upstream search API.
type Coordinates struct {
	Lat float64
	Lng float64
}

// destinationCoords maps the destinations the extractor recognizes to the
// coordinates the upstream API searches around. Unknown destinations fall
// back to midtown New York.
var destinationCoords = map[string]Coordinates{
	"new york":      {40.7128, -74.0060},
	"manhattan":     {40.7831, -73.9712},
	"brooklyn":      {40.6782, -73.9442},
	"queens":        {40.7282, -73.7949},
	"bronx":         {40.8448, -73.8648},
	"staten island": {40.5795, -74.1502},
	"times square":  {40.7580, -73.9855},
	"central park":  {40.7829, -73.9654},
	"wall street":   {40.7074, -74.0113},
	"soho":          {40.7231, -74.0026},
	"chelsea":       {40.7505, -74.0014},
	"greenwich":     {40.7336, -74.0027},
	"los angeles":   {34.0522, -118.2437},
	"san francisco": {37.7749, -122.4194},
	"chicago":       {41.8781, -87.6298},
	"miami":         {25.7617, -80.1918},
	"boston":        {42.3601, -71.0589},
	"seattle":       {47.6062, -122.3321},
	"las vegas":     {36.1699, -115.1398},
	"washington":    {38.9072, -77.0369},
}

// Geocode resolves a destination name to search coordinates.
func Geocode(destination string) Coordinates {
	if c, ok := destinationCoords[strings.ToLower(strings.TrimSpace(destination))]; ok {
		return c
	}
	return destinationCoords["new york"]
}
