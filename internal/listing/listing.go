// Package listing holds the rental listing model produced by the scraping
// pipeline, plus normalization and export helpers.
package listing

import (
	"fmt"
	"math"

	"github.com/umahmood/haversine"
)

// Listing is one geotagged rental entry as emitted by the pipeline into
// listings.json. Numeric attributes are pointers: the pipeline leaves fields
// it could not parse as null, and null means "unknown", not zero.
type Listing struct {
	ID               int      `json:"id"`
	URL              string   `json:"url"`
	PriceUSD         *float64 `json:"price_usd"`
	BuildingAreaSqm  *float64 `json:"building_area_sqm"`
	LandAreaSqm      *float64 `json:"land_area_sqm"`
	Street           string   `json:"street"`
	District         string   `json:"district"`
	City             string   `json:"city"`
	Rooms            *int     `json:"rooms"`
	Bathrooms        *int     `json:"bathrooms"`
	CeilingHeightM   *float64 `json:"ceiling_height_m"`
	Floors           *int     `json:"floors"`
	BuildingType     string   `json:"building_type"`
	Condition        string   `json:"condition"`
	Facilities       []string `json:"facilities"`
	Amenities        []string `json:"amenities"`
	Description      string   `json:"description"`
	PhotoURLs        []string `json:"photo_urls"`
	PhotoCount       int      `json:"photo_count"`
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	GeocodePrecision string   `json:"geocode_precision,omitempty"`
	AIScore          *float64 `json:"ai_score,omitempty"`
	AISummary        string   `json:"ai_summary,omitempty"`

	// StraightLineKm is filled during normalization: great-circle distance
	// from the listing to the configured reference point.
	StraightLineKm *float64 `json:"straight_line_km,omitempty"`
}

// Position returns the listing coordinates. ok is false when either ordinate
// is missing or non-finite; such listings never reach the geo index or the
// filter pass.
func (l *Listing) Position() (lat, lng float64, ok bool) {
	if l.Lat == nil || l.Lng == nil {
		return 0, 0, false
	}
	lat, lng = *l.Lat, *l.Lng
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return 0, 0, false
	}
	return lat, lng, true
}

// MapsURL returns a Google Maps link for the listing position, or "" when the
// listing has no usable coordinates.
func (l *Listing) MapsURL() string {
	lat, lng, ok := l.Position()
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lng)
}

// ReferencePoint is a named location distances are measured against.
type ReferencePoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Normalize filters out listings without a finite position and fills
// StraightLineKm against ref for the rest. The input slice is not modified;
// the returned slice preserves input order.
func Normalize(listings []Listing, ref ReferencePoint) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		lat, lng, ok := l.Position()
		if !ok {
			continue
		}
		if l.StraightLineKm == nil {
			_, km := haversine.Distance(
				haversine.Coord{Lat: lat, Lon: lng},
				haversine.Coord{Lat: ref.Lat, Lon: ref.Lng},
			)
			km = math.Round(km*100) / 100
			l.StraightLineKm = &km
		}
		out = append(out, l)
	}
	return out
}
