// Package filter applies the viewer's independent listing predicates.
package filter

import (
	"github.com/rentmap/rentmap/internal/listing"
)

// Values holds the active filter thresholds. A zero value disables its
// dimension entirely; there are no cross-field constraints.
type Values struct {
	MinPrice float64 `json:"minPrice,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
	MinArea  float64 `json:"minArea,omitempty"`
	MinScore float64 `json:"aiScore,omitempty"`
	MinRooms int     `json:"minRooms,omitempty"`
	District string  `json:"district,omitempty"`

	// MaxWalk is the maximum walking-time class in minutes. When active,
	// listings absent from the geo index fail: an unknown distance is
	// treated as too far.
	MaxWalk int `json:"walk,omitempty"`
}

// IsZero reports whether no dimension is active.
func (v Values) IsZero() bool {
	return v == Values{}
}

// Apply returns the listings passing every active dimension, preserving
// order. index maps listing ID to walking-time class and may be nil, in
// which case the walk dimension only passes when it is disabled or fails
// for every listing when it is active.
func Apply(listings []listing.Listing, v Values, index map[int]int) []listing.Listing {
	if v.IsZero() {
		out := make([]listing.Listing, len(listings))
		copy(out, listings)
		return out
	}

	out := make([]listing.Listing, 0, len(listings))
	for i := range listings {
		if Matches(&listings[i], v, index) {
			out = append(out, listings[i])
		}
	}
	return out
}

// Matches evaluates every dimension for a single listing. A nil attribute
// passes its dimension: absence of data is never cause for exclusion, except
// for the walking-time dimension described on Values.MaxWalk.
func Matches(l *listing.Listing, v Values, index map[int]int) bool {
	if v.MinPrice > 0 && l.PriceUSD != nil && *l.PriceUSD < v.MinPrice {
		return false
	}
	if v.MaxPrice > 0 && l.PriceUSD != nil && *l.PriceUSD > v.MaxPrice {
		return false
	}
	if v.MinArea > 0 && l.BuildingAreaSqm != nil && *l.BuildingAreaSqm < v.MinArea {
		return false
	}
	if v.MinScore > 0 && l.AIScore != nil && *l.AIScore < v.MinScore {
		return false
	}
	if v.MinRooms > 0 && l.Rooms != nil && *l.Rooms < v.MinRooms {
		return false
	}
	if v.District != "" && l.District != "" && l.District != v.District {
		return false
	}
	if v.MaxWalk > 0 {
		class, ok := 0, false
		if index != nil {
			class, ok = index[l.ID]
		}
		if !ok || class > v.MaxWalk {
			return false
		}
	}
	return true
}
