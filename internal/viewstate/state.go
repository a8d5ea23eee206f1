// Package viewstate models the user-visible viewer configuration and its
// shareable URL-fragment form.
package viewstate

import "github.com/rentmap/rentmap/internal/filter"

// MapView is the map camera. The three fields travel together: a fragment
// either carries all of zoom/lat/lng or none of them.
type MapView struct {
	Zoom int     `json:"zoom"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// State is the complete shareable view configuration. Pointer fields
// distinguish "not present in the fragment" from an explicit value, so a
// decoded partial state only overrides what the fragment actually carried.
type State struct {
	Center  *MapView      `json:"center,omitempty"`
	Filters filter.Values `json:"filters"`

	Greens *bool `json:"greens,omitempty"`
	Rings  *bool `json:"rings,omitempty"`
	Table  *bool `json:"table,omitempty"`
	Fav    *bool `json:"fav,omitempty"`
	Hide   *bool `json:"hide,omitempty"`

	Selected *int `json:"sel,omitempty"`
}

// Bool returns a pointer for building states literally.
func Bool(v bool) *bool { return &v }

// Int returns a pointer for building states literally.
func Int(v int) *int { return &v }
