// Package geoindex classifies listings into walking-time classes by testing
// their position against isochrone polygons.
package geoindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rentmap/rentmap/internal/listing"
)

// WalkClasses are the recognized walking-time buckets, in minutes. Isochrone
// features whose duration rounds to anything else are discarded.
var WalkClasses = []int{15, 30}

// ClassRings maps a walking-time class (minutes) to the outer rings of its
// isochrone polygons. Holes are ignored: for a "reachable within N minutes"
// overlay the outer boundary is what matters.
type ClassRings map[int][]orb.Ring

// Classes returns the classes present in ascending order.
func (cr ClassRings) Classes() []int {
	classes := make([]int, 0, len(cr))
	for c := range cr {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}

// ParseIsochrones extracts class rings from an isochrone GeoJSON document.
// Each feature's properties.value is a duration in seconds, rounded to the
// nearest minute to derive the class. Only Polygon and MultiPolygon
// geometries are used, and only each polygon's outer ring.
func ParseIsochrones(data []byte) (ClassRings, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse isochrones: %w", err)
	}

	recognized := make(map[int]bool, len(WalkClasses))
	for _, c := range WalkClasses {
		recognized[c] = true
	}

	rings := make(ClassRings)
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		seconds, ok := numericProperty(f.Properties, "value")
		if !ok {
			continue
		}
		class := int(math.Round(seconds / 60))
		if !recognized[class] {
			continue
		}

		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if len(g) > 0 {
				rings[class] = append(rings[class], g[0])
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				if len(poly) > 0 {
					rings[class] = append(rings[class], poly[0])
				}
			}
		}
	}
	return rings, nil
}

func numericProperty(props geojson.Properties, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Build maps each listing ID to the smallest walking-time class whose rings
// contain its position. Classes are tested in ascending order and the first
// hit wins; listings inside no ring are absent from the result.
func Build(listings []listing.Listing, rings ClassRings) map[int]int {
	index := make(map[int]int)
	for _, class := range rings.Classes() {
		classRings := rings[class]
		for i := range listings {
			l := &listings[i]
			if _, done := index[l.ID]; done {
				continue
			}
			lat, lng, ok := l.Position()
			if !ok {
				continue
			}
			pt := orb.Point{lng, lat}
			for _, ring := range classRings {
				if ringContains(ring, pt) {
					index[l.ID] = class
					break
				}
			}
		}
	}
	return index
}

// ringContains reports whether pt is inside ring using the even-odd ray
// casting rule: a ray cast along increasing longitude crosses an odd number
// of edges. Degenerate rings (fewer than 3 vertices, non-finite ordinates)
// contribute no membership.
func ringContains(ring orb.Ring, pt orb.Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	if !finitePoint(pt) {
		return false
	}
	bound := ring.Bound()
	if !bound.Contains(pt) {
		return false
	}

	x, y := pt[0], pt[1]
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if !finitePoint(ring[i]) || !finitePoint(ring[j]) {
			return false
		}
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) {
			if x < (xj-xi)*(y-yi)/(yj-yi)+xi {
				inside = !inside
			}
		}
	}
	return inside
}

func finitePoint(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}
