package geoindex

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmap/rentmap/internal/listing"
)

func ptr(v float64) *float64 { return &v }

func testListing(id int, lat, lng float64) listing.Listing {
	return listing.Listing{ID: id, Lat: ptr(lat), Lng: ptr(lng)}
}

// square returns a closed ring (lng,lat) covering [0,size]x[0,size].
func square(size float64) orb.Ring {
	return orb.Ring{
		{0, 0}, {0, size}, {size, size}, {size, 0}, {0, 0},
	}
}

func TestBuildInsideOutside(t *testing.T) {
	rings := ClassRings{15: {square(10)}}

	inside := testListing(1, 5, 5)
	outside := testListing(2, 5, 15)

	index := Build([]listing.Listing{inside, outside}, rings)

	assert.Equal(t, 15, index[1])
	_, ok := index[2]
	assert.False(t, ok, "listing outside every ring must be absent, not zero")
}

func TestBuildClassPrecedence(t *testing.T) {
	// The 30-minute ring encloses the 15-minute ring; a listing inside
	// both gets the smaller class.
	rings := ClassRings{
		30: {square(20)},
		15: {square(10)},
	}

	l := testListing(7, 5, 5)
	farther := testListing(8, 15, 15)

	index := Build([]listing.Listing{l, farther}, rings)

	assert.Equal(t, 15, index[7])
	assert.Equal(t, 30, index[8])
}

func TestBuildDegenerateRings(t *testing.T) {
	rings := ClassRings{
		15: {
			{},                     // empty
			{{0, 0}, {10, 10}},     // two vertices
			{{0, 0}, {0, 1}, {1, 0}, {0, 0}}, // valid tiny triangle far away
		},
	}

	l := testListing(1, 5, 5)
	index := Build([]listing.Listing{l}, rings)
	_, ok := index[1]
	assert.False(t, ok)
}

func TestBuildSkipsUnpositionedListings(t *testing.T) {
	rings := ClassRings{15: {square(10)}}
	index := Build([]listing.Listing{{ID: 3}}, rings)
	assert.Empty(t, index)
}

func TestBuildBoundaryConsistency(t *testing.T) {
	rings := ClassRings{15: {square(10)}}
	onEdge := testListing(1, 5, 0)

	first := Build([]listing.Listing{onEdge}, rings)
	for i := 0; i < 100; i++ {
		again := Build([]listing.Listing{onEdge}, rings)
		assert.Equal(t, first, again, "edge classification must be stable")
	}
}

func TestParseIsochrones(t *testing.T) {
	doc := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"value": 900},
				"geometry": {"type": "Polygon", "coordinates": [
					[[0,0],[0,10],[10,10],[10,0],[0,0]],
					[[2,2],[2,3],[3,3],[3,2],[2,2]]
				]}
			},
			{
				"type": "Feature",
				"properties": {"value": 1800},
				"geometry": {"type": "MultiPolygon", "coordinates": [
					[[[0,0],[0,20],[20,20],[20,0],[0,0]]],
					[[[30,30],[30,40],[40,40],[40,30],[30,30]]]
				]}
			},
			{
				"type": "Feature",
				"properties": {"value": 2700},
				"geometry": {"type": "Polygon", "coordinates": [
					[[0,0],[0,30],[30,30],[30,0],[0,0]]
				]}
			},
			{
				"type": "Feature",
				"properties": {"value": 900},
				"geometry": {"type": "Point", "coordinates": [1,1]}
			}
		]
	}`)

	rings, err := ParseIsochrones(doc)
	require.NoError(t, err)

	assert.Equal(t, []int{15, 30}, rings.Classes())
	assert.Len(t, rings[15], 1, "holes and point geometries contribute nothing")
	assert.Len(t, rings[30], 2, "every multipolygon member contributes its outer ring")
	_, has45 := rings[45]
	assert.False(t, has45, "45 minutes is not a recognized class")
}

func TestParseIsochronesRejectsGarbage(t *testing.T) {
	_, err := ParseIsochrones([]byte("not geojson"))
	assert.Error(t, err)
}

func TestParseIsochronesRoundsSeconds(t *testing.T) {
	doc := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"value": 913},
			"geometry": {"type": "Polygon", "coordinates": [
				[[0,0],[0,1],[1,1],[1,0],[0,0]]
			]}
		}]
	}`)

	rings, err := ParseIsochrones(doc)
	require.NoError(t, err)
	assert.Len(t, rings[15], 1, "913s rounds to the 15-minute class")
}
