package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmap/rentmap/internal/filter"
)

func TestEncodeEmptyState(t *testing.T) {
	assert.Equal(t, "", Encode(State{}))
}

func TestEncodeCenterOnly(t *testing.T) {
	s := State{Center: &MapView{Zoom: 13, Lat: 40.1862324, Lng: 44.5047339}}
	assert.Equal(t, "13/40.186232/44.504734", Encode(s),
		"coordinates render at exactly six fractional digits, no query separator")
}

func TestEncodeOmitsDisabledFilters(t *testing.T) {
	s := State{Filters: filter.Values{MinRooms: 2}}
	assert.Equal(t, "?minRooms=2", Encode(s))
}

func TestEncodeBooleans(t *testing.T) {
	s := State{Greens: Bool(true), Table: Bool(false)}
	got := Encode(s)
	assert.Contains(t, got, "greens=1")
	assert.Contains(t, got, "table=0")
	assert.NotContains(t, got, "rings", "absent toggles are omitted entirely")
}

func TestRoundTrip(t *testing.T) {
	s := State{
		Center: &MapView{Zoom: 15, Lat: 40.186232, Lng: 44.504734},
		Filters: filter.Values{
			MinPrice: 400,
			MaxPrice: 1200,
			MinArea:  55.5,
			MinScore: 7,
			MinRooms: 2,
			District: "Kentron",
			MaxWalk:  15,
		},
		Greens:   Bool(true),
		Rings:    Bool(false),
		Table:    Bool(true),
		Fav:      Bool(false),
		Hide:     Bool(true),
		Selected: Int(1234),
	}

	got := Decode(Encode(s))
	assert.Equal(t, s, got)
}

func TestDecodeTolerantOfHashPrefix(t *testing.T) {
	s := Decode("#13/40.186232/44.504734?walk=30")
	require.NotNil(t, s.Center)
	assert.Equal(t, 13, s.Center.Zoom)
	assert.Equal(t, 30, s.Filters.MaxWalk)
}

func TestDecodeMapViewAllOrNothing(t *testing.T) {
	for _, fragment := range []string{
		"13/40.186232",             // missing lng
		"abc/40.186232/44.504734",  // bad zoom
		"13/not-a-number/44.50",    // bad lat
		"13/40.186232/44.50/extra", // too many segments
	} {
		s := Decode(fragment + "?fav=1")
		assert.Nil(t, s.Center, "fragment %q", fragment)
		require.NotNil(t, s.Fav, "fragment %q", fragment)
		assert.True(t, *s.Fav, "a broken path segment must not take the query down")
	}
}

func TestDecodeDropsMalformedValues(t *testing.T) {
	s := Decode("?minPrice=cheap&maxPrice=900&walk=soon&sel=12")
	assert.Zero(t, s.Filters.MinPrice)
	assert.Equal(t, float64(900), s.Filters.MaxPrice)
	assert.Zero(t, s.Filters.MaxWalk)
	require.NotNil(t, s.Selected)
	assert.Equal(t, 12, *s.Selected)
}

func TestDecodeUnknownBooleanValues(t *testing.T) {
	s := Decode("?greens=yes&rings=1&table=")
	assert.Nil(t, s.Greens, `only "1" and "0" are boolean renderings`)
	require.NotNil(t, s.Rings)
	assert.True(t, *s.Rings)
	assert.Nil(t, s.Table)
}

func TestDecodeEmptyFragment(t *testing.T) {
	assert.Equal(t, State{}, Decode(""))
	assert.Equal(t, State{}, Decode("#"))
}
