package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rentmap/rentmap/internal/listing"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func sample() []listing.Listing {
	return []listing.Listing{
		{ID: 1, PriceUSD: fptr(500), BuildingAreaSqm: fptr(40), Rooms: iptr(2), AIScore: fptr(7), District: "Kentron"},
		{ID: 2, PriceUSD: fptr(900), BuildingAreaSqm: fptr(80), Rooms: iptr(3), AIScore: fptr(9), District: "Arabkir"},
		{ID: 3}, // every attribute unknown
		{ID: 4, PriceUSD: fptr(1500), BuildingAreaSqm: fptr(120), Rooms: iptr(4), AIScore: fptr(5), District: "Kentron"},
	}
}

func ids(listings []listing.Listing) []int {
	out := make([]int, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestApplyZeroValuesPassEverything(t *testing.T) {
	in := sample()
	out := Apply(in, Values{}, nil)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(out))

	// The result is a copy, not the input slice.
	out[0].ID = 99
	assert.Equal(t, 1, in[0].ID)
}

func TestApplyPriceBand(t *testing.T) {
	out := Apply(sample(), Values{MinPrice: 600, MaxPrice: 1000}, nil)
	assert.Equal(t, []int{2, 3}, ids(out),
		"unknown price passes both bounds")
}

func TestApplyAreaScoreRooms(t *testing.T) {
	out := Apply(sample(), Values{MinArea: 70, MinScore: 6, MinRooms: 3}, nil)
	assert.Equal(t, []int{2, 3}, ids(out))
}

func TestApplyDistrict(t *testing.T) {
	out := Apply(sample(), Values{District: "Kentron"}, nil)
	assert.Equal(t, []int{1, 3, 4}, ids(out),
		"listings without district data are not excluded")
}

func TestApplyPreservesOrder(t *testing.T) {
	out := Apply(sample(), Values{MaxPrice: 2000}, nil)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(out))
}

func TestWalkUnknownDistanceFails(t *testing.T) {
	index := map[int]int{1: 15, 2: 30}

	out := Apply(sample(), Values{MaxWalk: 30}, index)
	assert.Equal(t, []int{1, 2}, ids(out),
		"walk is the one dimension where absence of data excludes")

	out = Apply(sample(), Values{MaxWalk: 15}, index)
	assert.Equal(t, []int{1}, ids(out))
}

func TestWalkNilIndex(t *testing.T) {
	out := Apply(sample(), Values{MaxWalk: 30}, nil)
	assert.Empty(t, out, "active walk filter with no index passes nothing")

	out = Apply(sample(), Values{}, nil)
	assert.Len(t, out, 4, "disabled walk filter ignores the index")
}

func TestIsZero(t *testing.T) {
	assert.True(t, Values{}.IsZero())
	assert.False(t, Values{MinRooms: 1}.IsZero())
	assert.False(t, Values{District: "Kentron"}.IsZero())
}
