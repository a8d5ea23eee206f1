package listing

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var yerevanRef = ReferencePoint{Lat: 40.1862324, Lng: 44.5047339}

func fptr(v float64) *float64 { return &v }

func TestPosition(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	cases := []struct {
		name string
		l    Listing
		ok   bool
	}{
		{"both set", Listing{Lat: fptr(40.1), Lng: fptr(44.5)}, true},
		{"missing lat", Listing{Lng: fptr(44.5)}, false},
		{"missing lng", Listing{Lat: fptr(40.1)}, false},
		{"nan lat", Listing{Lat: &nan, Lng: fptr(44.5)}, false},
		{"inf lng", Listing{Lat: fptr(40.1), Lng: &inf}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok := tc.l.Position()
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestNormalizeDropsUnpositioned(t *testing.T) {
	nan := math.NaN()
	in := []Listing{
		{ID: 1, Lat: fptr(40.19), Lng: fptr(44.52)},
		{ID: 2},
		{ID: 3, Lat: &nan, Lng: fptr(44.5)},
		{ID: 4, Lat: fptr(40.18), Lng: fptr(44.50)},
	}

	out := Normalize(in, yerevanRef)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 4, out[1].ID)
}

func TestNormalizeFillsDistance(t *testing.T) {
	out := Normalize([]Listing{
		{ID: 1, Lat: fptr(yerevanRef.Lat), Lng: fptr(yerevanRef.Lng)},
		{ID: 2, Lat: fptr(40.2050), Lng: fptr(44.5150), StraightLineKm: fptr(9.99)},
		{ID: 3, Lat: fptr(40.2050), Lng: fptr(44.5150)},
	}, yerevanRef)
	require.Len(t, out, 3)

	require.NotNil(t, out[0].StraightLineKm)
	assert.Zero(t, *out[0].StraightLineKm)

	assert.Equal(t, 9.99, *out[1].StraightLineKm, "an already computed distance is kept")

	require.NotNil(t, out[2].StraightLineKm)
	km := *out[2].StraightLineKm
	assert.Greater(t, km, 1.0)
	assert.Less(t, km, 4.0)
	assert.Equal(t, km, math.Round(km*100)/100, "distance is rounded to two decimals")
}

func TestMapsURL(t *testing.T) {
	l := Listing{Lat: fptr(40.19), Lng: fptr(44.52)}
	assert.Equal(t, "https://www.google.com/maps?q=40.19,44.52", l.MapsURL())
	assert.Empty(t, (&Listing{}).MapsURL())
}

func writeListings(t *testing.T, dir string, listings []Listing) {
	t.Helper()
	data, err := json.Marshal(listings)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "listings.json"), data, 0644))
}

func TestServiceLoadAndGet(t *testing.T) {
	dir := t.TempDir()
	writeListings(t, dir, []Listing{
		{ID: 10, URL: "https://example.com/10", Lat: fptr(40.19), Lng: fptr(44.52)},
		{ID: 11, URL: "https://example.com/11"},
	})

	svc := NewService(dir, yerevanRef)
	require.NoError(t, svc.Load())

	assert.Equal(t, 1, svc.Len(), "unpositioned listings are dropped at load")

	l, ok := svc.Get(10)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/10", l.URL)
	assert.NotNil(t, l.StraightLineKm)

	_, ok = svc.Get(11)
	assert.False(t, ok)
}

func TestServiceLoadMissingFile(t *testing.T) {
	svc := NewService(t.TempDir(), yerevanRef)
	assert.Error(t, svc.Load())
}

func TestShortlist(t *testing.T) {
	dir := t.TempDir()
	writeListings(t, dir, []Listing{
		{ID: 1, URL: "https://example.com/1", Lat: fptr(40.19), Lng: fptr(44.52)},
		{ID: 2, URL: "https://example.com/2", Lat: fptr(40.18), Lng: fptr(44.51)},
	})
	shortlist := "2\n\nnot-a-number\n1\n999\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shortlist_ids.txt"), []byte(shortlist), 0644))

	svc := NewService(dir, yerevanRef)
	require.NoError(t, svc.Load())

	urls, err := svc.Shortlist()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/2", "https://example.com/1"}, urls,
		"file order is preserved, junk lines and unknown IDs are skipped")
}

func TestShortlistMissingFile(t *testing.T) {
	svc := NewService(t.TempDir(), yerevanRef)
	urls, err := svc.Shortlist()
	require.NoError(t, err)
	assert.Nil(t, urls)
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "listings.csv")

	rooms := 2
	listings := []Listing{{
		ID:         1,
		URL:        "https://example.com/1",
		PriceUSD:   fptr(750),
		Rooms:      &rooms,
		District:   "Kentron",
		Facilities: []string{"heating", "elevator"},
		Lat:        fptr(40.19),
		Lng:        fptr(44.52),
	}}
	require.NoError(t, ExportCSV(listings, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvColumns, rows[0])
	header := rows[0]
	row := rows[1]
	get := func(col string) string {
		for i, h := range header {
			if h == col {
				return row[i]
			}
		}
		t.Fatalf("column %q not found", col)
		return ""
	}
	assert.Equal(t, "1", get("id"))
	assert.Equal(t, "750", get("price_usd"))
	assert.Equal(t, "", get("building_area_sqm"), "unknown numerics export as empty cells")
	assert.Equal(t, "heating; elevator", get("facilities"))
	assert.Equal(t, "https://www.google.com/maps?q=40.19,44.52", get("maps_url"))
}

func TestFeatureCollection(t *testing.T) {
	listings := []Listing{
		{ID: 1, URL: "https://example.com/1", PriceUSD: fptr(750), Lat: fptr(40.19), Lng: fptr(44.52)},
		{ID: 2, URL: "https://example.com/2"},
	}

	fc := FeatureCollection(listings)
	require.Len(t, fc.Features, 1, "unpositioned listings produce no feature")

	f := fc.Features[0]
	pt := f.Geometry.(orb.Point)
	assert.Equal(t, 44.52, pt[0], "GeoJSON point order is lng, lat")
	assert.Equal(t, 40.19, pt[1])
	assert.Equal(t, 1, f.Properties["id"])
	assert.Equal(t, 750.0, f.Properties["price_usd"])
}

func TestExportShortlist(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "shortlist.csv")
	jsonPath := filepath.Join(dir, "shortlist.json")

	listings := []Listing{
		{ID: 2, URL: "https://example.com/2", Street: "Abovyan St"},
		{ID: 1, URL: "https://example.com/1"},
		{ID: 3},
	}
	require.NoError(t, ExportShortlist(listings, csvPath, jsonPath))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, shortlistColumns, rows[0])
	assert.Equal(t, "2", rows[1][0], "input order is preserved")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var urls []string
	require.NoError(t, json.Unmarshal(data, &urls))
	assert.Equal(t, []string{"https://example.com/2", "https://example.com/1"}, urls,
		"listings without a URL are left out of the JSON seed list")
}

func TestExportGeoJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "listings.geojson")

	listings := []Listing{{ID: 1, URL: "https://example.com/1", Lat: fptr(40.19), Lng: fptr(44.52)}}
	require.NoError(t, ExportGeoJSON(listings, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}
