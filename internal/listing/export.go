package listing

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// csvColumns is the column order of the exported spreadsheet. Kept stable so
// downstream sheets do not reshuffle on re-export.
var csvColumns = []string{
	"id", "url", "price_usd", "building_area_sqm", "land_area_sqm",
	"street", "district", "city", "rooms", "bathrooms", "ceiling_height_m",
	"floors", "building_type", "condition", "facilities", "amenities",
	"description", "photo_urls", "photo_count", "lat", "lng",
	"geocode_precision", "ai_score", "maps_url",
}

// ExportCSV writes the listing collection as a flat CSV to path.
func ExportCSV(listings []Listing, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return err
	}
	for i := range listings {
		if err := w.Write(csvRow(&listings[i])); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRow(l *Listing) []string {
	return []string{
		strconv.Itoa(l.ID),
		l.URL,
		cellFloat(l.PriceUSD),
		cellFloat(l.BuildingAreaSqm),
		cellFloat(l.LandAreaSqm),
		l.Street,
		l.District,
		l.City,
		cellInt(l.Rooms),
		cellInt(l.Bathrooms),
		cellFloat(l.CeilingHeightM),
		cellInt(l.Floors),
		l.BuildingType,
		l.Condition,
		strings.Join(l.Facilities, "; "),
		strings.Join(l.Amenities, "; "),
		l.Description,
		strings.Join(l.PhotoURLs, "; "),
		strconv.Itoa(l.PhotoCount),
		cellFloat(l.Lat),
		cellFloat(l.Lng),
		l.GeocodePrecision,
		cellFloat(l.AIScore),
		l.MapsURL(),
	}
}

func cellFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func cellInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// shortlistColumns is the human-facing column set of the shortlist sheet,
// ordered for reading rather than for machines.
var shortlistColumns = []string{
	"ID", "Street", "District", "Price (USD/mo)", "URL", "Rooms",
	"Building (m²)", "Land (m²)", "Bathrooms", "Floors", "Building type",
	"Condition", "Ceiling (m)", "Facilities", "Amenities", "Photo count",
	"AI Score", "AI Summary", "Description", "Lat", "Lng",
}

func shortlistRow(l *Listing) []string {
	return []string{
		strconv.Itoa(l.ID),
		l.Street,
		l.District,
		cellFloat(l.PriceUSD),
		l.URL,
		cellInt(l.Rooms),
		cellFloat(l.BuildingAreaSqm),
		cellFloat(l.LandAreaSqm),
		cellInt(l.Bathrooms),
		cellInt(l.Floors),
		l.BuildingType,
		l.Condition,
		cellFloat(l.CeilingHeightM),
		strings.Join(l.Facilities, "; "),
		strings.Join(l.Amenities, "; "),
		strconv.Itoa(l.PhotoCount),
		cellFloat(l.AIScore),
		l.AISummary,
		l.Description,
		cellFloat(l.Lat),
		cellFloat(l.Lng),
	}
}

// ExportShortlist writes the shortlisted listings as a review sheet at
// csvPath and their URLs as a JSON array at jsonPath, preserving input order.
func ExportShortlist(listings []Listing, csvPath, jsonPath string) error {
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create shortlist csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(shortlistColumns); err != nil {
		return err
	}
	for i := range listings {
		if err := w.Write(shortlistRow(&listings[i])); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	urls := make([]string, 0, len(listings))
	for i := range listings {
		if listings[i].URL != "" {
			urls = append(urls, listings[i].URL)
		}
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(jsonPath, data, 0644)
}

// FeatureCollection converts the listings into a GeoJSON point collection.
// Listings without a finite position are skipped.
func FeatureCollection(listings []Listing) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range listings {
		l := &listings[i]
		lat, lng, ok := l.Position()
		if !ok {
			continue
		}

		f := geojson.NewFeature(orb.Point{lng, lat})
		f.Properties = geojson.Properties{
			"id":         l.ID,
			"url":        l.URL,
			"street":     l.Street,
			"district":   l.District,
			"city":       l.City,
			"maps_url":   l.MapsURL(),
			"photo_urls": l.PhotoURLs,
		}
		if l.PriceUSD != nil {
			f.Properties["price_usd"] = *l.PriceUSD
		}
		if l.BuildingAreaSqm != nil {
			f.Properties["building_area_sqm"] = *l.BuildingAreaSqm
		}
		if l.Rooms != nil {
			f.Properties["rooms"] = *l.Rooms
		}
		if l.AIScore != nil {
			f.Properties["ai_score"] = *l.AIScore
		}
		fc.Append(f)
	}
	return fc
}

// ExportGeoJSON writes the listings as a GeoJSON FeatureCollection to path.
func ExportGeoJSON(listings []Listing, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(FeatureCollection(listings), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
