package viewstate

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Fragment query keys. Booleans are rendered "1"/"0"; numeric filters are
// omitted at their disabled (zero) value.
const (
	keyMinPrice = "minPrice"
	keyMaxPrice = "maxPrice"
	keyMinArea  = "minArea"
	keyAIScore  = "aiScore"
	keyMinRooms = "minRooms"
	keyDistrict = "district"
	keyWalk     = "walk"
	keyGreens   = "greens"
	keyRings    = "rings"
	keyTable    = "table"
	keyFav      = "fav"
	keyHide     = "hide"
	keySelected = "sel"
)

// Encode renders s as a URL fragment: "<zoom>/<lat>/<lng>?<query>". The path
// segment appears only when the map view is set, with lat/lng at exactly six
// fractional digits. Absent fields are omitted; an empty state encodes to "".
func Encode(s State) string {
	var b strings.Builder
	if s.Center != nil {
		fmt.Fprintf(&b, "%d/%.6f/%.6f", s.Center.Zoom, s.Center.Lat, s.Center.Lng)
	}

	q := url.Values{}
	putFloat(q, keyMinPrice, s.Filters.MinPrice)
	putFloat(q, keyMaxPrice, s.Filters.MaxPrice)
	putFloat(q, keyMinArea, s.Filters.MinArea)
	putFloat(q, keyAIScore, s.Filters.MinScore)
	putInt(q, keyMinRooms, s.Filters.MinRooms)
	if s.Filters.District != "" {
		q.Set(keyDistrict, s.Filters.District)
	}
	putInt(q, keyWalk, s.Filters.MaxWalk)
	putBool(q, keyGreens, s.Greens)
	putBool(q, keyRings, s.Rings)
	putBool(q, keyTable, s.Table)
	putBool(q, keyFav, s.Fav)
	putBool(q, keyHide, s.Hide)
	if s.Selected != nil {
		q.Set(keySelected, strconv.Itoa(*s.Selected))
	}

	if encoded := q.Encode(); encoded != "" {
		b.WriteByte('?')
		b.WriteString(encoded)
	}
	return b.String()
}

func putFloat(q url.Values, key string, v float64) {
	if v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
		q.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
	}
}

func putInt(q url.Values, key string, v int) {
	if v != 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func putBool(q url.Values, key string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		q.Set(key, "1")
	} else {
		q.Set(key, "0")
	}
}

// Decode parses a fragment back into a partial State. Decoding is total:
// malformed pieces are dropped and the largest coherent subset of fields
// survives. An unparseable map-view segment or a missing member of the
// zoom/lat/lng group drops the whole group.
func Decode(fragment string) State {
	var s State
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return s
	}

	path := fragment
	query := ""
	if i := strings.IndexByte(fragment, '?'); i >= 0 {
		path, query = fragment[:i], fragment[i+1:]
	}

	s.Center = decodeMapView(path)

	// ParseQuery reports the first malformed pair but still returns
	// everything it could parse; keep that subset.
	q, _ := url.ParseQuery(query)
	if f, ok := parseFloat(q.Get(keyMinPrice)); ok {
		s.Filters.MinPrice = f
	}
	if f, ok := parseFloat(q.Get(keyMaxPrice)); ok {
		s.Filters.MaxPrice = f
	}
	if f, ok := parseFloat(q.Get(keyMinArea)); ok {
		s.Filters.MinArea = f
	}
	if f, ok := parseFloat(q.Get(keyAIScore)); ok {
		s.Filters.MinScore = f
	}
	if n, ok := parseInt(q.Get(keyMinRooms)); ok {
		s.Filters.MinRooms = n
	}
	if d := q.Get(keyDistrict); d != "" {
		s.Filters.District = d
	}
	if n, ok := parseInt(q.Get(keyWalk)); ok {
		s.Filters.MaxWalk = n
	}
	s.Greens = parseBool(q, keyGreens)
	s.Rings = parseBool(q, keyRings)
	s.Table = parseBool(q, keyTable)
	s.Fav = parseBool(q, keyFav)
	s.Hide = parseBool(q, keyHide)
	if n, ok := parseInt(q.Get(keySelected)); ok {
		s.Selected = &n
	}
	return s
}

func decodeMapView(path string) *MapView {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	if len(parts) != 3 {
		return nil
	}
	zoom, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	lat, okLat := parseFloat(parts[1])
	lng, okLng := parseFloat(parts[2])
	if !okLat || !okLng {
		return nil
	}
	return &MapView{Zoom: zoom, Lat: lat, Lng: lng}
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseBool(q url.Values, key string) *bool {
	switch q.Get(key) {
	case "1":
		v := true
		return &v
	case "0":
		v := false
		return &v
	}
	return nil
}
