package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const isochronesDoc = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"properties": {"value": 900},
		"geometry": {"type": "Polygon", "coordinates": [
			[[44.4,40.1],[44.4,40.3],[44.6,40.3],[44.6,40.1],[44.4,40.1]]
		]}
	}]
}`

func TestServiceWithBothOverlays(t *testing.T) {
	dir := t.TempDir()
	greens := []byte(`{"type":"FeatureCollection","features":[]}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greens.geojson"), greens, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "isochrones.geojson"), []byte(isochronesDoc), 0644))

	s := NewService(dir, nil)

	data, ok := s.Greens()
	assert.True(t, ok)
	assert.Equal(t, greens, data)

	_, ok = s.Isochrones()
	assert.True(t, ok)
	assert.True(t, s.HasIsochrones())
	assert.Len(t, s.Rings()[15], 1)
}

func TestServiceMissingFiles(t *testing.T) {
	s := NewService(t.TempDir(), nil)

	_, ok := s.Greens()
	assert.False(t, ok)
	_, ok = s.Isochrones()
	assert.False(t, ok)
	assert.False(t, s.HasIsochrones())
	assert.Nil(t, s.Rings())
}

func TestServiceMalformedIsochrones(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "isochrones.geojson"), []byte("{broken"), 0644))

	s := NewService(dir, nil)
	assert.False(t, s.HasIsochrones(), "unreadable overlay disables the walk filter")
	_, ok := s.Isochrones()
	assert.False(t, ok)
}
