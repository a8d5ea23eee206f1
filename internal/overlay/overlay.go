// Package overlay serves the optional map overlay files (green areas and
// walking-time isochrones) from the data directory.
package overlay

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rentmap/rentmap/internal/geoindex"
)

// Service loads overlay GeoJSON files once at startup. A missing or
// malformed file disables the dependent viewer affordance instead of
// failing: the viewer stays correct, just degraded.
type Service struct {
	dataDir string
	log     *zap.Logger

	greens     []byte
	isochrones []byte
	rings      geoindex.ClassRings
}

// NewService creates the overlay service and eagerly loads both files.
// logger may be nil.
func NewService(dataDir string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{dataDir: dataDir, log: logger}
	s.load()
	return s
}

func (s *Service) load() {
	if data, err := os.ReadFile(filepath.Join(s.dataDir, "greens.geojson")); err == nil {
		s.greens = data
	} else {
		s.log.Info("greens overlay unavailable", zap.Error(err))
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, "isochrones.geojson"))
	if err != nil {
		s.log.Info("isochrone overlay unavailable, walk filter disabled", zap.Error(err))
		return
	}
	rings, err := geoindex.ParseIsochrones(data)
	if err != nil {
		s.log.Warn("isochrone overlay unreadable, walk filter disabled", zap.Error(err))
		return
	}
	s.isochrones = data
	s.rings = rings
}

// Greens returns the green-areas GeoJSON document. ok is false when the
// overlay is unavailable.
func (s *Service) Greens() (data []byte, ok bool) {
	return s.greens, s.greens != nil
}

// Isochrones returns the isochrone GeoJSON document. ok is false when the
// overlay is unavailable.
func (s *Service) Isochrones() (data []byte, ok bool) {
	return s.isochrones, s.isochrones != nil
}

// Rings returns the parsed isochrone rings by walking-time class, or nil
// when the overlay is unavailable.
func (s *Service) Rings() geoindex.ClassRings {
	return s.rings
}

// HasIsochrones reports whether the walking-time filter can be offered.
func (s *Service) HasIsochrones() bool {
	return len(s.rings) > 0
}
