// Package server wires the viewer platform together: listing data, overlay
// index, toggle stores, view persistence, and the Huma API over one mux.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.uber.org/zap"

	"github.com/rentmap/rentmap/internal/api"
	"github.com/rentmap/rentmap/internal/config"
	"github.com/rentmap/rentmap/internal/db"
	"github.com/rentmap/rentmap/internal/geoindex"
	"github.com/rentmap/rentmap/internal/listing"
	"github.com/rentmap/rentmap/internal/logger"
	"github.com/rentmap/rentmap/internal/overlay"
	"github.com/rentmap/rentmap/internal/preload"
	"github.com/rentmap/rentmap/internal/togglestore"
	"github.com/rentmap/rentmap/internal/viewstate"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	WebDir  string // Path to web/ directory for the static viewer
	Debug   bool
	LogFile string
}

// Server is the listing viewer HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	log      *zap.Logger
	services *api.Services
	viewCfg  config.Config
	writer   *viewstate.DebouncedWriter
	viewPath string
}

// New creates a new viewer server. Missing or degraded data files reduce
// capability (no walk filter, no overlays) but never fail construction.
func New(cfg Config) *Server {
	log := logger.New(cfg.Debug, cfg.LogFile)

	viewCfg, err := config.Load(cfg.DataDir)
	if err != nil {
		log.Warn("viewer config unreadable, using defaults", zap.Error(err))
	}

	listings := listing.NewService(cfg.DataDir, viewCfg.Reference)
	if err := listings.Load(); err != nil {
		log.Warn("listings unavailable, serving empty collection", zap.Error(err))
	}

	ovl := overlay.NewService(cfg.DataDir, log)

	var walkIndex map[int]int
	if ovl.HasIsochrones() {
		walkIndex = geoindex.Build(listings.All(), ovl.Rings())
		log.Info("walk index built",
			zap.Int("classified", len(walkIndex)),
			zap.Int("listings", listings.Len()))
	}

	storage := togglestore.NewFileStorage(filepath.Join(cfg.DataDir, "state"))
	toggles := togglestore.NewPair(storage, log)
	if seed, err := listings.Shortlist(); err != nil {
		log.Warn("shortlist unreadable, favorites not seeded", zap.Error(err))
	} else if len(seed) > 0 {
		toggles.Favorites.SeedIfEmpty(seed)
	}

	services := &api.Services{
		Listings:           listings,
		Overlay:            ovl,
		Toggles:            toggles,
		Warmer:             preload.NewWarmer(nil, log),
		WalkIndex:          walkIndex,
		PreloadConcurrency: viewCfg.PreloadConcurrency,
	}

	viewPath := filepath.Join(cfg.DataDir, "state", "view.json")
	writer := viewstate.NewDebouncedWriter(
		viewstate.FileSink(viewPath, log), viewCfg.Debounce(), nil)

	mux := http.NewServeMux()
	humaConfig := huma.DefaultConfig("rentmap API", "1.0.0")
	humaConfig.Info.Description = "Viewer API for geotagged rental listings: filtering, overlays, favorites, and shareable view states."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())
	humaAPI := humago.New(mux, humaConfig)

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		log:      log,
		services: services,
		viewCfg:  viewCfg,
		writer:   writer,
		viewPath: viewPath,
	}

	conn, err := db.Get(db.Config{DataDir: cfg.DataDir, DBName: "rentmap"})
	if err != nil {
		log.Warn("duckdb unavailable, query endpoints disabled", zap.Error(err))
	} else {
		s.db = conn
		if err := db.RegisterListings(conn, filepath.Join(cfg.DataDir, "listings.json")); err != nil {
			log.Warn("listings view not registered", zap.Error(err))
		}
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Close flushes any pending view write and closes server resources.
func (s *Server) Close() error {
	s.writer.Flush()
	return db.Close()
}

func (s *Server) routes() {
	huma.AutoRegister(s.humaAPI, api.NewAPIHandler(s.services))

	api.NewInfoHandler(s.config.DataDir, s.db != nil,
		s.services.Listings.Len(), s.services.Overlay.HasIsochrones()).
		RegisterRoutes(s.humaAPI)
	api.NewConfigHandler(s.viewCfg).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)
	api.NewEventHandler(s.services).RegisterRoutes(s.humaAPI)
	api.NewViewHandler(s.writer, func() (viewstate.State, bool) {
		return viewstate.LoadFile(s.viewPath)
	}).RegisterRoutes(s.humaAPI)

	// Static viewer assets and raw data files
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	s.mux.Handle("/data/", http.StripPrefix("/data/", s.handleData(s.config.DataDir)))

	// Page routes
	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "rentmap",
		"status":  "running",
	})
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "viewer.html")
	http.ServeFile(w, r, templatePath)
}

// handleData serves the pipeline's data files (listings.json, overlays) with
// permissive CORS so a separately hosted viewer build can fetch them.
func (s *Server) handleData(dataDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		http.FileServer(http.Dir(dataDir)).ServeHTTP(w, r)
	})
}
