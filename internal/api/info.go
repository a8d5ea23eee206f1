package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	dataDir  string
	dbOK     bool
	listings int
	walkOK   bool
}

func NewInfoHandler(dataDir string, dbOK bool, listings int, walkOK bool) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, dbOK: dbOK, listings: listings, walkOK: walkOK}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"data_dir" doc:"Data directory path"`
	DB       bool     `json:"db" doc:"Whether database is available"`
	Listings int      `json:"listings" doc:"Number of loaded listings"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	features := []string{"listings", "favorites", "permalink", "preload"}
	if h.walkOK {
		features = append(features, "isochrones")
	}
	if h.dbOK {
		features = append(features, "duckdb")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "rentmap",
		Version:  "0.1.0",
		DataDir:  h.dataDir,
		DB:       h.dbOK,
		Listings: h.listings,
		Features: features,
	}}, nil
}
