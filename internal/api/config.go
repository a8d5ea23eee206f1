package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rentmap/rentmap/internal/config"
	"github.com/rentmap/rentmap/internal/geoindex"
	"github.com/rentmap/rentmap/internal/listing"
)

// ConfigHandler hands the viewer its bootstrap values: reference point,
// default camera, and the walking-time classes the isochrone data covers.
type ConfigHandler struct {
	cfg config.Config
}

func NewConfigHandler(cfg config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

func (h *ConfigHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/config", h.GetConfig, huma.OperationTags("health"))
}

type ConfigBody struct {
	Reference   listing.ReferencePoint `json:"reference" doc:"Point distances are measured against"`
	Map         config.MapDefaults     `json:"map" doc:"Default camera when no fragment is present"`
	WalkClasses []int                  `json:"walkClasses" doc:"Recognized walking-time classes in minutes"`
	DebounceMs  int                    `json:"debounceMs" doc:"Quiet window for view writes"`
}

func (h *ConfigHandler) GetConfig(ctx context.Context, input *struct{}) (*struct{ Body ConfigBody }, error) {
	return &struct{ Body ConfigBody }{Body: ConfigBody{
		Reference:   h.cfg.Reference,
		Map:         h.cfg.Map,
		WalkClasses: geoindex.WalkClasses,
		DebounceMs:  h.cfg.DebounceMs,
	}}, nil
}
