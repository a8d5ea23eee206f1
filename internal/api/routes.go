// Package api defines the Huma API routes and handlers for the listing
// viewer.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rentmap/rentmap/internal/filter"
	"github.com/rentmap/rentmap/internal/listing"
	"github.com/rentmap/rentmap/internal/overlay"
	"github.com/rentmap/rentmap/internal/preload"
	"github.com/rentmap/rentmap/internal/togglestore"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Listings *listing.Service
	Overlay  *overlay.Service
	Toggles  *togglestore.Pair
	Warmer   *preload.Warmer

	// WalkIndex maps listing ID to walking-time class. Nil when the
	// isochrone overlay is unavailable.
	WalkIndex map[int]int

	PreloadConcurrency int
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// Types

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// ListingsInput carries the viewer's filter values as query parameters.
// Zero values disable their dimension.
type ListingsInput struct {
	MinPrice float64 `query:"minPrice" doc:"Minimum monthly price in USD" example:"500"`
	MaxPrice float64 `query:"maxPrice" doc:"Maximum monthly price in USD" example:"2500"`
	MinArea  float64 `query:"minArea" doc:"Minimum building area in square meters" example:"120"`
	AIScore  float64 `query:"aiScore" doc:"Minimum review score (1-10)" example:"7"`
	MinRooms int     `query:"minRooms" doc:"Minimum room count" example:"3"`
	District string  `query:"district" doc:"Exact district name" example:"Arabkir"`
	Walk     int     `query:"walk" doc:"Maximum walking-time class in minutes (0 disables)" example:"15"`
	Fav      bool    `query:"fav" doc:"Only favorited listings"`
	Hide     bool    `query:"hide" doc:"Hide disliked listings"`
}

type ListingsBody struct {
	Listings []listing.Listing `json:"listings" doc:"Filtered listings in pipeline order"`
	Count    int               `json:"count" doc:"Number of listings returned"`
	Total    int               `json:"total" doc:"Total listings before filtering"`
	WalkOK   bool              `json:"walkOk" doc:"Whether the walking-time filter is available"`
}

type ListingIDInput struct {
	ID int `path:"id" doc:"Listing ID" example:"1284"`
}

type ListingOutput struct {
	Body listing.Listing
}

// Routes

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterListings registers the filtered listing routes.
func (h *APIHandler) RegisterListings(api huma.API) {
	huma.Get(api, "/api/v1/listings", h.GetListings, huma.OperationTags("listings"))
	huma.Get(api, "/api/v1/listings/{id}", h.GetListing, huma.OperationTags("listings"))
}

// RegisterOverlays registers the overlay GeoJSON routes.
func (h *APIHandler) RegisterOverlays(api huma.API) {
	huma.Get(api, "/api/v1/overlays/greens", h.GetGreens, huma.OperationTags("overlays"))
	huma.Get(api, "/api/v1/overlays/isochrones", h.GetIsochrones, huma.OperationTags("overlays"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetListings(ctx context.Context, input *ListingsInput) (*struct{ Body ListingsBody }, error) {
	if h.svc == nil || h.svc.Listings == nil {
		return &struct{ Body ListingsBody }{Body: ListingsBody{Listings: []listing.Listing{}}}, nil
	}

	values := filter.Values{
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		MinArea:  input.MinArea,
		MinScore: input.AIScore,
		MinRooms: input.MinRooms,
		District: input.District,
		MaxWalk:  input.Walk,
	}

	walkOK := h.svc.Overlay != nil && h.svc.Overlay.HasIsochrones()
	if !walkOK {
		// No isochrone data: the walking-time affordance is disabled, not
		// an empty result.
		values.MaxWalk = 0
	}

	all := h.svc.Listings.All()
	filtered := filter.Apply(all, values, h.svc.WalkIndex)

	if input.Fav || input.Hide {
		kept := filtered[:0]
		for _, l := range filtered {
			if input.Fav && !h.svc.Toggles.Favorites.Has(l.URL) {
				continue
			}
			if input.Hide && h.svc.Toggles.Dislikes.Has(l.URL) {
				continue
			}
			kept = append(kept, l)
		}
		filtered = kept
	}

	return &struct{ Body ListingsBody }{Body: ListingsBody{
		Listings: filtered,
		Count:    len(filtered),
		Total:    len(all),
		WalkOK:   walkOK,
	}}, nil
}

func (h *APIHandler) GetListing(ctx context.Context, input *ListingIDInput) (*ListingOutput, error) {
	if h.svc == nil || h.svc.Listings == nil {
		return nil, huma.Error404NotFound("listing not found")
	}
	l, ok := h.svc.Listings.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("listing not found")
	}
	return &ListingOutput{Body: l}, nil
}

type GeoJSONOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func (h *APIHandler) GetGreens(ctx context.Context, input *struct{}) (*GeoJSONOutput, error) {
	data, ok := h.svc.Overlay.Greens()
	if !ok {
		return nil, huma.Error404NotFound("greens overlay not available")
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: data}, nil
}

func (h *APIHandler) GetIsochrones(ctx context.Context, input *struct{}) (*GeoJSONOutput, error) {
	data, ok := h.svc.Overlay.Isochrones()
	if !ok {
		return nil, huma.Error404NotFound("isochrone overlay not available")
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: data}, nil
}
