package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// Favorite/dislike tag routes. Keys are listing URLs, matching what the
// scraping pipeline uses as the stable listing identity across re-scrapes.

type TagSetBody struct {
	Keys  []string `json:"keys" doc:"Tagged listing URLs, sorted"`
	Count int      `json:"count" doc:"Number of tagged listings"`
}

type ToggleInput struct {
	Body struct {
		URL string `json:"url" required:"true" minLength:"1" doc:"Listing URL to toggle"`
	}
}

type ToggleBody struct {
	URL    string `json:"url" doc:"Listing URL"`
	Active bool   `json:"active" doc:"Membership after the toggle"`
}

// RegisterTags registers the favorite and dislike routes.
func (h *APIHandler) RegisterTags(api huma.API) {
	huma.Get(api, "/api/v1/favorites", h.GetFavorites, huma.OperationTags("tags"))
	huma.Post(api, "/api/v1/favorites/toggle", h.ToggleFavorite, huma.OperationTags("tags"))
	huma.Get(api, "/api/v1/dislikes", h.GetDislikes, huma.OperationTags("tags"))
	huma.Post(api, "/api/v1/dislikes/toggle", h.ToggleDislike, huma.OperationTags("tags"))
}

func (h *APIHandler) GetFavorites(ctx context.Context, input *struct{}) (*struct{ Body TagSetBody }, error) {
	keys := h.svc.Toggles.Favorites.All()
	return &struct{ Body TagSetBody }{Body: TagSetBody{Keys: keys, Count: len(keys)}}, nil
}

func (h *APIHandler) GetDislikes(ctx context.Context, input *struct{}) (*struct{ Body TagSetBody }, error) {
	keys := h.svc.Toggles.Dislikes.All()
	return &struct{ Body TagSetBody }{Body: TagSetBody{Keys: keys, Count: len(keys)}}, nil
}

func (h *APIHandler) ToggleFavorite(ctx context.Context, input *ToggleInput) (*struct{ Body ToggleBody }, error) {
	active := h.svc.Toggles.ToggleFavorite(input.Body.URL)
	return &struct{ Body ToggleBody }{Body: ToggleBody{URL: input.Body.URL, Active: active}}, nil
}

func (h *APIHandler) ToggleDislike(ctx context.Context, input *ToggleInput) (*struct{ Body ToggleBody }, error) {
	active := h.svc.Toggles.ToggleDislike(input.Body.URL)
	return &struct{ Body ToggleBody }{Body: ToggleBody{URL: input.Body.URL, Active: active}}, nil
}

// Photo preloading.

type PreloadInput struct {
	Body struct {
		IDs         []int `json:"ids" doc:"Listing IDs whose photos to warm; empty means all favorites"`
		Concurrency int   `json:"concurrency,omitempty" doc:"Requested worker count (bounded server-side)"`
	}
}

type PreloadBody struct {
	URLs int `json:"urls" doc:"Number of photo URLs queued"`
}

// RegisterPreload registers the photo warm-up route.
func (h *APIHandler) RegisterPreload(api huma.API) {
	huma.Post(api, "/api/v1/preload", h.Preload, huma.OperationTags("listings"))
}

// Preload starts warming listing photos in the background and returns
// immediately; progress is not reported, a warmed cache is its own signal.
func (h *APIHandler) Preload(ctx context.Context, input *PreloadInput) (*struct{ Body PreloadBody }, error) {
	ids := input.Body.IDs
	if len(ids) == 0 {
		for _, url := range h.svc.Toggles.Favorites.All() {
			for _, l := range h.svc.Listings.All() {
				if l.URL == url {
					ids = append(ids, l.ID)
				}
			}
		}
	}

	var urls []string
	for _, id := range ids {
		if l, ok := h.svc.Listings.Get(id); ok {
			urls = append(urls, l.PhotoURLs...)
		}
	}

	concurrency := input.Body.Concurrency
	if concurrency == 0 {
		concurrency = h.svc.PreloadConcurrency
	}
	h.svc.Warmer.Preload(urls, concurrency)

	return &struct{ Body PreloadBody }{Body: PreloadBody{URLs: len(urls)}}, nil
}
