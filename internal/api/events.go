package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"
)

// EventHandler streams toggle-store changes to the viewer UI as Datastar
// signal patches, so favorite/dislike counts and badges update without a
// reload.
type EventHandler struct {
	svc *Services
}

func NewEventHandler(svc *Services) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/events", h.Events, huma.OperationTags("tags"))
}

func (h *EventHandler) Events(ctx context.Context, input *struct{}) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			r, w := humago.Unwrap(humaCtx)
			sse := datastar.NewSSE(w, r)

			signals := make(chan map[string]any, 16)
			push := func(name string) func([]string) {
				return func(keys []string) {
					select {
					case signals <- map[string]any{
						name:           keys,
						name + "Count": len(keys),
					}:
					default:
						// viewer too slow, it will catch up on the next change
					}
				}
			}

			unsubFav := h.svc.Toggles.Favorites.Subscribe(push("favorites"))
			defer unsubFav()
			unsubDis := h.svc.Toggles.Dislikes.Subscribe(push("dislikes"))
			defer unsubDis()

			for {
				select {
				case <-ctx.Done():
					return
				case sig := <-signals:
					if err := sse.MarshalAndPatchSignals(sig); err != nil {
						return
					}
				}
			}
		},
	}, nil
}
