package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rentmap/rentmap/internal/viewstate"
)

// ViewHandler persists the viewer's last view so a reload restores it. Puts
// are debounced by default: continuous panning produces one write per quiet
// period, and only the last state of a burst lands.
type ViewHandler struct {
	writer *viewstate.DebouncedWriter
	load   func() (viewstate.State, bool)
}

func NewViewHandler(writer *viewstate.DebouncedWriter, load func() (viewstate.State, bool)) *ViewHandler {
	return &ViewHandler{writer: writer, load: load}
}

func (h *ViewHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/view", h.GetView, huma.OperationTags("viewstate"))
	huma.Put(api, "/api/v1/view", h.PutView, huma.OperationTags("viewstate"))
}

type SavedViewBody struct {
	Fragment string          `json:"fragment" doc:"Fragment rendering of the saved state"`
	State    viewstate.State `json:"state" doc:"Last saved view state"`
	Saved    bool            `json:"saved" doc:"Whether a saved view exists"`
}

func (h *ViewHandler) GetView(ctx context.Context, input *struct{}) (*struct{ Body SavedViewBody }, error) {
	s, ok := h.load()
	return &struct{ Body SavedViewBody }{Body: SavedViewBody{
		Fragment: viewstate.Encode(s),
		State:    s,
		Saved:    ok,
	}}, nil
}

type PutViewInput struct {
	// Immediate bypasses the debounce window for callers that need the
	// state on disk before navigating away.
	Immediate bool `query:"immediate" doc:"Persist now instead of after the quiet window"`
	Body      viewstate.State
}

func (h *ViewHandler) PutView(ctx context.Context, input *PutViewInput) (*struct{ Body FragmentBody }, error) {
	if input.Immediate {
		h.writer.Write(input.Body)
	} else {
		h.writer.WriteDebounced(input.Body)
	}
	return &struct{ Body FragmentBody }{Body: FragmentBody{
		Fragment: viewstate.Encode(input.Body),
	}}, nil
}
