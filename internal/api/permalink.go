package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rentmap/rentmap/internal/viewstate"
)

// Permalink routes: the viewer posts its current state to get a shareable
// URL fragment, and resolves a fragment back into state on load.

type EncodeStateInput struct {
	Body viewstate.State
}

type FragmentBody struct {
	Fragment string `json:"fragment" doc:"URL fragment (without the leading #)" example:"13/40.187232/44.504734?minPrice=500&rings=1"`
}

type DecodeStateInput struct {
	Fragment string `query:"fragment" doc:"URL fragment to resolve (leading # optional)"`
}

type StateOutput struct {
	Body viewstate.State
}

// RegisterPermalink registers the view-state codec routes.
func (h *APIHandler) RegisterPermalink(api huma.API) {
	huma.Post(api, "/api/v1/permalink", h.EncodeState, huma.OperationTags("viewstate"))
	huma.Get(api, "/api/v1/permalink", h.DecodeState, huma.OperationTags("viewstate"))
}

func (h *APIHandler) EncodeState(ctx context.Context, input *EncodeStateInput) (*struct{ Body FragmentBody }, error) {
	return &struct{ Body FragmentBody }{Body: FragmentBody{
		Fragment: viewstate.Encode(input.Body),
	}}, nil
}

// DecodeState is total: malformed fragments resolve to the fields that
// parse, never to an error response.
func (h *APIHandler) DecodeState(ctx context.Context, input *DecodeStateInput) (*StateOutput, error) {
	return &StateOutput{Body: viewstate.Decode(input.Fragment)}, nil
}
