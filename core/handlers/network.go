package handlers

import (
	"context"

	"github.com/adalundhe/helpline/core/diagnose"
)

// NetworkHandler answers connectivity questions by delegating to the
// diagnostic engine. It exists so the dispatcher sees one handler shape for
// every category.
type NetworkHandler struct {
	engine *diagnose.Engine
}

func NewNetworkHandler(engine *diagnose.Engine) *NetworkHandler {
	return &NetworkHandler{engine: engine}
}

func (h *NetworkHandler) Handle(ctx context.Context, query string) (string, error) {
	return h.engine.Diagnose(ctx, query), nil
}
