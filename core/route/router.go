// Package route maps a classified category onto the handler that serves it.
package route

import (
	"fmt"

	"github.com/adalundhe/helpline/core/classify"
)

// HandlerID names one terminal node in the request pipeline.
type HandlerID int

const (
	HandlerEmpty HandlerID = iota
	HandlerJoke
	HandlerAggregate
	HandlerBilling
	HandlerNetwork
	HandlerService
	HandlerKnowledge
	HandlerFallback
)

var handlerNames = map[HandlerID]string{
	HandlerEmpty:     "empty",
	HandlerJoke:      "joke",
	HandlerAggregate: "aggregate",
	HandlerBilling:   "billing",
	HandlerNetwork:   "network",
	HandlerService:   "service",
	HandlerKnowledge: "knowledge",
	HandlerFallback:  "fallback",
}

func (h HandlerID) String() string {
	if name, ok := handlerNames[h]; ok {
		return name
	}
	return fmt.Sprintf("handler(%d)", h)
}

// Route is a pure, total lookup from category to handler. Every category has
// exactly one handler; unknown values route to the fallback handler so the
// pipeline can always terminate.
func Route(category classify.Category) HandlerID {
	switch category {
	case classify.CategoryEmpty:
		return HandlerEmpty
	case classify.CategoryJoke:
		return HandlerJoke
	case classify.CategoryMulti:
		return HandlerAggregate
	case classify.CategoryBilling:
		return HandlerBilling
	case classify.CategoryNetwork:
		return HandlerNetwork
	case classify.CategoryService:
		return HandlerService
	case classify.CategoryKnowledge:
		return HandlerKnowledge
	case classify.CategoryOther:
		return HandlerFallback
	default:
		return HandlerFallback
	}
}
