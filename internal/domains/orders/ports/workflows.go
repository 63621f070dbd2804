package ports

import (
	"context"

	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
)

// WorkflowOrchestrator places orders through a durable workflow.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

type placementKeyContextKey struct{}

// WithPlacementKey attaches a client idempotency key to ctx so orchestrators
// can deduplicate concurrent placements.
func WithPlacementKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, placementKeyContextKey{}, key)
}

// PlacementKey returns the idempotency key attached to ctx, or "".
func PlacementKey(ctx context.Context) string {
	key, _ := ctx.Value(placementKeyContextKey{}).(string)
	return key
}
