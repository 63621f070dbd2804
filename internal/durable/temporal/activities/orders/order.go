package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderdomain "github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	orderports "github.com/ipcsmmd/webshop/internal/domains/orders/ports"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

// PlaceOrderActivityName validates and stores a new order.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder stores a new order through the order service. Rule violations are
// returned as non-retryable application errors typed with the violation kind.
func (a *Activities) PlaceOrder(ctx context.Context, order *orderdomain.Order) (*orderdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized")
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customerId", order.CustomerID())
	saved, err := a.service.AddOrder(ctx, order)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "customerId", order.CustomerID(), "error", err)
		if kind := apierrors.KindName(err); kind != "" {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), kind, nil)
		}
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", saved.ID)
	return saved, nil
}
