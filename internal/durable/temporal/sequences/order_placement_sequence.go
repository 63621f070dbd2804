package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderdomain "github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	orderactivities "github.com/ipcsmmd/webshop/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the activities needed to place an order.
func RunOrderPlacementSequence(ctx workflow.Context, order *orderdomain.Order) (*orderdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	customerID := order.CustomerID()
	logger.Info("order placement sequence started", "customerId", customerID)
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var placed orderdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), orderactivities.PlaceOrderActivityName, order).Get(ctx, &placed)
	if err != nil {
		logger.Error("order placement sequence failed", "customerId", customerID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence placed", "orderId", placed.ID)
	return &placed, nil
}
