package orders

import (
	"go.temporal.io/sdk/workflow"

	orderdomain "github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	"github.com/ipcsmmd/webshop/internal/durable/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput carries the order to place and the caller's trace.
type OrderPlacementWorkflowInput struct {
	Order   *orderdomain.Order
	TraceID string
}

// OrderPlacementWorkflow places an order durably.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*orderdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	customerID := input.Order.CustomerID()
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "customerId", customerID)...)
	placed, err := sequences.RunOrderPlacementSequence(ctx, input.Order)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "customerId", customerID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", placed.ID)...)
	return placed, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
