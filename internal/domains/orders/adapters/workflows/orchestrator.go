package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/ports"
	orderworkflows "github.com/ipcsmmd/webshop/internal/durable/temporal/workflows/orders"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder runs the placement workflow and waits for its result. Rule
// violations raised inside the workflow come back as validation errors.
// With a placement key on ctx, a concurrent duplicate joins the running workflow.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	key := ports.PlacementKey(ctx)
	workflowID := buildOrderPlacementWorkflowID(order, key)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflowName,
		orderworkflows.OrderPlacementWorkflowInput{Order: order, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) || key == "" {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var placed domain.Order
	if err := run.Get(ctx, &placed); err != nil {
		return nil, unwrapRuleViolation(err)
	}
	return &placed, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the order service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.AddOrder(ctx, order)
}

// unwrapRuleViolation turns a typed application failure back into the
// validation error the activity reported.
func unwrapRuleViolation(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	if verr := apierrors.FromKindName(appErr.Type(), appErr.Message()); verr != nil {
		return verr
	}
	return err
}

func buildOrderPlacementWorkflowID(order *domain.Order, key string) string {
	if key != "" {
		return fmt.Sprintf("order-placement-key-%s", key)
	}
	return fmt.Sprintf("order-placement-%d-%s", order.CustomerID(), uuid.NewString())
}

func workflowTraceComponent(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
