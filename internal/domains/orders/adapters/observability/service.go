package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	orderports "github.com/ipcsmmd/webshop/internal/domains/orders/ports"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

const tracerName = "github.com/ipcsmmd/webshop/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) AddOrder(ctx context.Context, order *orderdomain.Order) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AddOrder", trace.WithAttributes(orderAttributes(order)...))
	defer span.End()

	s.logInfo(ctx, "adding order", slog.Int64("customer.id", order.CustomerID()), slog.Int("order.lines", lineCount(order)))
	result, err := s.inner.AddOrder(ctx, order)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add order", slog.Int64("customer.id", order.CustomerID()))
	}
	s.metrics.recordPlaced(ctx, result)
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.logInfo(ctx, "order added", slog.Int64("order.id", result.ID), slog.Int64("order.quantity", result.TotalQuantity()))
	return result, nil
}

func (s *Service) GetOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrders")
	defer span.End()

	result, err := s.inner.GetOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, order *orderdomain.Order) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder", trace.WithAttributes(orderAttributes(order)...))
	defer span.End()

	var id int64
	if order != nil {
		id = order.ID
	}
	s.logInfo(ctx, "updating order", slog.Int64("order.id", id))
	result, err := s.inner.UpdateOrder(ctx, order)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) RemoveOrder(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RemoveOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "removing order", slog.Int64("order.id", id))
	result, err := s.inner.RemoveOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove order", slog.Int64("order.id", id))
	}
	s.metrics.recordRemoved(ctx)
	return result, nil
}

func orderAttributes(order *orderdomain.Order) []attribute.KeyValue {
	if order == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Int64("order.id", order.ID),
		attribute.Int64("customer.id", order.CustomerID()),
		attribute.Int("order.lines", len(order.Lines)),
	}
}

func lineCount(order *orderdomain.Order) int {
	if order == nil {
		return 0
	}
	return len(order.Lines)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		level := slog.LevelError
		if kind := apierrors.KindName(err); kind != "" {
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("error.kind", kind))
		}
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	beersOrdered  metric.Int64Counter
	ordersRemoved metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	beersOrdered, _ := m.Int64Counter("orders.service.beers_ordered", metric.WithDescription("Total quantity of beers across placed orders"))
	ordersRemoved, _ := m.Int64Counter("orders.service.orders_removed", metric.WithDescription("Number of orders removed"))
	return serviceMetrics{ordersPlaced: ordersPlaced, beersOrdered: beersOrdered, ordersRemoved: ordersRemoved}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *orderdomain.Order) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.beersOrdered != nil {
		m.beersOrdered.Add(ctx, order.TotalQuantity())
	}
}

func (m serviceMetrics) recordRemoved(ctx context.Context) {
	if m.ordersRemoved != nil {
		m.ordersRemoved.Add(ctx, 1)
	}
}

var _ orderports.Service = (*Service)(nil)
