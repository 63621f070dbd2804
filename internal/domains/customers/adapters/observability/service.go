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

	customerdomain "github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	customerports "github.com/ipcsmmd/webshop/internal/domains/customers/ports"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

const tracerName = "github.com/ipcsmmd/webshop/internal/domains/customers/adapters/observability/service"

// Service decorates the customer service with tracing, logging, and metrics.
type Service struct {
	inner   customerports.Service
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

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New wraps the core customer service.
func New(inner customerports.Service, opts ...Option) customerports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) AddCustomer(ctx context.Context, customer *customerdomain.Customer) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.AddCustomer")
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "adding customer", slog.Bool("customer.nil", customer == nil))
	result, err := s.inner.AddCustomer(ctx, customer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add customer")
	}
	s.metrics.recordRegistered(ctx)
	span.SetAttributes(attribute.Int64("customer.id", result.ID))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "customer added", slog.Int64("customer.id", result.ID))
	return result, nil
}

func (s *Service) GetCustomerByID(ctx context.Context, id int64) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.GetCustomerByID", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	result, err := s.inner.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load customer", slog.Int64("customer.id", id))
	}
	span.SetAttributes(attribute.Int("customer.orders", len(result.OrderIDs)))
	return result, nil
}

func (s *Service) GetAllCustomers(ctx context.Context) ([]*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.GetAllCustomers")
	defer span.End()

	result, err := s.inner.GetAllCustomers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customers")
	}
	span.SetAttributes(attribute.Int("customers.count", len(result)))
	return result, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, customer *customerdomain.Customer) (*customerdomain.Customer, error) {
	var id int64
	if customer != nil {
		id = customer.ID
	}
	ctx, span := s.tracer.Start(ctx, "CustomerService.UpdateCustomer", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "updating customer", slog.Int64("customer.id", id))
	result, err := s.inner.UpdateCustomer(ctx, customer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update customer", slog.Int64("customer.id", id))
	}
	return result, nil
}

func (s *Service) RemoveCustomer(ctx context.Context, id int64) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.RemoveCustomer", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "removing customer", slog.Int64("customer.id", id))
	result, err := s.inner.RemoveCustomer(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove customer", slog.Int64("customer.id", id))
	}
	s.metrics.recordRemoved(ctx)
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	level := slog.LevelError
	if kind := apierrors.KindName(err); kind != "" {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error.kind", kind))
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	registered metric.Int64Counter
	removed    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("customers.service.registered", metric.WithDescription("Number of customers registered"))
	removed, _ := m.Int64Counter("customers.service.removed", metric.WithDescription("Number of customers removed"))
	return serviceMetrics{registered: registered, removed: removed}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRemoved(ctx context.Context) {
	if m.removed != nil {
		m.removed.Add(ctx, 1)
	}
}

var _ customerports.Service = (*Service)(nil)
