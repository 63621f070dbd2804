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

	catalogdomain "github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	catalogports "github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

const tracerName = "github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) AddBeer(ctx context.Context, beer *catalogdomain.Beer) (*catalogdomain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddBeer", trace.WithAttributes(beerAttributes(beer)...))
	defer span.End()

	s.logInfo(ctx, "adding beer", beerLogAttrs(beer)...)
	result, err := s.inner.AddBeer(ctx, beer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add beer", beerLogAttrs(beer)...)
	}
	s.metrics.recordAdded(ctx, result.Type)
	span.SetAttributes(attribute.Int64("beer.id", result.ID))
	s.logInfo(ctx, "beer added", slog.Int64("beer.id", result.ID))
	return result, nil
}

func (s *Service) GetBeerByID(ctx context.Context, id int64) (*catalogdomain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBeerByID", trace.WithAttributes(attribute.Int64("beer.id", id)))
	defer span.End()

	result, err := s.inner.GetBeerByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load beer", slog.Int64("beer.id", id))
	}
	return result, nil
}

func (s *Service) GetBeers(ctx context.Context) ([]*catalogdomain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBeers")
	defer span.End()

	result, err := s.inner.GetBeers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list beers")
	}
	span.SetAttributes(attribute.Int("beers.count", len(result)))
	return result, nil
}

func (s *Service) GetBeersByPrice(ctx context.Context, ascending bool) ([]*catalogdomain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBeersByPrice", trace.WithAttributes(attribute.Bool("sort.ascending", ascending)))
	defer span.End()

	result, err := s.inner.GetBeersByPrice(ctx, ascending)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list beers by price", slog.Bool("sort.ascending", ascending))
	}
	span.SetAttributes(attribute.Int("beers.count", len(result)))
	return result, nil
}

func (s *Service) GetBeersByType(ctx context.Context, beerType catalogdomain.Type) ([]*catalogdomain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBeersByType", trace.WithAttributes(attribute.String("beer.type", string(beerType))))
	defer span.End()

	result, err := s.inner.GetBeersByType(ctx, beerType)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list beers by type", slog.String("beer.type", string(beerType)))
	}
	span.SetAttributes(attribute.Int("beers.count", len(result)))
	return result, nil
}

func (s *Service) GetFilteredBeers(ctx context.Context, filter catalogdomain.Filter) (*catalogdomain.FilteredBeers, error) {
	attrs := []attribute.KeyValue{
		attribute.Int("filter.page", filter.CurrentPage),
		attribute.Int("filter.items_per_page", filter.ItemsPerPage),
		attribute.String("filter.field", string(filter.SearchField)),
		attribute.Bool("filter.ascending", filter.Ascending),
	}
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetFilteredBeers", trace.WithAttributes(attrs...))
	defer span.End()

	s.logInfo(ctx, "searching beers",
		slog.Int("filter.page", filter.CurrentPage),
		slog.String("filter.field", string(filter.SearchField)),
		slog.String("filter.text", filter.SearchText))
	result, err := s.inner.GetFilteredBeers(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search beers", slog.String("filter.field", string(filter.SearchField)))
	}
	if result != nil {
		span.SetAttributes(attribute.Int64("beers.total", result.TotalCount))
	}
	return result, nil
}

func (s *Service) RemoveBeer(ctx context.Context, id int64) (*catalogdomain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.RemoveBeer", trace.WithAttributes(attribute.Int64("beer.id", id)))
	defer span.End()

	s.logInfo(ctx, "removing beer", slog.Int64("beer.id", id))
	result, err := s.inner.RemoveBeer(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove beer", slog.Int64("beer.id", id))
	}
	s.metrics.recordRemoved(ctx)
	s.logInfo(ctx, "beer removed", slog.Int64("beer.id", id))
	return result, nil
}

func (s *Service) UpdateBeer(ctx context.Context, beer *catalogdomain.Beer) (*catalogdomain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateBeer", trace.WithAttributes(beerAttributes(beer)...))
	defer span.End()

	s.logInfo(ctx, "updating beer", beerLogAttrs(beer)...)
	result, err := s.inner.UpdateBeer(ctx, beer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update beer", beerLogAttrs(beer)...)
	}
	s.logInfo(ctx, "beer updated", slog.Int64("beer.id", result.ID))
	return result, nil
}

func beerAttributes(beer *catalogdomain.Beer) []attribute.KeyValue {
	if beer == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Int64("beer.id", beer.ID),
		attribute.String("beer.brand", beer.Brand),
		attribute.String("beer.type", string(beer.Type)),
	}
}

func beerLogAttrs(beer *catalogdomain.Beer) []slog.Attr {
	if beer == nil {
		return []slog.Attr{slog.Bool("beer.nil", true)}
	}
	return []slog.Attr{slog.Int64("beer.id", beer.ID), slog.String("beer.name", beer.Name)}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	level := slog.LevelError
	if kind := apierrors.KindName(err); kind != "" {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error.kind", kind))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	s.metrics.recordRejected(ctx, err)
	return err
}

type serviceMetrics struct {
	beersAdded    metric.Int64Counter
	beersRemoved  metric.Int64Counter
	rulesViolated metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	beersAdded, _ := m.Int64Counter("catalog.service.beers_added", metric.WithDescription("Number of beers added to the catalog"))
	beersRemoved, _ := m.Int64Counter("catalog.service.beers_removed", metric.WithDescription("Number of beers removed from the catalog"))
	rulesViolated, _ := m.Int64Counter("catalog.service.rule_violations", metric.WithDescription("Number of catalog requests rejected by validation"))
	return serviceMetrics{beersAdded: beersAdded, beersRemoved: beersRemoved, rulesViolated: rulesViolated}
}

func (m serviceMetrics) recordAdded(ctx context.Context, beerType catalogdomain.Type) {
	if m.beersAdded != nil {
		m.beersAdded.Add(ctx, 1, metric.WithAttributes(attribute.String("beer.type", string(beerType))))
	}
}

func (m serviceMetrics) recordRemoved(ctx context.Context) {
	if m.beersRemoved != nil {
		m.beersRemoved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, err error) {
	kind := apierrors.KindName(err)
	if m.rulesViolated != nil && kind != "" {
		m.rulesViolated.Add(ctx, 1, metric.WithAttributes(attribute.String("error.kind", kind)))
	}
}

var _ catalogports.Service = (*Service)(nil)
