package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/memory"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/application"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
)

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestService_RecordsSpansMetricsAndLogs(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	svc := New(application.NewService(memory.NewRepository()),
		WithTracer(tp.Tracer(tracerName)),
		WithMeter(mp.Meter(tracerName)),
		WithLogger(logger))
	ctx := context.Background()

	beer, err := svc.AddBeer(ctx, &domain.Beer{Name: "Stout", Brand: "Guinness", Price: domain.NewPrice(2.5), Type: domain.TypeDark})
	require.NoError(t, err)
	_, err = svc.AddBeer(ctx, nil)
	require.EqualError(t, err, "Input is null!")
	_, err = svc.RemoveBeer(ctx, beer.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), counterValue(t, reader, "catalog.service.beers_added"))
	assert.Equal(t, int64(1), counterValue(t, reader, "catalog.service.beers_removed"))
	assert.Equal(t, int64(1), counterValue(t, reader, "catalog.service.rule_violations"))

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "CatalogService.AddBeer", spans[0].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "CatalogService.RemoveBeer", spans[2].Name())

	assert.Contains(t, logs.String(), `"error.kind":"NullInput"`)
}

func TestService_DefaultsAreSafe(t *testing.T) {
	svc := New(application.NewService(memory.NewRepository()))
	beers, err := svc.GetBeers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, beers)
}
