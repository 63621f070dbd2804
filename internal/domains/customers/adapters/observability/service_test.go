package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ipcsmmd/webshop/internal/domains/customers/adapters/memory"
	"github.com/ipcsmmd/webshop/internal/domains/customers/application"
	"github.com/ipcsmmd/webshop/internal/domains/customers/domain"
)

func TestService_CountsRegistrationsAndRemovals(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	svc := New(application.NewService(memory.NewRepository()), WithMeter(mp.Meter(tracerName)))
	ctx := context.Background()

	saved, err := svc.AddCustomer(ctx, &domain.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Address: "London"})
	require.NoError(t, err)
	_, err = svc.RemoveCustomer(ctx, saved.ID)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), totals["customers.service.registered"])
	assert.Equal(t, int64(1), totals["customers.service.removed"])
}

func TestService_LogsRuleViolationsAsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := New(application.NewService(memory.NewRepository()), WithLogger(logger))

	_, err := svc.GetCustomerByID(context.Background(), 0)
	require.ErrorIs(t, err, application.ErrMissingCustomerID)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "Argument", record["error.kind"])
	assert.Equal(t, "Missing customer ID!", record["error"])
}
