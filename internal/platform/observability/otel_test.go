package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cases := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"WARN", false, false},
		{"", false, true},
		{"chatty", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tc.level, "json")

			logger.Debug("debug record")
			assert.Equal(t, tc.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug record")))
			logger.Info("info record")
			assert.Equal(t, tc.infoSeen, bytes.Contains(buf.Bytes(), []byte("info record")))
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var jsonOut, textOut bytes.Buffer
	newLogger(&jsonOut, "info", "").Info("placed", slog.Int64("orderId", 7))
	newLogger(&textOut, "info", "TEXT").Info("placed", slog.Int64("orderId", 7))

	assert.Contains(t, jsonOut.String(), `"orderId":7`)
	assert.Contains(t, textOut.String(), "orderId=7")
}

func TestOTLPOptions(t *testing.T) {
	assert.Empty(t, otlpOptions(Settings{}))
	assert.Len(t, otlpOptions(Settings{OTLPEndpoint: "collector:4318"}), 1)
	assert.Len(t, otlpOptions(Settings{OTLPEndpoint: "http://collector:4318", OTLPInsecure: true}), 2)
}

func TestInitInstallsProvidersAndShutsDown(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var logs bytes.Buffer

	instruments, err := Init(context.Background(), Settings{
		ServiceName:      "webshop-test",
		LogLevel:         "warn",
		OTLPEndpoint:     "127.0.0.1:1",
		OTLPInsecure:     true,
		TraceSampleRatio: 1,
		Output:           &logs,
	})
	require.NoError(t, err)

	_, span := instruments.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = instruments.Shutdown(ctx)
}

func TestNilInstrumentsFallBackToGlobalProviders(t *testing.T) {
	var instruments *Instruments

	_, span := instruments.Tracer("test").Start(context.Background(), "op")
	span.End()
	counter, err := instruments.Meter("test").Int64Counter("ops")

	assert.NoError(t, err)
	counter.Add(context.Background(), 1)
	assert.NoError(t, instruments.Shutdown(context.Background()))
}
