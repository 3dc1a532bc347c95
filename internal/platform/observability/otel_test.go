package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInit_LogsJSONWithServiceName(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	var buf bytes.Buffer
	inst, shutdown, err := Init(context.Background(), "adoption-test", Options{LogLevel: "debug", LogOutput: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	inst.Logger.Debug("hello", slog.String("k", "v"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "adoption-test", line["service"])
	require.Equal(t, "hello", line["msg"])
	require.NotNil(t, inst.Tracer("t"))
	require.NotNil(t, inst.Meter("m"))
}
