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
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	adoptionmemory "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/memory"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
)

type harness struct {
	svc    *Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	logs := &bytes.Buffer{}
	inner := application.NewService(adoptionmemory.NewStore())
	svc := New(inner,
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	).(*Service)
	return &harness{svc: svc, spans: spans, reader: reader, logs: logs}
}

func (h *harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_RecordsSuccessfulFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin, err := staffdomain.NewIdentity("staff-1", "Alex", []staffdomain.Role{staffdomain.RoleAdmin})
	require.NoError(t, err)

	_, err = h.svc.RegisterAnimal(ctx, types.RegisterAnimalInput{ID: "cat-1", Name: "Miso"})
	require.NoError(t, err)
	req, err := h.svc.Submit(ctx, types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: json.RawMessage(`{"name":"Ada"}`)})
	require.NoError(t, err)
	_, err = h.svc.Transition(ctx, types.TransitionInput{RequestID: req.ID, Target: "in_review", Actor: admin})
	require.NoError(t, err)

	assert.Equal(t, int64(1), h.counter(t, "adoptions.submitted"))
	assert.Equal(t, int64(1), h.counter(t, "adoptions.transitions"))

	names := make([]string, 0)
	for _, span := range h.spans.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{"Service.RegisterAnimal", "Service.Submit", "Service.Transition"}, names)
	assert.Contains(t, h.logs.String(), "adoption request transitioned")
}

func TestService_ClassifiesFailures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Submit(ctx, types.SubmitInput{AnimalID: "ghost", ApplicantProfile: json.RawMessage(`{"name":"Ada"}`)})
	require.ErrorIs(t, err, application.ErrNotFound)

	_, err = h.svc.Transition(ctx, types.TransitionInput{RequestID: "req-1", Target: "approved"})
	require.ErrorIs(t, err, staffdomain.ErrUnauthorized)

	assert.Equal(t, int64(0), h.counter(t, "adoptions.conflicts"))
	assert.Contains(t, h.logs.String(), `"level":"WARN"`)
	assert.NotContains(t, h.logs.String(), `"level":"ERROR"`)
	for _, span := range h.spans.Ended() {
		if span.Name() == "Service.Submit" {
			assert.Equal(t, "Error", span.Status().Code.String())
		}
	}
}

func TestService_CountsConflicts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin, err := staffdomain.NewIdentity("staff-1", "Alex", []staffdomain.Role{staffdomain.RoleAdmin})
	require.NoError(t, err)

	_, err = h.svc.RegisterAnimal(ctx, types.RegisterAnimalInput{ID: "cat-1", Name: "Miso"})
	require.NoError(t, err)
	req, err := h.svc.Submit(ctx, types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: json.RawMessage(`{"name":"Ada"}`)})
	require.NoError(t, err)
	_, err = h.svc.Transition(ctx, types.TransitionInput{RequestID: req.ID, Target: "approved", Actor: admin})
	require.Error(t, err)
	_, err = h.svc.Transition(ctx, types.TransitionInput{RequestID: req.ID, Target: "in_review", Actor: admin})
	require.NoError(t, err)
	_, err = h.svc.Transition(ctx, types.TransitionInput{RequestID: req.ID, Target: "approved", Actor: admin})
	require.NoError(t, err)

	_, err = h.svc.Submit(ctx, types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: json.RawMessage(`{"name":"Grace"}`)})
	require.ErrorIs(t, err, application.ErrConflict)

	assert.Equal(t, int64(1), h.counter(t, "adoptions.conflicts"))
	assert.Equal(t, int64(2), h.counter(t, "adoptions.transitions"))
}
