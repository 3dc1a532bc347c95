package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	"github.com/Apurer/adoption-coordinator/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/observability/service"

// Service decorates the adoptions application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
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

func (s *Service) Submit(ctx context.Context, input types.SubmitInput) (*domain.AdoptionRequest, error) {
	ctx, span := s.startSpan(ctx, "Service.Submit",
		attribute.String("animal.id", input.AnimalID),
		attribute.Bool("idempotency.key_present", input.IdempotencyKey != ""),
	)
	defer span.End()

	result, err := s.inner.Submit(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, "submit", err)
		return nil, s.handleError(ctx, span, err, "failed to submit adoption request", slog.String("animal.id", input.AnimalID))
	}
	span.SetAttributes(attribute.String("request.id", result.ID))
	s.metrics.recordSubmitted(ctx)
	s.logInfo(ctx, "adoption request submitted", slog.String("request.id", result.ID), slog.String("animal.id", result.AnimalID))
	return result, nil
}

func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*domain.AdoptionRequest, error) {
	ctx, span := s.startSpan(ctx, "Service.Transition",
		attribute.String("request.id", input.RequestID),
		attribute.String("request.target_status", input.Target),
		attribute.String("staff.id", input.Actor.StaffID),
	)
	defer span.End()

	result, err := s.inner.Transition(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, "transition", err)
		return nil, s.handleError(ctx, span, err, "failed to transition adoption request",
			slog.String("request.id", input.RequestID),
			slog.String("target", input.Target),
			slog.String("staff.id", input.Actor.StaffID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "adoption request transitioned",
		slog.String("request.id", result.ID),
		slog.String("status", string(result.Status)),
		slog.Int64("version", result.Version),
		slog.String("staff.id", input.Actor.StaffID))
	return result, nil
}

func (s *Service) GetRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	ctx, span := s.startSpan(ctx, "Service.GetRequest", attribute.String("request.id", id))
	defer span.End()

	result, err := s.inner.GetRequest(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load adoption request", slog.String("request.id", id))
	}
	return result, nil
}

func (s *Service) ListRequests(ctx context.Context, input types.ListRequestsInput) (*pagination.Page[*domain.AdoptionRequest], error) {
	ctx, span := s.startSpan(ctx, "Service.ListRequests",
		attribute.StringSlice("request.statuses.requested", input.Statuses),
		attribute.Int("page", input.Page),
	)
	defer span.End()

	result, err := s.inner.ListRequests(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list adoption requests", slog.Any("statuses", input.Statuses))
	}
	span.SetAttributes(attribute.Int("request.result.count", len(result.Items)), attribute.Int("request.result.total", result.Total))
	return result, nil
}

func (s *Service) RegisterAnimal(ctx context.Context, input types.RegisterAnimalInput) (*domain.Animal, error) {
	ctx, span := s.startSpan(ctx, "Service.RegisterAnimal", attribute.String("animal.id", input.ID))
	defer span.End()

	result, err := s.inner.RegisterAnimal(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register animal", slog.String("animal.id", input.ID))
	}
	s.logInfo(ctx, "animal registered", slog.String("animal.id", result.ID))
	return result, nil
}

func (s *Service) GetAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	ctx, span := s.startSpan(ctx, "Service.GetAnimal", attribute.String("animal.id", id))
	defer span.End()

	result, err := s.inner.GetAnimal(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load animal", slog.String("animal.id", id))
	}
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError records err on the span. Caller mistakes and lost races log at warn, everything else at error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, levelFor(err), msg, attrs...)
	}
	return err
}

func levelFor(err error) slog.Level {
	switch {
	case errors.Is(err, application.ErrUnavailable):
		return slog.LevelError
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrNotFound),
		errors.Is(err, application.ErrConflict),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, staffdomain.ErrUnauthorized),
		errors.Is(err, staffdomain.ErrForbidden),
		errors.Is(err, context.Canceled):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	submitted   metric.Int64Counter
	transitions metric.Int64Counter
	conflicts   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("adoptions.submitted", metric.WithDescription("Number of adoption requests submitted"))
	transitions, _ := m.Int64Counter("adoptions.transitions", metric.WithDescription("Number of committed status transitions"))
	conflicts, _ := m.Int64Counter("adoptions.conflicts", metric.WithDescription("Number of operations rejected by concurrent state"))
	return serviceMetrics{
		submitted:   submitted,
		transitions: transitions,
		conflicts:   conflicts,
	}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context) {
	addCounter(ctx, m.submitted, 1)
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.transitions, 1, attribute.String("request.status", string(status)))
}

func (m serviceMetrics) recordFailure(ctx context.Context, operation string, err error) {
	kind := conflictKind(err)
	if kind == "" {
		return
	}
	addCounter(ctx, m.conflicts, 1,
		attribute.String("operation", operation),
		attribute.String("kind", kind))
}

func conflictKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrAnimalNoLongerAvailable):
		return "animal_no_longer_available"
	case errors.Is(err, domain.ErrAnimalNotAvailable):
		return "animal_not_available"
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	case errors.Is(err, application.ErrConflict):
		return "version_conflict"
	default:
		return ""
	}
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
