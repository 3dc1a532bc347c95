package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	adoptionsmemory "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/memory"
	adoptionsnotifications "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/notifications"
	adoptionspostgres "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/persistence/postgres"
	adoptionsports "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	staffjwt "github.com/Apurer/adoption-coordinator/internal/domains/staff/adapters/jwt"
	staffmemory "github.com/Apurer/adoption-coordinator/internal/domains/staff/adapters/memory"
	staffports "github.com/Apurer/adoption-coordinator/internal/domains/staff/ports"
	"github.com/Apurer/adoption-coordinator/internal/platform/migrations"
	platformobservability "github.com/Apurer/adoption-coordinator/internal/platform/observability"
	platformpostgres "github.com/Apurer/adoption-coordinator/internal/platform/postgres"
)

// OpenPersistence returns the postgres backend when a DSN is configured and the in-memory one otherwise.
// A configured but unreachable database is an error.
func OpenPersistence(ctx context.Context, cfg Config, logger *slog.Logger) (adoptionsports.Persistence, func(), error) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory adoption stores")
		return adoptionsmemory.NewStore(), func() {}, nil
	}
	db, cleanup, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.DefaultPool)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}
	logger.Info("adoption stores configured with postgres")
	return adoptionspostgres.NewPersistence(db), cleanup, nil
}

// ErrPostgresRequired is returned by OpenDurablePersistence when no DSN is configured.
var ErrPostgresRequired = errors.New("POSTGRES_DSN is required")

// OpenDurablePersistence is OpenPersistence without the in-memory fallback.
// Jobs that inspect existing state, like the reconciler, use it.
func OpenDurablePersistence(ctx context.Context, cfg Config, logger *slog.Logger) (adoptionsports.Persistence, func(), error) {
	if cfg.PostgresDSN == "" {
		return nil, nil, ErrPostgresRequired
	}
	return OpenPersistence(ctx, cfg, logger)
}

// ConnectTemporal dials Temporal with tracing and the process logger.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// DirectNotifier delivers notifications synchronously: SendGrid email when configured, logs otherwise.
func DirectNotifier(cfg Config, logger *slog.Logger) (adoptionsports.Notifier, error) {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("SENDGRID_API_KEY not set, notifications are only logged")
		return adoptionsnotifications.NewLogNotifier(logger), nil
	}
	return adoptionsnotifications.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.NotifyFromEmail, cfg.NotifyFromName)
}

// QueueNotifier puts next behind a bounded in-process queue so publishing never waits on delivery.
// The returned close func drains the queue for up to drainTimeout.
func QueueNotifier(next adoptionsports.Notifier, cfg Config, logger *slog.Logger, drainTimeout time.Duration) (*adoptionsnotifications.Dispatcher, func()) {
	dispatcher := adoptionsnotifications.NewDispatcher(next, cfg.NotifyQueueSize, 2,
		adoptionsnotifications.WithDispatchLogger(logger))
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := dispatcher.Close(ctx); err != nil {
			logger.Warn("notification queue not drained", slog.String("error", err.Error()))
		}
	}
	return dispatcher, closeFn
}

// BuildAuthGate prefers JWT verification, then a static token table.
// With neither configured every staff call is rejected.
func BuildAuthGate(cfg Config, logger *slog.Logger) (staffports.AuthGate, error) {
	switch {
	case cfg.JWTSecret != "":
		return staffjwt.NewGate(cfg.JWTSecret, cfg.JWTIssuer)
	case cfg.StaticTokens != "":
		logger.Warn("using static staff tokens, do not enable outside local runs")
		return staffmemory.ParseStaticTokens(cfg.StaticTokens)
	default:
		logger.Warn("no staff authentication configured, staff endpoints will answer 401")
		return staffmemory.NewStaticGate(), nil
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
