package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the adoption processes.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	JWTSecret    string
	JWTIssuer    string
	StaticTokens string

	SendGridAPIKey  string
	NotifyFromEmail string
	NotifyFromName  string
	NotifyQueueSize int

	TransitionMaxAttempts int
	TransitionBackoff     time.Duration
	RequestTimeout        time.Duration

	ReconcileSchedule string
	ReconcileOnce     bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:         strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")),
		JWTIssuer:         envDefault("AUTH_JWT_ISSUER", "adoption-coordinator"),
		StaticTokens:      strings.TrimSpace(os.Getenv("AUTH_STATIC_TOKENS")),
		SendGridAPIKey:    strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		NotifyFromEmail:   strings.TrimSpace(os.Getenv("NOTIFY_FROM_EMAIL")),
		NotifyFromName:    envDefault("NOTIFY_FROM_NAME", "Adoptions Team"),
		ReconcileSchedule: envDefault("RECONCILE_SCHEDULE", "0 */15 * * * *"),
		ReconcileOnce:     isTruthy(os.Getenv("RECONCILE_ONCE")),
	}

	var err error
	if cfg.TransitionMaxAttempts, err = positiveInt("TRANSITION_MAX_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}
	if cfg.NotifyQueueSize, err = positiveInt("NOTIFY_QUEUE_SIZE", 256); err != nil {
		return Config{}, err
	}
	backoffMS, err := positiveInt("TRANSITION_BACKOFF_MS", 25)
	if err != nil {
		return Config{}, err
	}
	cfg.TransitionBackoff = time.Duration(backoffMS) * time.Millisecond
	timeoutMS, err := positiveInt("REQUEST_TIMEOUT_MS", 5000)
	if err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout = time.Duration(timeoutMS) * time.Millisecond

	if cfg.SendGridAPIKey != "" && cfg.NotifyFromEmail == "" {
		return Config{}, fmt.Errorf("NOTIFY_FROM_EMAIL is required when SENDGRID_API_KEY is set")
	}
	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
