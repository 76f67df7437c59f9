package worker

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// NotifierConfig contains configuration for the Notifier worker pool.
type NotifierConfig struct {
	Enabled           bool          `envconfig:"NOTIFIER_ENABLED" default:"false"`
	GatewayURL        string        `envconfig:"NOTIFIER_GATEWAY_URL"`
	MaxConcurrency    int           `envconfig:"NOTIFIER_MAX_CONCURRENCY" default:"4"`
	RequestTimeout    time.Duration `envconfig:"NOTIFIER_REQUEST_TIMEOUT" default:"10s"`
	DedupTTL          time.Duration `envconfig:"NOTIFIER_DEDUP_TTL" default:"30s"`
	CircuitBreakerMax int           `envconfig:"NOTIFIER_CIRCUIT_BREAKER_MAX" default:"10"`
	MetricsEnabled    bool          `envconfig:"NOTIFIER_METRICS_ENABLED" default:"true"`
}

func (c NotifierConfig) ValidateWithContext(ctx context.Context) error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.GatewayURL, validation.Required, is.URL),
		validation.Field(&c.MaxConcurrency, validation.Min(1)),
		validation.Field(&c.RequestTimeout, validation.Min(time.Second)),
	)
}
