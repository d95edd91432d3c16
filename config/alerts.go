package config

import (
	"time"

	"github.com/brightside-platform/alert-service/internal/domain/model"
)

// Default guardrail values for alert dispatch.
const (
	DefaultMaxAlertsPerWindow = 5
	DefaultRateWindow         = time.Hour
	DefaultDeliveryTimeout    = 30 * time.Second
)

// AlertConfig contains alert dispatch configuration.
type AlertConfig struct {
	// Enabled is the emergency-alert feature switch. When false every
	// dispatch short-circuits with a feature_disabled outcome before any
	// rate-limit check or contact selection.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// MaxPerWindow bounds successful dispatches per subject per window.
	MaxPerWindow int `env:"MAX_PER_HOUR" envDefault:"5"`

	// RateWindow is the sliding window used for rate limiting.
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1h"`

	// DefaultRelationships are the contact categories notified when a
	// dispatch request does not name its own set. An explicitly empty filter
	// on a request also falls back to these defaults.
	DefaultRelationships []string `env:"DEFAULT_RELATIONSHIPS" envSeparator:","`

	// DefaultFrom is the sender address used when SMTP_USERNAME should not
	// double as the visible sender.
	DefaultFrom string `env:"DEFAULT_FROM"`

	// DeliveryTimeout bounds a single transport attempt.
	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to alert configuration values.
// MaxPerWindow is deliberately left untouched when <= 0: that configuration
// means "always rate limited" rather than a typo to correct.
func (c *AlertConfig) Sanitize() {
	if c.RateWindow <= 0 {
		c.RateWindow = DefaultRateWindow
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = DefaultDeliveryTimeout
	}
	if len(c.DefaultRelationships) == 0 {
		c.DefaultRelationships = model.DefaultRelationships()
	}
}
