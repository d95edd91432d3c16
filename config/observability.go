package config

import "strings"

// ObservabilityConfig contains metrics configuration.
type ObservabilityConfig struct {
	// MetricsEnabled controls whether the Prometheus listener is started.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`

	// MetricsAddr is the listen address for the /metrics endpoint.
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// Sanitize applies guardrails to observability configuration values.
func (c *ObservabilityConfig) Sanitize() {
	c.MetricsAddr = strings.TrimSpace(c.MetricsAddr)
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}
}
