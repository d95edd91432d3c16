package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - alerts.go: Alert dispatch configuration
//   - smtp.go: SMTP transport configuration
//   - database.go: Database and directory store configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// Alert dispatch configuration
	Alerts AlertConfig `envPrefix:"ALERT_"`

	// SMTP transport configuration
	SMTP SMTPConfig `envPrefix:"SMTP_"`

	// Audit database configuration
	Postgres DBConfig `envPrefix:"DB_"`

	// Contact directory store configuration
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Alerts.Sanitize()
	c.SMTP.Sanitize()
	c.Observability.Sanitize()
}
