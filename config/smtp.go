package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/brightside-platform/alert-service/internal/errors"
)

// SMTPConfig contains SMTP transport configuration.
type SMTPConfig struct {
	Host     string `env:"SERVER"   envDefault:"smtp.gmail.com"`
	Port     int    `env:"PORT"     envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`

	// Timeout bounds the dial + handshake with the SMTP server.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to SMTP configuration values.
func (c *SMTPConfig) Sanitize() {
	c.Host = strings.TrimSpace(c.Host)
	c.Username = strings.TrimSpace(c.Username)
	if c.Port <= 0 {
		c.Port = 587
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Validate checks that the credentials required for sending are present.
// A failed validation is an invalid_configuration outcome, reported before
// any rate-limit check.
func (c *SMTPConfig) Validate() error {
	if c.Username == "" || c.Password == "" {
		return apperrors.InvalidConfiguration("SMTP username and password must be set")
	}
	if !strings.Contains(c.Username, "@") {
		return apperrors.InvalidConfiguration("SMTP username must be a valid email address")
	}
	return nil
}

// Addr returns the host:port dial address for the SMTP server.
func (c *SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
