package config

// DBConfig contains PostgreSQL configuration for the dispatch audit trail.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"brightside"`
	Password string `env:"PASSWORD" envDefault:"brightside"`
	Name     string `env:"NAME"     envDefault:"brightside"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production

	// Enabled controls whether dispatch outcomes are recorded at all. The
	// audit trail is optional; dispatching works without a database.
	Enabled bool `env:"AUDIT_ENABLED" envDefault:"false"`
}

// RedisConfig contains Redis configuration for the contact directory store.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// Enabled selects the Redis-backed contact directory instead of the
	// JSON-file directory passed on the command line.
	Enabled bool `env:"DIRECTORY_ENABLED" envDefault:"false"`
}
