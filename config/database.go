package config

import "strings"

const defaultSSLMode = "disable"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"jobly"`
	Password string `env:"PASSWORD" envDefault:"jobly"`
	Name     string `env:"NAME"     envDefault:"jobly"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// ApplySchemaOnStart controls whether the embedded companies/jobs schema is applied during startup.
	ApplySchemaOnStart bool `env:"APPLY_SCHEMA_ON_START" envDefault:"true"`
	// LogQueries attaches a pgx tracer that writes every statement to the structured logger.
	LogQueries bool `env:"LOG_QUERIES" envDefault:"false"`
}

// Sanitize trims connection values and restores defaults for blank ones.
func (c *DBConfig) Sanitize() {
	c.Host = strings.TrimSpace(c.Host)
	c.Name = strings.TrimSpace(c.Name)
	c.SSLMode = strings.ToLower(strings.TrimSpace(c.SSLMode))
	if c.SSLMode == "" {
		c.SSLMode = defaultSSLMode
	}
	if c.Port <= 0 {
		c.Port = 5432
	}
}
