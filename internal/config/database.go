// internal/config/database.go
package config

import (
	"fmt"
	"net"
)

// DSN builds the keyword/value connection string for the Postgres driver.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Addr returns host:port for the Redis client options.
func (r *RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, r.Port)
}
