// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

import "time"

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}
