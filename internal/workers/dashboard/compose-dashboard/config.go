// internal/workers/dashboard/compose-dashboard/config.go
package composedashboard

import "time"

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	// MaxConcurrentReads bounds the pool that runs the dashboard reads.
	MaxConcurrentReads int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:            10 * time.Second,
		MaxRetries:         3,
		MaxConcurrentReads: 3,
	}
}
