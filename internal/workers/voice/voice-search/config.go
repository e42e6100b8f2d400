// internal/workers/voice/voice-search/config.go
package voicesearch

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
