// internal/workers/search/save-search/config.go
package savesearch

import "time"

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		MaxRetries: 3,
	}
}
