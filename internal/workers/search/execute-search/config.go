// internal/workers/search/execute-search/config.go
package executesearch

import "time"

type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		MaxRetries:   3,
		DefaultLimit: 50,
		MaxLimit:     100,
	}
}

func (c *Config) limit(requested int) int {
	switch {
	case requested <= 0:
		return c.DefaultLimit
	case requested > c.MaxLimit:
		return c.MaxLimit
	default:
		return requested
	}
}
