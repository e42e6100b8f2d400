// internal/workers/search/list-searches/config.go
package listsearches

import "time"

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	// HistoryLimit is the number of recent queries returned when none is requested.
	HistoryLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		MaxRetries:   3,
		HistoryLimit: 5,
		MaxLimit:     50,
	}
}

func (c *Config) limit(requested int) int {
	switch {
	case requested <= 0:
		return c.HistoryLimit
	case c.MaxLimit > 0 && requested > c.MaxLimit:
		return c.MaxLimit
	default:
		return requested
	}
}
