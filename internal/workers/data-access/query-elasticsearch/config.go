// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import "time"

type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	JobsIndex       string
	CandidatesIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		JobsIndex:       "jobs",
		CandidatesIndex: "candidates",
	}
}

// IndexFor returns the index holding documents of the given target.
func (c *Config) IndexFor(target string) string {
	switch target {
	case "jobs":
		return c.JobsIndex
	case "candidates":
		return c.CandidatesIndex
	}
	return ""
}
