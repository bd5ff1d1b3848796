// internal/workers/portfolio/aggregate-risk/config.go
package aggregaterisk

import "time"

type Config struct {
	Timeout time.Duration
	// CacheKey and CacheTTL control the Redis summary cache. The TTL is
	// short; dashboards poll this aggregation frequently.
	CacheKey string
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		CacheKey: "portfolio:risk:summary",
		CacheTTL: 60 * time.Second,
	}
}
