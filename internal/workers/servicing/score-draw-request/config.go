// internal/workers/servicing/score-draw-request/config.go
package scoredrawrequest

import "time"

type Config struct {
	Timeout time.Duration
	// MarkerTTL matches the recent-submission penalty window; markers older
	// than the window carry no signal and may expire.
	MarkerTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		MarkerTTL: 7 * 24 * time.Hour,
	}
}
