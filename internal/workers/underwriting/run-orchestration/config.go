// internal/workers/underwriting/run-orchestration/config.go
package runorchestration

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
