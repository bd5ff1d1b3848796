// internal/workers/underwriting/decide-application/config.go
package decideapplication

import "time"

type Config struct {
	Timeout time.Duration
	// AuditIndex is the Elasticsearch index receiving decision audit events.
	AuditIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		AuditIndex: "underwriting-audit",
	}
}
