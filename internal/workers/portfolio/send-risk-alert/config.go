// internal/workers/portfolio/send-risk-alert/config.go
package sendriskalert

import "time"

type Config struct {
	Timeout      time.Duration
	AWSRegion    string
	FromEmail    string
	EmailEnabled bool
	SMSEnabled   bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		AWSRegion:    "us-east-1",
		FromEmail:    "risk-alerts@lending.example.com",
		EmailEnabled: true,
		SMSEnabled:   true,
	}
}
