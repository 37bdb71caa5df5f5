// internal/workflows/fulfillment/webhook/config.go
package webhook

import "time"

type Config struct {
	WebhookSecret    string
	Tolerance        time.Duration
	PropagationDelay time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Tolerance:        5 * time.Minute,
		PropagationDelay: 3 * time.Second,
	}
}
