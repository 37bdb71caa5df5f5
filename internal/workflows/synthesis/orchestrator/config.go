// internal/workflows/synthesis/orchestrator/config.go
package orchestrator

import "time"

type Config struct {
	CompletionHold time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CompletionHold: 800 * time.Millisecond,
	}
}
