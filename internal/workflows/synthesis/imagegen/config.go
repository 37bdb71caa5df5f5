// internal/workflows/synthesis/imagegen/config.go
package imagegen

import "time"

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Model:   "gemini-2.0-flash-exp-image-generation",
		Timeout: 45 * time.Second,
	}
}
