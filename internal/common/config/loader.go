// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PAYMENTS_SECRET_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations so commands and tests can run
// from any directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Providers.Content.APIKey == "" {
		if val := os.Getenv("CONTENT_API_KEY"); val != "" {
			cfg.Providers.Content.APIKey = val
		}
	}
	if cfg.Providers.ImageGen.APIKey == "" {
		if val := os.Getenv("IMAGE_GEN_API_KEY"); val != "" {
			cfg.Providers.ImageGen.APIKey = val
		}
	}
	if cfg.Providers.ImageSearch.SecondaryAPIKey == "" {
		if val := os.Getenv("IMAGE_SEARCH_SECONDARY_API_KEY"); val != "" {
			cfg.Providers.ImageSearch.SecondaryAPIKey = val
		}
	}
	if cfg.Providers.ImageSearch.TertiaryAPIKey == "" {
		if val := os.Getenv("IMAGE_SEARCH_TERTIARY_API_KEY"); val != "" {
			cfg.Providers.ImageSearch.TertiaryAPIKey = val
		}
	}

	if cfg.Payments.SecretKey == "" {
		if val := os.Getenv("PAYMENTS_SECRET_KEY"); val != "" {
			cfg.Payments.SecretKey = val
		}
	}
	if cfg.Payments.WebhookSecret == "" {
		if val := os.Getenv("PAYMENTS_WEBHOOK_SECRET"); val != "" {
			cfg.Payments.WebhookSecret = val
		}
	}

	if cfg.Hosting.Token == "" {
		if val := os.Getenv("HOSTING_TOKEN"); val != "" {
			cfg.Hosting.Token = val
		}
	}
	if cfg.Hosting.TeamID == "" {
		if val := os.Getenv("HOSTING_TEAM_ID"); val != "" {
			cfg.Hosting.TeamID = val
		}
	}

	if cfg.Storage.Bucket == "" {
		if val := os.Getenv("STORAGE_BUCKET"); val != "" {
			cfg.Storage.Bucket = val
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Providers.Content.Timeout == 0 {
		cfg.Providers.Content.Timeout = 60000
	}
	if cfg.Providers.Content.MaxRetries == 0 {
		cfg.Providers.Content.MaxRetries = 2
	}
	if cfg.Providers.ImageGen.Timeout == 0 {
		cfg.Providers.ImageGen.Timeout = 45000
	}
	if cfg.Providers.ImageSearch.Timeout == 0 {
		cfg.Providers.ImageSearch.Timeout = 10000
	}
	if cfg.Providers.ImageSearch.PageSize == 0 {
		cfg.Providers.ImageSearch.PageSize = 25
	}

	if cfg.Payments.BaseURL == "" {
		cfg.Payments.BaseURL = "https://api.stripe.com"
	}
	if cfg.Payments.PriceCents == 0 {
		cfg.Payments.PriceCents = 2000
	}
	if cfg.Payments.Currency == "" {
		cfg.Payments.Currency = "usd"
	}
	if cfg.Payments.Timeout == 0 {
		cfg.Payments.Timeout = 20000
	}
	if cfg.Payments.ToleranceSecs == 0 {
		cfg.Payments.ToleranceSecs = 300
	}
	if cfg.Payments.DedupTTLMinutes == 0 {
		cfg.Payments.DedupTTLMinutes = 24 * 60
	}

	if cfg.Hosting.BaseURL == "" {
		cfg.Hosting.BaseURL = "https://api.vercel.com"
	}
	if cfg.Hosting.Timeout == 0 {
		cfg.Hosting.Timeout = 60000
	}
	if cfg.Hosting.PropagationDelay == 0 {
		cfg.Hosting.PropagationDelay = 3000
	}

	if cfg.Analytics.BaseURL == "" {
		cfg.Analytics.BaseURL = "https://graph.facebook.com/v18.0"
	}
	if cfg.Analytics.Timeout == 0 {
		cfg.Analytics.Timeout = 10000
	}

	if cfg.Synthesis.TickInterval == 0 {
		cfg.Synthesis.TickInterval = 60
	}
	if cfg.Synthesis.MessageInterval == 0 {
		cfg.Synthesis.MessageInterval = 2500
	}
	if cfg.Synthesis.CompletionHold == 0 {
		cfg.Synthesis.CompletionHold = 800
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Providers.Content.BaseURL == "" {
		return fmt.Errorf("providers.content.base_url is required")
	}
	if cfg.Payments.WebhookSecret == "" {
		return fmt.Errorf("payments.webhook_secret is required")
	}
	if cfg.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
