// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Payments  PaymentsConfig  `mapstructure:"payments"`
	Hosting   HostingConfig   `mapstructure:"hosting"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	BaseURL     string `mapstructure:"base_url"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProvidersConfig holds settings for the generative and search providers.
type ProvidersConfig struct {
	Content struct {
		BaseURL     string  `mapstructure:"base_url"`
		APIKey      string  `mapstructure:"api_key"`
		Model       string  `mapstructure:"model"`
		Timeout     int     `mapstructure:"timeout"` // milliseconds
		MaxRetries  int     `mapstructure:"max_retries"`
		Temperature float64 `mapstructure:"temperature"`
	} `mapstructure:"content"`

	ImageGen struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"image_gen"`

	ImageSearch struct {
		SecondaryBaseURL string `mapstructure:"secondary_base_url"`
		SecondaryAPIKey  string `mapstructure:"secondary_api_key"`
		TertiaryBaseURL  string `mapstructure:"tertiary_base_url"`
		TertiaryAPIKey   string `mapstructure:"tertiary_api_key"`
		Timeout          int    `mapstructure:"timeout"` // milliseconds
		PageSize         int    `mapstructure:"page_size"`
	} `mapstructure:"image_search"`
}

// PaymentsConfig holds settings for the payment processor boundary.
type PaymentsConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	SecretKey       string `mapstructure:"secret_key"`
	WebhookSecret   string `mapstructure:"webhook_secret"`
	PriceCents      int64  `mapstructure:"price_cents"`
	Currency        string `mapstructure:"currency"`
	Timeout         int    `mapstructure:"timeout"`           // milliseconds
	ToleranceSecs   int64  `mapstructure:"tolerance_seconds"` // signature timestamp tolerance
	DedupTTLMinutes int    `mapstructure:"dedup_ttl_minutes"`
}

// HostingConfig holds settings for the hosting platform boundary.
type HostingConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	Token            string `mapstructure:"token"`
	TeamID           string `mapstructure:"team_id"`
	Timeout          int    `mapstructure:"timeout"`           // milliseconds
	PropagationDelay int    `mapstructure:"propagation_delay"` // milliseconds
}

// StorageConfig holds settings for the staged-site object store.
type StorageConfig struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// AnalyticsConfig holds settings for the conversion-event endpoint.
type AnalyticsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BaseURL     string `mapstructure:"base_url"`
	PixelID     string `mapstructure:"pixel_id"`
	AccessToken string `mapstructure:"access_token"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
}

// AlertsConfig holds settings for operator notifications.
type AlertsConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
		SenderID    string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
}

// SynthesisConfig holds settings for the generation orchestrator.
type SynthesisConfig struct {
	TickInterval    int `mapstructure:"tick_interval"`    // milliseconds
	MessageInterval int `mapstructure:"message_interval"` // milliseconds
	CompletionHold  int `mapstructure:"completion_hold"`  // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
