// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"siteforge/internal/common/aws"
	"siteforge/internal/common/config"
	"siteforge/internal/common/database"
	"siteforge/internal/common/logger"
	"siteforge/internal/server"
	"siteforge/internal/store/dedup"
	"siteforge/internal/store/staged"
	"siteforge/internal/workflows/fulfillment/analytics"
	"siteforge/internal/workflows/fulfillment/checkout"
	"siteforge/internal/workflows/fulfillment/deploy"
	"siteforge/internal/workflows/fulfillment/notify"
	"siteforge/internal/workflows/fulfillment/records"
	"siteforge/internal/workflows/fulfillment/webhook"
	"siteforge/internal/workflows/synthesis/content"
	"siteforge/internal/workflows/synthesis/fallback"
	"siteforge/internal/workflows/synthesis/imagegen"
	"siteforge/internal/workflows/synthesis/imagesearch"
	"siteforge/internal/workflows/synthesis/orchestrator"
	"siteforge/internal/workflows/synthesis/render"
)

const generationTimeout = 5 * time.Minute

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting siteforge server...")

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	// Redis only backs the webhook dedup guard, which degrades to allowing
	// duplicates. A dead redis is a warning, not a startup failure.
	var redisClient *redis.Client
	err = retryWithBackoff(func() error {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := rc.Ping(ctx); err != nil {
			return err
		}
		redisClient = rc.GetClient()
		return nil
	}, 5, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, webhook dedup degraded", zap.Error(err))
	} else {
		zapLog.Info("Redis connected successfully")
	}

	// --- Init AWS Clients ---
	s3Client, err := aws.NewS3Client(ctx, cfg.Storage.Region)
	if err != nil {
		zapLog.Fatal("s3 client failed", zap.Error(err))
	}

	emailEnabled := cfg.Alerts.Email.Enabled
	sesClient, err := aws.NewSESClient(ctx, cfg.Alerts.AWS.Region)
	if err != nil {
		zapLog.Warn("ses client failed, email alerts disabled", zap.Error(err))
		emailEnabled = false
	}

	smsEnabled := cfg.Alerts.SMS.Enabled
	snsClient, err := aws.NewSNSClient(ctx, cfg.Alerts.AWS.Region)
	if err != nil {
		zapLog.Warn("sns client failed, sms alerts disabled", zap.Error(err))
		smsEnabled = false
	}

	zapLog.Info("External service clients initialized")

	// --- Synthesis Services ---
	contentClient := content.NewClient(
		&content.Config{
			BaseURL:     cfg.Providers.Content.BaseURL,
			APIKey:      cfg.Providers.Content.APIKey,
			Model:       cfg.Providers.Content.Model,
			Timeout:     config.GetDuration(cfg.Providers.Content.Timeout),
			MaxRetries:  cfg.Providers.Content.MaxRetries,
			Temperature: cfg.Providers.Content.Temperature,
		},
		&contentLoggerAdapter{log},
	)

	imageGenClient := imagegen.NewClient(
		&imagegen.Config{
			BaseURL: cfg.Providers.ImageGen.BaseURL,
			APIKey:  cfg.Providers.ImageGen.APIKey,
			Model:   cfg.Providers.ImageGen.Model,
			Timeout: config.GetDuration(cfg.Providers.ImageGen.Timeout),
		},
		&imageGenLoggerAdapter{log},
	)

	searchConfig := &imagesearch.Config{
		SecondaryBaseURL: cfg.Providers.ImageSearch.SecondaryBaseURL,
		SecondaryAPIKey:  cfg.Providers.ImageSearch.SecondaryAPIKey,
		TertiaryBaseURL:  cfg.Providers.ImageSearch.TertiaryBaseURL,
		TertiaryAPIKey:   cfg.Providers.ImageSearch.TertiaryAPIKey,
		Timeout:          config.GetDuration(cfg.Providers.ImageSearch.Timeout),
		PageSize:         cfg.Providers.ImageSearch.PageSize,
	}
	secondaryClient := imagesearch.NewSecondaryClient(searchConfig, &imageSearchLoggerAdapter{log})
	tertiaryClient := imagesearch.NewTertiaryClient(searchConfig, &imageSearchLoggerAdapter{log})

	imageResolver := fallback.NewResolver(imageGenClient, secondaryClient, tertiaryClient, &fallbackLoggerAdapter{log})

	synthesizer := orchestrator.NewService(
		&orchestrator.Config{
			CompletionHold: config.GetDuration(cfg.Synthesis.CompletionHold),
		},
		contentClient, imageResolver, &orchestratorLoggerAdapter{log},
	)

	renderer, err := render.NewRenderer()
	if err != nil {
		zapLog.Fatal("renderer init failed", zap.Error(err))
	}

	stagedStore := staged.NewS3Store(s3Client, cfg.Storage.Bucket, cfg.Storage.Prefix, &stagedLoggerAdapter{log})

	// --- Fulfillment Services ---
	dedupGuard := dedup.NewGuard(
		redisClient,
		time.Duration(cfg.Payments.DedupTTLMinutes)*time.Minute,
		&dedupLoggerAdapter{log},
	)

	checkoutService := checkout.NewService(
		&checkout.Config{
			BaseURL:    cfg.Payments.BaseURL,
			SecretKey:  cfg.Payments.SecretKey,
			AppBaseURL: cfg.App.BaseURL,
			PriceCents: cfg.Payments.PriceCents,
			Currency:   cfg.Payments.Currency,
			Timeout:    config.GetDuration(cfg.Payments.Timeout),
		},
		stagedStore, &checkoutLoggerAdapter{log},
	)

	deployClient := deploy.NewClient(
		&deploy.Config{
			BaseURL: cfg.Hosting.BaseURL,
			Token:   cfg.Hosting.Token,
			TeamID:  cfg.Hosting.TeamID,
			Timeout: config.GetDuration(cfg.Hosting.Timeout),
		},
		&deployLoggerAdapter{log},
	)

	analyticsClient := analytics.NewClient(
		&analytics.Config{
			Enabled:     cfg.Analytics.Enabled,
			BaseURL:     cfg.Analytics.BaseURL,
			PixelID:     cfg.Analytics.PixelID,
			AccessToken: cfg.Analytics.AccessToken,
			Timeout:     config.GetDuration(cfg.Analytics.Timeout),
		},
		&analyticsLoggerAdapter{log},
	)

	recordStore := records.NewStore(pg.GetDB(), &recordsLoggerAdapter{log})

	notifier := notify.NewNotifier(
		&notify.Config{
			EmailEnabled: emailEnabled,
			FromEmail:    cfg.Alerts.Email.FromEmail,
			ToEmail:      cfg.Alerts.Email.ToEmail,
			SMSEnabled:   smsEnabled,
			PhoneNumber:  cfg.Alerts.SMS.PhoneNumber,
			SenderID:     cfg.Alerts.SMS.SenderID,
		},
		sesClient, snsClient, &notifyLoggerAdapter{log},
	)

	webhookHandler := webhook.NewHandler(
		&webhook.Config{
			WebhookSecret:    cfg.Payments.WebhookSecret,
			Tolerance:        time.Duration(cfg.Payments.ToleranceSecs) * time.Second,
			PropagationDelay: config.GetDuration(cfg.Hosting.PropagationDelay),
		},
		stagedStore, deployClient, recordStore, notifier, analyticsClient, dedupGuard,
		&webhookLoggerAdapter{log},
	)

	// --- HTTP Server ---
	serverLog := &serverLoggerAdapter{log}
	manager := server.NewManager(synthesizer, renderer, stagedStore, generationTimeout, serverLog)
	srv := server.New(manager, checkoutService, webhookHandler, server.Options{
		TickInterval:    config.GetDuration(cfg.Synthesis.TickInterval),
		MessageInterval: config.GetDuration(cfg.Synthesis.MessageInterval),
	}, serverLog)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped gracefully")
}

// Logger adapters for packages that declare their own Logger interfaces
type contentLoggerAdapter struct {
	logger.Logger
}

func (a *contentLoggerAdapter) With(fields map[string]interface{}) content.Logger {
	return &contentLoggerAdapter{a.Logger.With(fields)}
}

type imageGenLoggerAdapter struct {
	logger.Logger
}

func (a *imageGenLoggerAdapter) With(fields map[string]interface{}) imagegen.Logger {
	return &imageGenLoggerAdapter{a.Logger.With(fields)}
}

type imageSearchLoggerAdapter struct {
	logger.Logger
}

func (a *imageSearchLoggerAdapter) With(fields map[string]interface{}) imagesearch.Logger {
	return &imageSearchLoggerAdapter{a.Logger.With(fields)}
}

type fallbackLoggerAdapter struct {
	logger.Logger
}

func (a *fallbackLoggerAdapter) With(fields map[string]interface{}) fallback.Logger {
	return &fallbackLoggerAdapter{a.Logger.With(fields)}
}

type orchestratorLoggerAdapter struct {
	logger.Logger
}

func (a *orchestratorLoggerAdapter) With(fields map[string]interface{}) orchestrator.Logger {
	return &orchestratorLoggerAdapter{a.Logger.With(fields)}
}

type stagedLoggerAdapter struct {
	logger.Logger
}

func (a *stagedLoggerAdapter) With(fields map[string]interface{}) staged.Logger {
	return &stagedLoggerAdapter{a.Logger.With(fields)}
}

type dedupLoggerAdapter struct {
	logger.Logger
}

func (a *dedupLoggerAdapter) With(fields map[string]interface{}) dedup.Logger {
	return &dedupLoggerAdapter{a.Logger.With(fields)}
}

type checkoutLoggerAdapter struct {
	logger.Logger
}

func (a *checkoutLoggerAdapter) With(fields map[string]interface{}) checkout.Logger {
	return &checkoutLoggerAdapter{a.Logger.With(fields)}
}

type webhookLoggerAdapter struct {
	logger.Logger
}

func (a *webhookLoggerAdapter) With(fields map[string]interface{}) webhook.Logger {
	return &webhookLoggerAdapter{a.Logger.With(fields)}
}

type deployLoggerAdapter struct {
	logger.Logger
}

func (a *deployLoggerAdapter) With(fields map[string]interface{}) deploy.Logger {
	return &deployLoggerAdapter{a.Logger.With(fields)}
}

type analyticsLoggerAdapter struct {
	logger.Logger
}

func (a *analyticsLoggerAdapter) With(fields map[string]interface{}) analytics.Logger {
	return &analyticsLoggerAdapter{a.Logger.With(fields)}
}

type recordsLoggerAdapter struct {
	logger.Logger
}

func (a *recordsLoggerAdapter) With(fields map[string]interface{}) records.Logger {
	return &recordsLoggerAdapter{a.Logger.With(fields)}
}

type notifyLoggerAdapter struct {
	logger.Logger
}

func (a *notifyLoggerAdapter) With(fields map[string]interface{}) notify.Logger {
	return &notifyLoggerAdapter{a.Logger.With(fields)}
}

type serverLoggerAdapter struct {
	logger.Logger
}

func (a *serverLoggerAdapter) With(fields map[string]interface{}) server.Logger {
	return &serverLoggerAdapter{a.Logger.With(fields)}
}
