// internal/workflows/fulfillment/webhook/handler.go
package webhook

import (
	"context"
	"encoding/json"
	"time"

	"siteforge/internal/common/errors"
	"siteforge/internal/common/metrics"
	"siteforge/internal/models"
)

// StagedFetcher pulls the staged HTML bundle for a pending site.
type StagedFetcher interface {
	GetHTML(ctx context.Context, pendingID string) (string, error)
}

// Deployer pushes bundles to the hosting platform.
type Deployer interface {
	Deploy(ctx context.Context, projectName, html string) (*models.DeploymentRecord, error)
	ResolveDomain(ctx context.Context, projectName string) string
}

// RecordWriter persists the fulfillment audit row.
type RecordWriter interface {
	Insert(ctx context.Context, record *models.FulfillmentRecord) error
}

// Alerter notifies the operator of outcomes.
type Alerter interface {
	AlertDeployed(ctx context.Context, event *models.PaymentEvent, record *models.DeploymentRecord)
	AlertFailed(ctx context.Context, step string, event *models.PaymentEvent, cause error)
}

// ConversionReporter reports the purchase to the ad platform.
type ConversionReporter interface {
	ReportPurchase(ctx context.Context, event *models.PaymentEvent)
}

// Claimer guards against duplicate event deliveries.
type Claimer interface {
	Claim(ctx context.Context, eventID string) bool
	Release(ctx context.Context, eventID string)
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Handler turns verified payment events into live deployments. Once the
// signature check passes the provider always gets an ack; failures past
// that point surface through operator alerts and the audit table, never
// through the webhook response.
type Handler struct {
	config    *Config
	staged    StagedFetcher
	deployer  Deployer
	records   RecordWriter
	alerter   Alerter
	analytics ConversionReporter
	dedup     Claimer
	logger    Logger

	// Test seam for the post-deployment propagation wait.
	sleep func(ctx context.Context, d time.Duration)
}

func NewHandler(config *Config, staged StagedFetcher, deployer Deployer, records RecordWriter,
	alerter Alerter, analytics ConversionReporter, dedup Claimer, log Logger) *Handler {
	return &Handler{
		config:    config,
		staged:    staged,
		deployer:  deployer,
		records:   records,
		alerter:   alerter,
		analytics: analytics,
		dedup:     dedup,
		logger: log.With(map[string]interface{}{
			"component": "payment-webhook",
		}),
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
		},
	}
}

// Process handles one raw webhook delivery. A non-nil error means the
// delivery must be rejected (bad signature or unparseable payload); nil
// means ack, whatever happened downstream.
func (h *Handler) Process(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := VerifySignature(payload, signatureHeader, h.config.WebhookSecret, h.config.Tolerance, time.Now()); err != nil {
		metrics.WebhookEvents.WithLabelValues("invalid_signature").Inc()
		h.logger.Warn("webhook signature rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return errors.NewInvalidSignatureError(err.Error())
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		metrics.WebhookEvents.WithLabelValues("unparseable").Inc()
		return errors.NewInvalidSignatureError("unparseable event payload")
	}

	if envelope.Type != eventCompletedType {
		metrics.WebhookEvents.WithLabelValues("ignored_type").Inc()
		h.logger.Info("event type ignored", map[string]interface{}{
			"eventId": envelope.ID,
			"type":    envelope.Type,
		})
		return nil
	}

	if !h.dedup.Claim(ctx, envelope.ID) {
		metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return nil
	}

	event := &models.PaymentEvent{
		EventID:       envelope.ID,
		PendingID:     envelope.Data.Object.Metadata["pendingId"],
		CompanyName:   envelope.Data.Object.Metadata["companyName"],
		ClientIP:      envelope.Data.Object.Metadata["clientIp"],
		UserAgent:     envelope.Data.Object.Metadata["userAgent"],
		CustomerEmail: envelope.Data.Object.CustomerDetails.Email,
		Amount:        float64(envelope.Data.Object.AmountTotal) / 100,
	}

	h.fulfill(ctx, event)
	return nil
}

// fulfill runs the post-payment pipeline. Every failure path records the
// outcome, alerts the operator, and releases the dedup claim so a
// redelivery can retry.
func (h *Handler) fulfill(ctx context.Context, event *models.PaymentEvent) {
	if event.PendingID == "" {
		h.failed(ctx, event, "reference", nil,
			errors.NewMissingReferenceError("event metadata carries no pendingId"))
		return
	}

	html, err := h.staged.GetHTML(ctx, event.PendingID)
	if err != nil {
		h.failed(ctx, event, "staged_fetch", nil,
			errors.NewStagedFetchFailedError(event.PendingID, err))
		return
	}

	projectName := ProjectName(event.CompanyName)
	deployment, err := h.deployer.Deploy(ctx, projectName, html)
	if err != nil {
		h.failed(ctx, event, "deployment", &models.FulfillmentRecord{ProjectName: projectName}, err)
		return
	}

	// Give the platform a moment before the domain lookup; the lookup
	// itself is best-effort and falls back to the provisional name.
	if h.config.PropagationDelay > 0 {
		h.sleep(ctx, h.config.PropagationDelay)
	}
	deployment.PublicDomain = h.deployer.ResolveDomain(ctx, projectName)

	record := &models.FulfillmentRecord{
		EventID:      event.EventID,
		PendingID:    event.PendingID,
		CompanyName:  event.CompanyName,
		ProjectName:  deployment.ProjectName,
		DeploymentID: deployment.DeploymentID,
		PublicDomain: deployment.PublicDomain,
		Status:       models.FulfillmentStatusDeployed,
	}
	if err := h.records.Insert(ctx, record); err != nil {
		// The site is live; a lost audit row is an alert, not a rollback.
		metrics.FulfillmentStepsFailed.WithLabelValues("record_insert").Inc()
		h.logger.Error("fulfillment record insert failed", map[string]interface{}{
			"eventId": event.EventID,
			"error":   err.Error(),
		})
	}

	metrics.WebhookEvents.WithLabelValues("deployed").Inc()
	h.logger.Info("fulfillment completed", map[string]interface{}{
		"eventId":      event.EventID,
		"pendingId":    event.PendingID,
		"publicDomain": deployment.PublicDomain,
	})

	h.alerter.AlertDeployed(ctx, event, deployment)
	h.analytics.ReportPurchase(ctx, event)
}

func (h *Handler) failed(ctx context.Context, event *models.PaymentEvent, step string, partial *models.FulfillmentRecord, cause error) {
	metrics.WebhookEvents.WithLabelValues("failed").Inc()
	metrics.FulfillmentStepsFailed.WithLabelValues(step).Inc()
	h.logger.Error("fulfillment failed", map[string]interface{}{
		"eventId":   event.EventID,
		"pendingId": event.PendingID,
		"step":      step,
		"error":     cause.Error(),
	})

	record := &models.FulfillmentRecord{
		EventID:     event.EventID,
		PendingID:   event.PendingID,
		CompanyName: event.CompanyName,
		Status:      models.FulfillmentStatusFailed,
		ErrorDetail: cause.Error(),
	}
	if partial != nil {
		record.ProjectName = partial.ProjectName
		record.DeploymentID = partial.DeploymentID
	}
	if err := h.records.Insert(ctx, record); err != nil {
		h.logger.Error("failure record insert failed", map[string]interface{}{
			"eventId": event.EventID,
			"error":   err.Error(),
		})
	}

	h.alerter.AlertFailed(ctx, step, event, cause)

	// Let a redelivery retry the work.
	h.dedup.Release(ctx, event.EventID)
}
