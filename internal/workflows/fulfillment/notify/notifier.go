// internal/workflows/fulfillment/notify/notifier.go

// Package notify sends operator alerts for fulfillment outcomes. Alerts are
// best-effort; a lost alert never fails the pipeline.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"siteforge/internal/models"
)

type Config struct {
	EmailEnabled bool
	FromEmail    string
	ToEmail      string
	SMSEnabled   bool
	PhoneNumber  string
	SenderID     string
}

// emailAPI is the slice of SES the notifier uses.
type emailAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// smsAPI is the slice of SNS the notifier uses.
type smsAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Notifier struct {
	config *Config
	email  emailAPI
	sms    smsAPI
	logger Logger
}

func NewNotifier(config *Config, email emailAPI, sms smsAPI, log Logger) *Notifier {
	return &Notifier{
		config: config,
		email:  email,
		sms:    sms,
		logger: log.With(map[string]interface{}{
			"component": "notify",
		}),
	}
}

// AlertDeployed tells the operator a paid site went live.
func (n *Notifier) AlertDeployed(ctx context.Context, event *models.PaymentEvent, record *models.DeploymentRecord) {
	subject := fmt.Sprintf("Site deployed: %s", event.CompanyName)
	body := fmt.Sprintf(
		"New paid site is live.\n\nCompany: %s\nDomain: https://%s\nCustomer: %s\nAmount: $%.2f\nEvent: %s\n",
		event.CompanyName, record.PublicDomain, event.CustomerEmail, event.Amount, event.EventID)

	n.sendEmail(ctx, subject, body)
	n.sendSMS(ctx, fmt.Sprintf("Site live: %s -> https://%s", event.CompanyName, record.PublicDomain))
}

// AlertFailed tells the operator a paid fulfillment broke and at which step,
// with enough detail to fix it by hand. These always go out: the customer
// has already paid.
func (n *Notifier) AlertFailed(ctx context.Context, step string, event *models.PaymentEvent, cause error) {
	subject := fmt.Sprintf("FULFILLMENT FAILED: %s", event.CompanyName)
	body := fmt.Sprintf(
		"A paid fulfillment failed and needs manual attention.\n\nCompany: %s\nPendingId: %s\nCustomer: %s\nFailed step: %s\nError: %v\nEvent: %s\n",
		event.CompanyName, event.PendingID, event.CustomerEmail, step, cause, event.EventID)

	n.sendEmail(ctx, subject, body)
	n.sendSMS(ctx, fmt.Sprintf("FULFILLMENT FAILED (%s): %s, pendingId %s", step, event.CompanyName, event.PendingID))
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) {
	if !n.config.EmailEnabled || n.email == nil {
		return
	}

	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.config.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		n.logger.Warn("alert email failed", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
	}
}

func (n *Notifier) sendSMS(ctx context.Context, message string) {
	if !n.config.SMSEnabled || n.sms == nil {
		return
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(n.config.PhoneNumber),
		Message:     aws.String(message),
	}

	_, err := n.sms.Publish(ctx, input)
	if err != nil {
		n.logger.Warn("alert sms failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
