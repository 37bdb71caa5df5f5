// internal/models/deployment.go
package models

import "time"

// DeploymentRecord describes one deployment pushed to the hosting platform.
// ProjectName is derived from the company name plus a random disambiguator;
// PublicDomain may initially be the provisional platform-assigned name.
type DeploymentRecord struct {
	ProjectName  string `json:"projectName"`
	DeploymentID string `json:"deploymentId"`
	PublicDomain string `json:"publicDomain"`
	SourceKey    string `json:"sourceKey"`
}

// FulfillmentRecord is the operator-facing audit row written once per
// processed payment event.
type FulfillmentRecord struct {
	EventID      string    `json:"eventId"`
	PendingID    string    `json:"pendingId"`
	CompanyName  string    `json:"companyName"`
	ProjectName  string    `json:"projectName"`
	DeploymentID string    `json:"deploymentId"`
	PublicDomain string    `json:"publicDomain"`
	Status       string    `json:"status"`
	ErrorDetail  string    `json:"errorDetail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Fulfillment statuses.
const (
	FulfillmentStatusDeployed = "deployed"
	FulfillmentStatusFailed   = "failed"
	FulfillmentStatusSkipped  = "skipped"
)
