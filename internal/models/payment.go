// internal/models/payment.go
package models

// CheckoutContext is the narrow context envelope threaded through the payment
// provider's opaque metadata field. The provider is treated purely as a
// transport for these values, never as a data store.
type CheckoutContext struct {
	PendingID   string `json:"pendingId"`
	CompanyName string `json:"companyName"`
	ClientIP    string `json:"clientIp"`
	UserAgent   string `json:"userAgent"`
}

// ToMetadata serializes the envelope into provider metadata keys.
func (c CheckoutContext) ToMetadata() map[string]string {
	return map[string]string{
		"pendingId":   c.PendingID,
		"companyName": c.CompanyName,
		"clientIp":    c.ClientIP,
		"userAgent":   c.UserAgent,
	}
}

// CheckoutContextFromMetadata recovers the envelope from provider metadata.
func CheckoutContextFromMetadata(meta map[string]string) CheckoutContext {
	return CheckoutContext{
		PendingID:   meta["pendingId"],
		CompanyName: meta["companyName"],
		ClientIP:    meta["clientIp"],
		UserAgent:   meta["userAgent"],
	}
}

// PaymentEvent is an authenticated payment-completed notification after
// signature verification and metadata extraction. One PaymentEvent triggers
// at most one deployment.
type PaymentEvent struct {
	EventID       string  `json:"eventId"`
	PendingID     string  `json:"pendingId"`
	CompanyName   string  `json:"companyName"`
	ClientIP      string  `json:"clientIp"`
	UserAgent     string  `json:"userAgent"`
	CustomerEmail string  `json:"customerEmail"`
	Amount        float64 `json:"amount"`
}
