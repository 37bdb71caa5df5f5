// internal/workflows/fulfillment/webhook/models.go
package webhook

// eventCompletedType is the only event type this handler fulfills.
const eventCompletedType = "checkout.session.completed"

// eventEnvelope mirrors the slice of the provider's webhook payload the
// handler reads.
type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object sessionObject `json:"object"`
	} `json:"data"`
}

type sessionObject struct {
	ID              string            `json:"id"`
	AmountTotal     int64             `json:"amount_total"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}
