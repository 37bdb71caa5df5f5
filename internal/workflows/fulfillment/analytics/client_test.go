// internal/workflows/fulfillment/analytics/client_test.go
package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteforge/internal/models"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{}) { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{}) { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger      { return l }

func testEvent() *models.PaymentEvent {
	return &models.PaymentEvent{
		EventID:       "evt_1",
		PendingID:     "pending-1",
		CustomerEmail: "  Buyer@Example.COM ",
		ClientIP:      "203.0.113.7",
		UserAgent:     "Mozilla/5.0",
		Amount:        20,
	}
}

func TestHashEmail_NormalizesBeforeHashing(t *testing.T) {
	// sha256("buyer@example.com")
	expected := HashEmail("buyer@example.com")
	assert.Equal(t, expected, HashEmail("  Buyer@Example.COM "))
	assert.Len(t, expected, 64)
}

func TestClient_ReportPurchase_SendsHashedIdentity(t *testing.T) {
	var received eventsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/px_1/events", r.URL.Path)
		assert.Equal(t, "tok_1", r.URL.Query().Get("access_token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"events_received":1}`))
	}))
	defer server.Close()

	client := NewClient(&Config{
		Enabled:     true,
		BaseURL:     server.URL,
		PixelID:     "px_1",
		AccessToken: "tok_1",
		Timeout:     5 * time.Second,
	}, &testLogger{t})

	client.ReportPurchase(context.Background(), testEvent())

	require.Len(t, received.Data, 1)
	ev := received.Data[0]
	assert.Equal(t, "Purchase", ev.EventName)
	assert.Equal(t, "website", ev.ActionSource)
	assert.Equal(t, "USD", ev.CustomData.Currency)
	assert.Equal(t, 20.0, ev.CustomData.Value)
	assert.Equal(t, "203.0.113.7", ev.UserData.ClientIPAddress)
	require.Len(t, ev.UserData.EmailHashes, 1)
	assert.Equal(t, HashEmail("buyer@example.com"), ev.UserData.EmailHashes[0])
	assert.NotContains(t, ev.UserData.EmailHashes[0], "@", "raw email must never leave the process")
}

func TestClient_ReportPurchase_DisabledDoesNothing(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(&Config{
		Enabled: false,
		BaseURL: server.URL,
		PixelID: "px_1",
		Timeout: time.Second,
	}, &testLogger{t})

	client.ReportPurchase(context.Background(), testEvent())
	assert.False(t, called)
}

func TestClient_ReportPurchase_SwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&Config{
		Enabled: true,
		BaseURL: server.URL,
		PixelID: "px_1",
		Timeout: time.Second,
	}, &testLogger{t})

	// Must not panic or propagate anything.
	client.ReportPurchase(context.Background(), testEvent())
}
