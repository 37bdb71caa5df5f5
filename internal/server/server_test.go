// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "siteforge/internal/common/errors"
	"siteforge/internal/models"
	"siteforge/internal/workflows/synthesis/progress"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger       { return l }

type fakeSynth struct {
	err error
}

func (f *fakeSynth) Generate(ctx context.Context, pendingID string, req *models.GenerationRequest, tracker *progress.Tracker) (*models.StagedSite, error) {
	if f.err != nil {
		return nil, f.err
	}
	tracker.Raise(progress.TargetDone)
	return &models.StagedSite{
		PendingID: pendingID,
		Document:  models.SiteDocument{CompanyName: req.CompanyName},
	}, nil
}

type fakeRenderer struct{}

func (f *fakeRenderer) Render(doc *models.SiteDocument, images *models.ImageSet) (string, error) {
	return "<html>" + doc.CompanyName + "</html>", nil
}

type fakeBundleStore struct {
	sites map[string]*models.StagedSite
}

func (f *fakeBundleStore) Put(ctx context.Context, site *models.StagedSite) error {
	if f.sites == nil {
		f.sites = map[string]*models.StagedSite{}
	}
	f.sites[site.PendingID] = site
	return nil
}

type fakeCheckout struct {
	url string
	err error

	lastEnvelope models.CheckoutContext
}

func (f *fakeCheckout) CreateSession(ctx context.Context, envelope models.CheckoutContext) (string, error) {
	f.lastEnvelope = envelope
	return f.url, f.err
}

type fakeWebhook struct {
	err error

	lastPayload []byte
	lastHeader  string
}

func (f *fakeWebhook) Process(ctx context.Context, payload []byte, signatureHeader string) error {
	f.lastPayload = payload
	f.lastHeader = signatureHeader
	return f.err
}

type serverFixture struct {
	server   *Server
	synth    *fakeSynth
	store    *fakeBundleStore
	checkout *fakeCheckout
	webhook  *fakeWebhook
}

func newServerFixture(t *testing.T) *serverFixture {
	f := &serverFixture{
		synth:    &fakeSynth{},
		store:    &fakeBundleStore{},
		checkout: &fakeCheckout{url: "https://checkout.example.com/cs_1"},
		webhook:  &fakeWebhook{},
	}
	log := &testLogger{t}
	manager := NewManager(f.synth, &fakeRenderer{}, f.store, 5*time.Second, log)
	f.server = New(manager, f.checkout, f.webhook, Options{
		TickInterval:    time.Millisecond,
		MessageInterval: 2500 * time.Millisecond,
	}, log)
	return f
}

func validGenerateBody() *bytes.Buffer {
	body, _ := json.Marshal(map[string]string{
		"industry":    "plumbing",
		"companyName": "Apex Plumbing",
		"serviceArea": "Denver Metro",
		"phone":       "(303) 555-0142",
		"brandColor":  "#1e40af",
	})
	return bytes.NewBuffer(body)
}

func startGeneration(t *testing.T, f *serverFixture) string {
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", validGenerateBody()))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["pendingId"])
	return resp["pendingId"]
}

func waitForStatus(t *testing.T, f *serverFixture, pendingID, want string) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate/"+pendingID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		if resp["status"] == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("generation %s never reached status %q", pendingID, want)
}

func TestServer_GenerateLifecycle(t *testing.T) {
	f := newServerFixture(t)

	pendingID := startGeneration(t, f)
	waitForStatus(t, f, pendingID, StatusCompleted)

	site, ok := f.store.sites[pendingID]
	require.True(t, ok, "completed generation must be staged")
	assert.Equal(t, "<html>Apex Plumbing</html>", site.HTML)
}

func TestServer_GenerateRejectsIncompleteRequest(t *testing.T) {
	f := newServerFixture(t)

	body := bytes.NewBufferString(`{"industry":"plumbing"}`)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "companyName")
}

func TestServer_GenerateRejectsBadJSON(t *testing.T) {
	f := newServerFixture(t)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_StatusUnknownID(t *testing.T) {
	f := newServerFixture(t)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate/no-such-id", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StatusReportsFailure(t *testing.T) {
	f := newServerFixture(t)
	f.synth.err = stderrors.NewContentMalformedError("document missing faqs")

	pendingID := startGeneration(t, f)
	waitForStatus(t, f, pendingID, StatusFailed)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate/"+pendingID, nil))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "CONTENT_MALFORMED")
}

func TestServer_EventsStreamsToCompletion(t *testing.T) {
	f := newServerFixture(t)

	pendingID := startGeneration(t, f)
	waitForStatus(t, f, pendingID, StatusCompleted)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate/"+pendingID+"/events", nil))

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: progress")
	assert.Contains(t, body, `"message":"Analyzing your business details..."`)
	assert.Contains(t, body, "event: complete")
	assert.Contains(t, body, `"status":"completed"`)
}

func TestServer_EventsEmitsErrorForFailedGeneration(t *testing.T) {
	f := newServerFixture(t)
	f.synth.err = stderrors.NewContentCallFailedError(errors.New("connection refused"))

	pendingID := startGeneration(t, f)
	waitForStatus(t, f, pendingID, StatusFailed)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate/"+pendingID+"/events", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "event: error")
	assert.NotContains(t, body, "event: complete")
}

func TestServer_EventsUnknownID(t *testing.T) {
	f := newServerFixture(t)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate/no-such-id/events", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CheckoutReturnsRedirectURL(t *testing.T) {
	f := newServerFixture(t)

	body := bytes.NewBufferString(`{"pendingId":"pending-1","companyName":"Apex Plumbing"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", body)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://checkout.example.com/cs_1")

	assert.Equal(t, "pending-1", f.checkout.lastEnvelope.PendingID)
	assert.Equal(t, "Apex Plumbing", f.checkout.lastEnvelope.CompanyName)
	assert.Equal(t, "203.0.113.7", f.checkout.lastEnvelope.ClientIP)
	assert.Equal(t, "Mozilla/5.0", f.checkout.lastEnvelope.UserAgent)
}

func TestServer_CheckoutMissingReference(t *testing.T) {
	f := newServerFixture(t)
	f.checkout.err = stderrors.NewMissingReferenceError("pendingId is required")

	body := bytes.NewBufferString(`{"companyName":"Apex Plumbing"}`)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CheckoutProviderFailure(t *testing.T) {
	f := newServerFixture(t)
	f.checkout.err = stderrors.NewCheckoutFailedError(errors.New("status 500"))

	body := bytes.NewBufferString(`{"pendingId":"pending-1","companyName":"Apex Plumbing"}`)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", body))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServer_WebhookAck(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, `{"id":"evt_1"}`, string(f.webhook.lastPayload))
	assert.Equal(t, "t=1,v1=abc", f.webhook.lastHeader)
}

func TestServer_WebhookRejection(t *testing.T) {
	f := newServerFixture(t)
	f.webhook.err = stderrors.NewInvalidSignatureError("signature mismatch")

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(`{"id":"evt_1"}`))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Health(t *testing.T) {
	f := newServerFixture(t)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
