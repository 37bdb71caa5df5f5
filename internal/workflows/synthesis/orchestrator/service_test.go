// internal/workflows/synthesis/orchestrator/service_test.go
package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "siteforge/internal/common/errors"
	"siteforge/internal/models"
	"siteforge/internal/workflows/synthesis/fallback"
	"siteforge/internal/workflows/synthesis/progress"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger       { return l }

type fakeContent struct {
	doc   *models.SiteDocument
	err   error
	delay time.Duration
	calls int32
}

func (f *fakeContent) Generate(ctx context.Context, req *models.GenerationRequest) (*models.SiteDocument, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.doc, f.err
}

type fakeResolver struct {
	tier  string
	calls int32
}

func (f *fakeResolver) Resolve(ctx context.Context, slot fallback.Slot, excludeIDs map[string]bool) fallback.Result {
	atomic.AddInt32(&f.calls, 1)
	return fallback.Result{URI: "https://img.example/" + slot.Category + ".jpg", Tier: f.tier}
}

func testRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Industry:    "Roofing",
		CompanyName: "Summit Roofing",
		ServiceArea: "Boulder, CO",
		Phone:       "(720) 555-0199",
		BrandColor:  "#b91c1c",
	}
}

func testDocument() *models.SiteDocument {
	return &models.SiteDocument{
		Hero: models.Hero{Badge: "Local Roofers"},
		FAQs: []models.FAQ{{}, {}, {}, {}},
	}
}

func testService(content ContentProvider, images ImageResolver, t *testing.T) *Service {
	return NewService(&Config{CompletionHold: time.Millisecond}, content, images, &testLogger{t})
}

func TestService_Generate_Success(t *testing.T) {
	content := &fakeContent{doc: testDocument()}
	resolver := &fakeResolver{tier: fallback.TierPrimary}
	svc := testService(content, resolver, t)
	tracker := progress.NewTracker()

	site, err := svc.Generate(context.Background(), "pending-1", testRequest(), tracker)

	require.NoError(t, err)
	assert.Equal(t, "pending-1", site.PendingID)
	assert.Equal(t, "Local Roofers", site.Document.Hero.Badge)
	assert.Equal(t, "https://img.example/hero.jpg", site.Images.HeroBackground)
	assert.Equal(t, "https://img.example/industryValue.jpg", site.Images.IndustryValue)
	assert.Equal(t, "https://img.example/credentials.jpg", site.Images.CredentialsShowcase)
	assert.Equal(t, int32(1), atomic.LoadInt32(&content.calls))
	assert.Equal(t, int32(3), atomic.LoadInt32(&resolver.calls))
	assert.Equal(t, float64(progress.TargetDone), tracker.Target())
}

func TestService_Generate_ValidationRejected(t *testing.T) {
	content := &fakeContent{doc: testDocument()}
	resolver := &fakeResolver{}
	svc := testService(content, resolver, t)

	req := testRequest()
	req.CompanyName = ""
	site, err := svc.Generate(context.Background(), "pending-2", req, progress.NewTracker())

	require.Error(t, err)
	assert.Nil(t, site)
	se := err.(*stderrors.StandardError)
	assert.Equal(t, stderrors.ErrCodeRequestValidationFailed, se.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&content.calls), "providers must not run for invalid requests")
}

func TestService_Generate_ContentFailureFailsGeneration(t *testing.T) {
	content := &fakeContent{err: stderrors.NewContentCallFailedError(context.DeadlineExceeded)}
	resolver := &fakeResolver{tier: fallback.TierDefault}
	svc := testService(content, resolver, t)
	tracker := progress.NewTracker()

	site, err := svc.Generate(context.Background(), "pending-3", testRequest(), tracker)

	require.Error(t, err)
	assert.Nil(t, site)
	se := err.(*stderrors.StandardError)
	assert.Equal(t, stderrors.ErrCodeContentCallFailed, se.Code)
	// The target never reached 100, so the displayed bar cannot either.
	assert.Less(t, tracker.Target(), float64(progress.TargetDone))
}

func TestService_Generate_ImageFailuresDoNotFailGeneration(t *testing.T) {
	// A resolver that always lands on the static default still yields a site.
	content := &fakeContent{doc: testDocument()}
	resolver := &fakeResolver{tier: fallback.TierDefault}
	svc := testService(content, resolver, t)

	site, err := svc.Generate(context.Background(), "pending-4", testRequest(), progress.NewTracker())

	require.NoError(t, err)
	assert.NotEmpty(t, site.Images.HeroBackground)
	assert.NotEmpty(t, site.Images.IndustryValue)
	assert.NotEmpty(t, site.Images.CredentialsShowcase)
}

func TestService_Generate_ProvidersRunConcurrently(t *testing.T) {
	content := &fakeContent{doc: testDocument(), delay: 100 * time.Millisecond}
	slow := &slowResolver{delay: 100 * time.Millisecond}
	svc := testService(content, slow, t)

	started := time.Now()
	_, err := svc.Generate(context.Background(), "pending-5", testRequest(), progress.NewTracker())
	elapsed := time.Since(started)

	require.NoError(t, err)
	// Serial execution would need at least 400ms.
	assert.Less(t, elapsed, 350*time.Millisecond)
}

type slowResolver struct {
	delay time.Duration
}

func (s *slowResolver) Resolve(ctx context.Context, slot fallback.Slot, excludeIDs map[string]bool) fallback.Result {
	time.Sleep(s.delay)
	return fallback.Result{URI: "https://img.example/" + slot.Category + ".jpg", Tier: fallback.TierSecondary}
}
