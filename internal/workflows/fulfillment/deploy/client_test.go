// internal/workflows/fulfillment/deploy/client_test.go
package deploy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "siteforge/internal/common/errors"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{}) { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{}) { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger      { return l }

func createTestConfig() *Config {
	return &Config{
		Token:   "vc-token",
		TeamID:  "team_1",
		Timeout: 5 * time.Second,
	}
}

func TestClient_Deploy_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v13/deployments", r.URL.Path)
		assert.Equal(t, "team_1", r.URL.Query().Get("teamId"))
		assert.Equal(t, "Bearer vc-token", r.Header.Get("Authorization"))

		var reqBody deployRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "apex-plumbing-a1b2", reqBody.Name)
		assert.Equal(t, "production", reqBody.Target)
		require.Len(t, reqBody.Files, 1)
		assert.Equal(t, "index.html", reqBody.Files[0].File)
		assert.Contains(t, reqBody.Files[0].Data, "<html>")

		w.Write([]byte(`{"id":"dpl_1","url":"apex-plumbing-a1b2-xyz.vercel.app"}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	client := NewClient(config, &testLogger{t})

	record, err := client.Deploy(context.Background(), "apex-plumbing-a1b2", "<html></html>")

	require.NoError(t, err)
	assert.Equal(t, "dpl_1", record.DeploymentID)
	assert.Equal(t, "apex-plumbing-a1b2", record.ProjectName)
	assert.Equal(t, "apex-plumbing-a1b2-xyz.vercel.app", record.PublicDomain)
}

func TestClient_Deploy_PreservesProviderDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"forbidden","message":"Not authorized: scope mismatch"}}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	client := NewClient(config, &testLogger{t})

	_, err := client.Deploy(context.Background(), "apex-plumbing-a1b2", "<html></html>")

	require.Error(t, err)
	se := err.(*stderrors.StandardError)
	assert.Equal(t, stderrors.ErrCodeDeploymentFailed, se.Code)
	assert.True(t, se.Retryable)
	// Raw platform detail survives into the error for the operator alert.
	assert.Contains(t, se.Details, "scope mismatch")
	assert.Contains(t, se.Details, "apex-plumbing-a1b2")
}

func TestClient_ResolveDomain_PrefersMain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v9/projects/apex-plumbing-a1b2/domains", r.URL.Path)
		w.Write([]byte(`{"domains":[
			{"name":"apex-plumbing-a1b2.vercel.app","main":false},
			{"name":"apexplumbing.com","main":true}
		]}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	client := NewClient(config, &testLogger{t})

	domain := client.ResolveDomain(context.Background(), "apex-plumbing-a1b2")
	assert.Equal(t, "apexplumbing.com", domain)
}

func TestClient_ResolveDomain_FirstWhenNoMain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"domains":[{"name":"first.vercel.app"},{"name":"second.vercel.app"}]}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	client := NewClient(config, &testLogger{t})

	assert.Equal(t, "first.vercel.app", client.ResolveDomain(context.Background(), "proj"))
}

func TestClient_ResolveDomain_FallsBackOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	client := NewClient(config, &testLogger{t})

	domain := client.ResolveDomain(context.Background(), "apex-plumbing-a1b2")
	assert.Equal(t, "apex-plumbing-a1b2.vercel.app", domain)
}
