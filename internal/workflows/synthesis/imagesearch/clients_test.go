// internal/workflows/synthesis/imagesearch/clients_test.go
package imagesearch

import (
	"context"
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
		SecondaryAPIKey: "pix-key",
		TertiaryAPIKey:  "uns-key",
		Timeout:         5 * time.Second,
		PageSize:        20,
	}
}

func TestSecondaryClient_Search_ReturnsFirstHit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		assert.Equal(t, "pix-key", r.URL.Query().Get("key"))
		assert.Equal(t, "plumber working", r.URL.Query().Get("q"))
		assert.Equal(t, "photo", r.URL.Query().Get("image_type"))

		w.Write([]byte(`{"hits":[
			{"id":1,"largeImageURL":"https://img.example/one.jpg","tags":"plumber, work"},
			{"id":2,"largeImageURL":"https://img.example/two.jpg","tags":"pipes"}
		]}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.SecondaryBaseURL = server.URL
	client := NewSecondaryClient(config, &testLogger{t})

	url, err := client.Search(context.Background(), "plumber working")

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/one.jpg", url)
}

func TestSecondaryClient_Search_NoHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits":[]}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.SecondaryBaseURL = server.URL
	client := NewSecondaryClient(config, &testLogger{t})

	url, err := client.Search(context.Background(), "nothing")

	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestSecondaryClient_Search_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	config := createTestConfig()
	config.SecondaryBaseURL = server.URL
	client := NewSecondaryClient(config, &testLogger{t})

	_, err := client.Search(context.Background(), "plumber")

	require.Error(t, err)
	se := err.(*stderrors.StandardError)
	assert.Equal(t, stderrors.ErrCodeImageSearchFailed, se.Code)
}

func TestTertiaryClient_Search_NormalizesHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Client-ID uns-key", r.Header.Get("Authorization"))
		assert.Equal(t, "roofer", r.URL.Query().Get("query"))

		w.Write([]byte(`{"results":[
			{"id":"abc","urls":{"regular":"https://img.example/a.jpg"},
			 "description":"","alt_description":"roofer on a roof",
			 "tags":[{"title":"roof"},{"title":"work"}]},
			{"id":"def","urls":{"regular":""},"description":"missing url"}
		]}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.TertiaryBaseURL = server.URL
	client := NewTertiaryClient(config, &testLogger{t})

	hits, err := client.Search(context.Background(), "roofer")

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "abc", hits[0].ID)
	assert.Equal(t, "roofer on a roof", hits[0].Description)
	assert.Equal(t, []string{"roof", "work"}, hits[0].Tags)
}

func TestTertiaryClient_Search_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	config := createTestConfig()
	config.TertiaryBaseURL = server.URL
	client := NewTertiaryClient(config, &testLogger{t})

	_, err := client.Search(context.Background(), "roofer")

	require.Error(t, err)
	se := err.(*stderrors.StandardError)
	assert.Equal(t, stderrors.ErrCodeImageSearchFailed, se.Code)
}
