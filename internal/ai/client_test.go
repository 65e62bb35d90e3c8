package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workchoque/workchoque-api/internal/config"
	"go.uber.org/zap"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   map[string]int
	respond func(model string, w http.ResponseWriter)
}

func newFakeGateway(respond func(model string, w http.ResponseWriter)) (*fakeGateway, *httptest.Server) {
	g := &fakeGateway{calls: map[string]int{}, respond: respond}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /v1beta/models/{model}:generateContent
		path := strings.TrimPrefix(r.URL.Path, "/v1beta/models/")
		model := strings.TrimSuffix(path, ":generateContent")

		g.mu.Lock()
		g.calls[model]++
		g.mu.Unlock()

		g.respond(model, w)
	}))
	return g, server
}

func (g *fakeGateway) callCount(model string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[model]
}

func newTestClient(t *testing.T, baseURL string, models ...string) *Client {
	t.Helper()
	client, err := NewClient(&config.Config{
		GeminiAPIBase: baseURL,
		GeminiAPIKey:  "test-key",
		GeminiModels:  models,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func candidateBody(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func TestAnalyzeFallsBackThroughModels(t *testing.T) {
	gateway, server := newFakeGateway(func(model string, w http.ResponseWriter) {
		if model == "third" {
			fmt.Fprint(w, candidateBody("hello"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	client := newTestClient(t, server.URL, "first", "second", "third", "fourth")

	text, err := client.Analyze(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	assert.Equal(t, 1, gateway.callCount("first"))
	assert.Equal(t, 1, gateway.callCount("second"))
	assert.Equal(t, 1, gateway.callCount("third"))
	assert.Equal(t, 0, gateway.callCount("fourth"))
}

func TestAnalyzeAllModelsFailed(t *testing.T) {
	_, server := newFakeGateway(func(model string, w http.ResponseWriter) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer server.Close()

	client := newTestClient(t, server.URL, "first", "second")

	_, err := client.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all models failed")
}

func TestAnalyzeSurfacesAPIErrorMessage(t *testing.T) {
	_, server := newFakeGateway(func(model string, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	})
	defer server.Close()

	client := newTestClient(t, server.URL, "only")

	_, err := client.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAnalyzeEmptyCandidatesReturnsSentinel(t *testing.T) {
	_, server := newFakeGateway(func(model string, w http.ResponseWriter) {
		fmt.Fprint(w, `{"candidates":[]}`)
	})
	defer server.Close()

	client := newTestClient(t, server.URL, "only")

	text, err := client.Analyze(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, NoResponseSentinel, text)
}

func TestAnalyzeUsesKeyQueryWithoutServiceAccount(t *testing.T) {
	var gotKey string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, candidateBody("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "only")

	_, err := client.Analyze(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Empty(t, gotAuth)
}

func TestAnalyzeNoModelsConfigured(t *testing.T) {
	client := newTestClient(t, "http://unused")

	_, err := client.Analyze(context.Background(), "prompt")
	require.Error(t, err)
}
