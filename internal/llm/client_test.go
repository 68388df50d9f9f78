package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/creatorhq/creator-api/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*llm.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := llm.NewClient(llm.ClientConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	return client, srv
}

func TestClientInvoke(t *testing.T) {
	var gotRequest llm.Request
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"score\": 7}"}}]
		}`))
	})

	comp, err := client.Invoke(context.Background(), []llm.Message{
		{Role: "system", Content: "You are a strategist."},
		{Role: "user", Content: "Analyze this."},
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequest.Model != "test-model" {
		t.Errorf("request model = %q", gotRequest.Model)
	}
	if len(gotRequest.Messages) != 2 {
		t.Fatalf("request has %d messages, want 2", len(gotRequest.Messages))
	}
	if gotRequest.ResponseFormat == nil || gotRequest.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v", gotRequest.ResponseFormat)
	}
	if got := comp.Content(); got != `{"score": 7}` {
		t.Errorf("Content() = %q", got)
	}
}

func TestClientInvokeErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	})

	_, err := client.Invoke(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	var providerErr *llm.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Invoke() error = %v, want ProviderError", err)
	}
}

func TestClientInvokeNoChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-2", "model": "test-model", "choices": []}`))
	})

	_, err := client.Invoke(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	var providerErr *llm.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Invoke() error = %v, want ProviderError", err)
	}
}

func TestClientInvokeBadBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json at all`))
	})

	_, err := client.Invoke(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	var providerErr *llm.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Invoke() error = %v, want ProviderError", err)
	}
}
