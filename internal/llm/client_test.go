package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		URL:   url,
		Key:   "test-key",
		Model: "test-model",
	})
}

func TestClient_Complete_Success(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody completionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Spend less on coffee."}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	out, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "advice?"},
	}, 400, 0.6)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "Spend less on coffee." {
		t.Fatalf("unexpected completion: %q", out)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("unexpected Content-Type: %q", gotContentType)
	}
	if gotBody.Model != "test-model" || gotBody.MaxTokens != 400 || gotBody.Temperature != 0.6 {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[1].Content != "advice?" {
		t.Errorf("unexpected messages: %+v", gotBody.Messages)
	}
}

func TestClient_Complete_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
			},
		},
		{
			name: "error field with 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":{"message":"bad model"}}`))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>gateway error</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := newTestClient(srv.URL)
			_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 400, 0.6)
			if !errors.Is(err, ErrBadResponse) {
				t.Fatalf("expected ErrBadResponse, got %v", err)
			}
		})
	}
}

func TestClient_Complete_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed on purpose

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 400, 0.6)
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
}

func TestNewClient_TimeoutBounds(t *testing.T) {
	if got := NewClient(Config{}).httpClient.Timeout; got != defaultTimeout {
		t.Errorf("expected default timeout %v, got %v", defaultTimeout, got)
	}
	if got := NewClient(Config{Timeout: 5 * maxTimeout}).httpClient.Timeout; got != maxTimeout {
		t.Errorf("expected timeout capped at %v, got %v", maxTimeout, got)
	}
}
