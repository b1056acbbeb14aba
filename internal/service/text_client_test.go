package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-generator/internal/config"
	"content-generator/internal/metrics"
	"content-generator/internal/model"
)

func geminiServer(t *testing.T, wantModel string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/"+wantModel+":generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		raw, _ := io.ReadAll(r.Body)
		if assert.NoError(t, json.Unmarshal(raw, &req)) && assert.Len(t, req.Contents, 1) {
			assert.Equal(t, "user", req.Contents[0].Role)
			assert.Equal(t, "Write a Title", req.Contents[0].Parts[0].Text)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewTextClient_MissingKey(t *testing.T) {
	for _, provider := range []string{config.ProviderGemini, config.ProviderOpenAI} {
		client, err := NewTextClient(config.TextServiceConfig{Provider: provider}, nil, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, client, provider)
	}

	_, err := NewTextClient(config.TextServiceConfig{Provider: "unknown", APIKey: "k"}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestGeminiTextClient(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{
			name:   "First part text",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"role":"model","parts":[{"text":"Title\nBody"},{"text":"ignored"}]}}]}`,
			want:   "Title\nBody",
		},
		{
			name:   "No candidates",
			status: http.StatusOK,
			body:   `{"candidates":[]}`,
			want:   "",
		},
		{
			name:    "Non-OK status",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"quota"}}`,
			wantErr: model.ErrServiceFailure,
		},
		{
			name:    "Malformed JSON",
			status:  http.StatusOK,
			body:    `{"candidates":`,
			wantErr: model.ErrServiceFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := geminiServer(t, defaultGeminiTextModel, tt.status, tt.body)
			m := metrics.New()
			client, err := NewTextClient(config.TextServiceConfig{
				Provider: config.ProviderGemini,
				APIKey:   "test-key",
				BaseURL:  srv.URL,
				Timeout:  5 * time.Second,
			}, m, zap.NewNop())
			require.NoError(t, err)

			got, err := client.GenerateText(context.Background(), "Write a Title")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceRequests.WithLabelValues("text", config.ProviderGemini, "error")))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceRequests.WithLabelValues("text", config.ProviderGemini, "success")))
		})
	}
}

func TestOpenAITextClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id":"chatcmpl-1","object":"chat.completion","model":"gpt-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Hello\nWorld"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}
		}`)
	}))
	defer srv.Close()

	client, err := NewTextClient(config.TextServiceConfig{
		Provider: config.ProviderOpenAI,
		APIKey:   "test-key",
		Model:    "gpt-test",
		BaseURL:  srv.URL,
		Timeout:  5 * time.Second,
	}, nil, zap.NewNop())
	require.NoError(t, err)

	got, err := client.GenerateText(context.Background(), "Write a Title")
	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", got)
}

func TestOpenAITextClient_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	client, err := NewTextClient(config.TextServiceConfig{
		Provider: config.ProviderOpenAI,
		APIKey:   "test-key",
		BaseURL:  srv.URL,
		Timeout:  5 * time.Second,
	}, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateText(context.Background(), "Write a Title")
	assert.ErrorIs(t, err, model.ErrServiceFailure)
}

func TestOllamaTextClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req["model"])
		assert.Equal(t, false, req["stream"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama3","message":{"role":"assistant","content":"Ollama title\nBody"},"done":true,"prompt_eval_count":4,"eval_count":6}`+"\n")
	}))
	defer srv.Close()

	// Суффикс /v1 отбрасывается.
	client, err := NewTextClient(config.TextServiceConfig{
		Provider: config.ProviderOllama,
		BaseURL:  srv.URL + "/v1",
		Timeout:  5 * time.Second,
	}, nil, zap.NewNop())
	require.NoError(t, err)

	got, err := client.GenerateText(context.Background(), "Write a Title")
	require.NoError(t, err)
	assert.Equal(t, "Ollama title\nBody", got)
}

func TestGeminiImageClient(t *testing.T) {
	srv := geminiServer(t, "image-model", http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"caption"},{"inlineData":{"mimeType":"image/webp","data":"ZmFrZQ=="}}]}}]}`)

	assert.Nil(t, NewImageClient(config.ImageServiceConfig{}, nil, zap.NewNop()))

	client := NewImageClient(config.ImageServiceConfig{
		APIKey:  "test-key",
		Model:   "image-model",
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
	}, nil, zap.NewNop())
	require.NotNil(t, client)

	resp, err := client.GenerateImage(context.Background(), "Write a Title")
	require.NoError(t, err)
	require.Len(t, resp.Parts, 2)
	inline := resp.FirstInlineData()
	require.NotNil(t, inline)
	assert.Equal(t, "image/webp", inline.MimeType)
	assert.Equal(t, "ZmFrZQ==", inline.Data)
}
