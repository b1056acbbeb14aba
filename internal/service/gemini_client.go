package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"content-generator/internal/model"
)

const (
	defaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiTextModel  = "gemini-2.5-flash"
	defaultGeminiImageModel = "gemini-2.5-flash-image"
	maxErrorBodyLog         = 512
)

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *model.InlineData `json:"inlineData,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// geminiClient - REST клиент generateContent, общий для текста и изображений.
type geminiClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	logger     *zap.Logger
}

func newGeminiClient(baseURL, modelName, apiKey string, timeout time.Duration, logger *zap.Logger) *geminiClient {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &geminiClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      modelName,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// generateContent отправляет промпт одним user сообщением и возвращает части первого кандидата.
func (c *geminiClient) generateContent(ctx context.Context, prompt string) ([]geminiPart, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gemini API returned non-OK status",
			zap.String("model", c.model),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", truncate(body, maxErrorBodyLog)),
		)
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return nil, nil
	}
	return decoded.Candidates[0].Content.Parts, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
