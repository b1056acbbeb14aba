package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"content-generator/internal/config"
	"content-generator/internal/metrics"
	"content-generator/internal/model"
)

// TextClient - клиент Text Service: промпт -> сырой текст.
// Ошибка транспорта или статуса оборачивает model.ErrServiceFailure,
// пустой текст возвращается как "" без ошибки.
type TextClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const (
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOllamaModel   = "llama3"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// NewTextClient создает клиента по TEXT_PROVIDER.
// Возвращает nil без ошибки, если провайдеру нужен ключ, а он не задан:
// это обнаруживается при вызове как model.ErrMissingCredential.
func NewTextClient(cfg config.TextServiceConfig, m *metrics.Metrics, logger *zap.Logger) (TextClient, error) {
	log := logger.Named("TextClient").With(zap.String("provider", cfg.Provider))

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini, "":
		if cfg.APIKey == "" {
			log.Warn("Text service API key is not configured")
			return nil, nil
		}
		modelName := valueOr(cfg.Model, defaultGeminiTextModel)
		log.Info("Text client created", zap.String("model", modelName))
		return &geminiTextClient{
			gemini:  newGeminiClient(cfg.BaseURL, modelName, cfg.APIKey, cfg.Timeout, log),
			metrics: m,
		}, nil

	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			log.Warn("Text service API key is not configured")
			return nil, nil
		}
		openaiConfig := openaigo.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			openaiConfig.BaseURL = cfg.BaseURL
		}
		openaiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		modelName := valueOr(cfg.Model, defaultOpenAIModel)
		log.Info("Text client created", zap.String("model", modelName), zap.String("base_url", openaiConfig.BaseURL))
		return &openAITextClient{
			client:  openaigo.NewClientWithConfig(openaiConfig),
			model:   modelName,
			metrics: m,
			logger:  log,
		}, nil

	case config.ProviderOllama:
		// api.NewClient ждет адрес без суффикса /v1.
		base := strings.TrimSuffix(strings.TrimSuffix(valueOr(cfg.BaseURL, defaultOllamaBaseURL), "/"), "/v1")
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama base URL %q: %w", base, err)
		}
		modelName := valueOr(cfg.Model, defaultOllamaModel)
		log.Info("Text client created", zap.String("model", modelName), zap.String("base_url", base))
		return &ollamaTextClient{
			client:  api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
			model:   modelName,
			metrics: m,
			logger:  log,
		}, nil

	default:
		return nil, fmt.Errorf("unknown text provider %q", cfg.Provider)
	}
}

// --- Gemini ---

type geminiTextClient struct {
	gemini  *geminiClient
	metrics *metrics.Metrics
}

func (c *geminiTextClient) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveServiceCall("text", config.ProviderGemini, started, err) }()

	parts, err := c.gemini.generateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrServiceFailure, err)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0].Text, nil
}

// --- OpenAI ---

type openAITextClient struct {
	client  *openaigo.Client
	model   string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func (c *openAITextClient) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveServiceCall("text", config.ProviderOpenAI, started, err) }()

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrServiceFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	if resp.Usage.TotalTokens > 0 {
		c.logger.Debug("OpenAI usage",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		)
	}
	return resp.Choices[0].Message.Content, nil
}

// --- Ollama ---

type ollamaTextClient struct {
	client  *api.Client
	model   string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func (c *ollamaTextClient) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveServiceCall("text", config.ProviderOllama, started, err) }()

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
	}

	var last api.ChatResponse
	err = c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		last = r
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrServiceFailure, err)
	}
	if last.PromptEvalCount > 0 || last.EvalCount > 0 {
		c.logger.Debug("Ollama usage",
			zap.Int("prompt_tokens", last.PromptEvalCount),
			zap.Int("completion_tokens", last.EvalCount),
		)
	}
	return last.Message.Content, nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
