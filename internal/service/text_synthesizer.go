package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"content-generator/internal/model"
)

// TextGenerator - генерация заголовка и тела для поля записи.
type TextGenerator interface {
	Generate(ctx context.Context, assignment model.PromptAssignment, fieldLabel string) (model.TextResult, error)
}

var _ TextGenerator = (*TextSynthesizer)(nil)

const defaultTextTimeout = 30 * time.Second

var lineBreak = regexp.MustCompile(`\r?\n`)

// TextSynthesizer строит промпт из шаблона контекста сайта, вызывает Text Service
// и разбирает ответ на заголовок и тело.
type TextSynthesizer struct {
	client      TextClient
	siteContext model.SiteContext
	random      RandomSource
	timeout     time.Duration
	policy      *bluemonday.Policy
	logger      *zap.Logger
}

// NewTextSynthesizer. client может быть nil (ключ не настроен).
func NewTextSynthesizer(client TextClient, siteContext model.SiteContext, random RandomSource, timeout time.Duration, logger *zap.Logger) *TextSynthesizer {
	if timeout <= 0 {
		timeout = defaultTextTimeout
	}
	return &TextSynthesizer{
		client:      client,
		siteContext: siteContext.WithDefaults(),
		random:      random,
		timeout:     timeout,
		policy:      bluemonday.UGCPolicy(),
		logger:      logger.Named("TextSynthesizer"),
	}
}

// Generate возвращает:
//   - model.ErrMissingCredential, если клиент не настроен;
//   - model.ErrServiceFailure при ошибке транспорта или статуса;
//   - model.ErrEmptyGeneration, если в ответе нет текста.
func (s *TextSynthesizer) Generate(ctx context.Context, assignment model.PromptAssignment, fieldLabel string) (model.TextResult, error) {
	if s.client == nil {
		return model.TextResult{}, fmt.Errorf("%w: text service", model.ErrMissingCredential)
	}

	prompt := s.BuildPrompt(assignment, fieldLabel)
	s.logger.Debug("Requesting text", zap.String("field_label", fieldLabel), zap.Int("prompt_len", len(prompt)))

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.GenerateText(callCtx, prompt)
	if err != nil {
		return model.TextResult{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return model.TextResult{}, fmt.Errorf("%w: no text returned for %q", model.ErrEmptyGeneration, fieldLabel)
	}

	result := ParseText(raw)
	result.Body = s.policy.Sanitize(result.Body)
	return result, nil
}

// BuildPrompt подставляет {field_label}, {topic} и {variation} в шаблон.
// Отсутствующие тема или вариация выбираются случайно из контекста.
func (s *TextSynthesizer) BuildPrompt(assignment model.PromptAssignment, fieldLabel string) string {
	topic := assignment.Topic
	if topic == "" {
		topic = s.siteContext.Topics[s.random.Intn(len(s.siteContext.Topics))]
	}
	variation := assignment.Variation
	if variation == "" {
		variation = s.siteContext.Variations[s.random.Intn(len(s.siteContext.Variations))]
	}
	return strings.NewReplacer(
		"{field_label}", fieldLabel,
		"{topic}", topic,
		"{variation}", variation,
	).Replace(s.siteContext.BasePrompt)
}

// ParseText делит ответ по первому переносу строки: первая строка - заголовок,
// остаток - тело. Без остатка первая строка используется и как тело.
func ParseText(raw string) model.TextResult {
	lines := lineBreak.Split(raw, 2)

	title := strings.TrimSpace(lines[0])
	body := title
	if len(lines) == 2 {
		if rest := strings.TrimSpace(lines[1]); rest != "" {
			body = rest
		}
	}
	if title == "" {
		title = model.DefaultTitle
	}
	return model.TextResult{Title: title, Body: "<p>" + nl2br(body) + "</p>"}
}

func nl2br(s string) string {
	return lineBreak.ReplaceAllStringFunc(s, func(br string) string {
		return "<br />" + br
	})
}
