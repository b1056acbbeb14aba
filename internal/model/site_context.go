package model

// Значения по умолчанию для контекста сайта.
const (
	DefaultBasePrompt   = "Write a {field_label} about {topic}. {variation}."
	DefaultTopic        = "a general topic"
	DefaultVariation    = "with interesting details"
	DefaultImageKeyword = "abstract image"
)

// SiteContext - неизменяемый набор шаблона промпта и списков тем/вариаций/ключевых слов.
// Загружается один раз на запуск.
type SiteContext struct {
	BasePrompt    string   `yaml:"base_prompt" json:"basePrompt"`
	Topics        []string `yaml:"topics" json:"topics"`
	Variations    []string `yaml:"variations" json:"variations"`
	ImageKeywords []string `yaml:"image_keywords" json:"imageKeywords"`
}

// WithDefaults возвращает копию контекста, в которой пустые поля
// заменены встроенными значениями. Списки после вызова никогда не пусты.
// Элементы непустых списков сохраняются как есть, включая пустые строки:
// от длины списка зависит соответствие индексов.
func (c SiteContext) WithDefaults() SiteContext {
	out := SiteContext{
		BasePrompt:    c.BasePrompt,
		Topics:        orDefault(c.Topics, DefaultTopic),
		Variations:    orDefault(c.Variations, DefaultVariation),
		ImageKeywords: orDefault(c.ImageKeywords, DefaultImageKeyword),
	}
	if out.BasePrompt == "" {
		out.BasePrompt = DefaultBasePrompt
	}
	return out
}

// ImageKeyword возвращает ключевое слово изображения для индекса батча.
// Выбор не зависит от перемешанных PromptAssignment.
func (c SiteContext) ImageKeyword(index int) string {
	keywords := orDefault(c.ImageKeywords, DefaultImageKeyword)
	return keywords[index%len(keywords)]
}

func orDefault(values []string, fallback string) []string {
	if len(values) == 0 {
		return []string{fallback}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// PromptAssignment - пара (тема, вариация), привязанная к индексу батча.
type PromptAssignment struct {
	Topic     string `json:"topic"`
	Variation string `json:"variation"`
}

// DefaultTitle - заголовок, если первая строка ответа пуста.
const DefaultTitle = "AI Generated Title"

// TextResult - разобранный ответ Text Service.
type TextResult struct {
	Title string `json:"title"`
	// Body - HTML: один абзац с сохраненными переносами строк.
	Body string `json:"body"`
}
