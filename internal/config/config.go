package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"content-generator/internal/database"
	"content-generator/internal/logger"
)

// Провайдеры Text Service.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Бэкенды хранилища бинарников.
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config - вся конфигурация приложения.
type Config struct {
	AppEnv string `env:"APP_ENV" env-default:"development"`
	Logger logger.Config
	DB     database.Config

	Text    TextServiceConfig
	Image   ImageServiceConfig
	Storage StorageConfig
	Batch   BatchConfig

	SiteContextPath string `env:"SITE_CONTEXT_PATH" env-default:"config/site_context.yaml"`
	RedisAddr       string `env:"REDIS_ADDR" env-default:""`
	RedisPassword   string `env:"REDIS_PASSWORD" env-default:""`
	PushGatewayURL  string `env:"PUSHGATEWAY_URL" env-default:""`
	HTTPPort        string `env:"HTTP_PORT" env-default:"8080"`

	RabbitMQ RabbitMQConfig
}

// TextServiceConfig - настройки генерации текста.
type TextServiceConfig struct {
	Provider string        `env:"TEXT_PROVIDER" env-default:"gemini"`
	APIKey   string        `env:"TEXT_API_KEY" env-default:""`
	Model    string        `env:"TEXT_MODEL" env-default:""`    // пусто = модель провайдера по умолчанию
	BaseURL  string        `env:"TEXT_BASE_URL" env-default:""` // пусто = адрес провайдера по умолчанию
	Timeout  time.Duration `env:"TEXT_TIMEOUT" env-default:"30s"`
}

// ImageServiceConfig - настройки генерации изображений.
type ImageServiceConfig struct {
	APIKey  string        `env:"IMAGE_API_KEY" env-default:""`
	Model   string        `env:"IMAGE_MODEL" env-default:"gemini-2.5-flash-image"`
	BaseURL string        `env:"IMAGE_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `env:"IMAGE_TIMEOUT" env-default:"60s"`
}

// StorageConfig - куда сохранять сгенерированные изображения.
type StorageConfig struct {
	Backend       string `env:"STORAGE_BACKEND" env-default:"local"`
	SavePath      string `env:"IMAGE_SAVE_PATH" env-default:"./data/images"`
	PublicBaseURL string `env:"IMAGE_PUBLIC_BASE_URL" env-default:"/images"`
	GCSBucket     string `env:"GCS_BUCKET" env-default:""`
	GCSPrefix     string `env:"GCS_PREFIX" env-default:"generated"`
}

// BatchConfig - ограничения пакетной генерации.
type BatchConfig struct {
	Workers  int           `env:"BATCH_WORKERS" env-default:"1"`
	Timeout  time.Duration `env:"BATCH_TIMEOUT" env-default:"0s"` // 0 = без ограничения
	MaxCount int           `env:"MAX_BATCH_COUNT" env-default:"10"`
}

// RabbitMQConfig - очередь задач для режима воркера.
type RabbitMQConfig struct {
	URL           string `env:"RABBITMQ_URL" env-default:""`
	ConsumerName  string `env:"RABBITMQ_CONSUMER_NAME" env-default:"content_generator_worker"`
	TaskQueue     string `env:"RABBITMQ_BATCH_TASK_QUEUE" env-default:"content_batch_tasks"`
	ResultQueue   string `env:"RABBITMQ_BATCH_RESULT_QUEUE" env-default:"content_batch_results"`
	PrefetchCount int    `env:"RABBITMQ_PREFETCH_COUNT" env-default:"1"`
}

// Load читает .env (если есть), переменные окружения и Docker secrets.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	cfg.applySecrets(ReadSecret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applySecrets дополняет пустые ключи значениями из секретов.
// GEMINI_API_KEY - общий ключ для текста и изображений.
func (c *Config) applySecrets(read func(name string) (string, error)) {
	shared := lookupEnvOrSecret("GEMINI_API_KEY", "gemini_api_key", read)
	if c.Text.APIKey == "" {
		if v, err := read("text_api_key"); err == nil {
			c.Text.APIKey = v
		} else if c.Text.Provider == ProviderGemini {
			c.Text.APIKey = shared
		}
	}
	if c.Image.APIKey == "" {
		if v, err := read("image_api_key"); err == nil {
			c.Image.APIKey = v
		} else {
			c.Image.APIKey = shared
		}
	}
	if c.DB.Password == "" {
		if v, err := read("db_password"); err == nil {
			c.DB.Password = v
		}
	}
}

// Validate проверяет значения, которые cleanenv проверить не может.
func (c *Config) Validate() error {
	c.Text.Provider = strings.ToLower(strings.TrimSpace(c.Text.Provider))
	switch c.Text.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unsupported TEXT_PROVIDER %q", c.Text.Provider)
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case StorageLocal:
	case StorageGCS:
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for storage backend %q", StorageGCS)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Batch.Workers < 1 {
		c.Batch.Workers = 1
	}
	if c.Batch.Timeout < 0 {
		return fmt.Errorf("BATCH_TIMEOUT must not be negative")
	}
	return nil
}
