// Package sitecontext загружает контекст сайта (шаблон промпта, темы, вариации,
// ключевые слова изображений) из YAML файла.
package sitecontext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"content-generator/internal/model"
)

// DefaultKey - ключ контекста по умолчанию в документе.
const DefaultKey = "default_site_context"

type document map[string]model.SiteContext

// Parse разбирает YAML документ и возвращает контекст с примененными значениями по умолчанию.
// Пустой документ или отсутствие ключа дают контекст по умолчанию.
func Parse(data []byte) (model.SiteContext, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.SiteContext{}, fmt.Errorf("failed to parse site context: %w", err)
	}
	return doc[DefaultKey].WithDefaults(), nil
}

// Load читает контекст из файла. Отсутствующий файл не является ошибкой.
func Load(path string, logger *zap.Logger) (model.SiteContext, error) {
	log := logger.Named("SiteContext").With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Site context file not found, using defaults")
			return model.SiteContext{}.WithDefaults(), nil
		}
		return model.SiteContext{}, fmt.Errorf("failed to read site context %s: %w", path, err)
	}

	ctx, err := Parse(data)
	if err != nil {
		return model.SiteContext{}, err
	}
	log.Info("Site context loaded",
		zap.Int("topics", len(ctx.Topics)),
		zap.Int("variations", len(ctx.Variations)),
		zap.Int("image_keywords", len(ctx.ImageKeywords)),
	)
	return ctx, nil
}
