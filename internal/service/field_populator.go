package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"content-generator/internal/model"
)

// Подпись поля и значение по умолчанию для alt текста изображения.
const (
	AltTextLabel   = "Image alt text"
	DefaultAltText = "AI generated image"
)

// PopulateParams - данные одного индекса пакета.
type PopulateParams struct {
	Index          int
	Assignment     model.PromptAssignment
	ImageKeyword   string
	GenerateImages bool
	Owner          model.SystemActor
}

// FieldPopulator заполняет поля черновика по типам полей схемы.
type FieldPopulator struct {
	text   TextGenerator
	images ImageGenerator
	logger *zap.Logger
}

func NewFieldPopulator(text TextGenerator, images ImageGenerator, logger *zap.Logger) *FieldPopulator {
	return &FieldPopulator{text: text, images: images, logger: logger.Named("FieldPopulator")}
}

// Populate проходит поля схемы по порядку. Первая ошибка прерывает заполнение записи.
func (p *FieldPopulator) Populate(ctx context.Context, draft *model.DraftRecord, schema *model.ContentSchema, params PopulateParams) error {
	for _, field := range schema.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.populateField(ctx, draft, field, params); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func (p *FieldPopulator) populateField(ctx context.Context, draft *model.DraftRecord, field model.FieldSpec, params PopulateParams) error {
	switch field.Kind {
	case model.FieldKindTitle:
		result, err := p.text.Generate(ctx, params.Assignment, field.Label)
		if err != nil {
			return err
		}
		draft.Title = result.Title
		return nil

	case model.FieldKindPlainText, model.FieldKindRichText:
		result, err := p.text.Generate(ctx, params.Assignment, field.Label)
		if err != nil {
			return err
		}
		draft.SetField(field.Name, model.FieldValue{Value: result.Body, Format: model.FormatFullHTML})
		return nil

	case model.FieldKindAssetReference:
		if !params.GenerateImages || !field.IsImageReference() {
			return nil
		}
		return p.populateImage(ctx, draft, field, params)

	default:
		// FieldKindOther не заполняется.
		return nil
	}
}

func (p *FieldPopulator) populateImage(ctx context.Context, draft *model.DraftRecord, field model.FieldSpec, params PopulateParams) error {
	assetID, err := p.images.Generate(ctx, params.ImageKeyword, params.Owner)
	if err != nil {
		return err
	}

	alt := DefaultAltText
	result, err := p.text.Generate(ctx, params.Assignment, AltTextLabel)
	if err != nil {
		p.logger.Warn("Failed to generate image alt text, using default",
			zap.Int("record_index", params.Index),
			zap.String("field", field.Name),
			zap.Error(err),
		)
	} else if result.Title != "" {
		alt = result.Title
	}

	draft.SetField(field.Name, model.FieldValue{AssetID: &assetID, Alt: alt})
	return nil
}
