package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-generator/internal/mocks"
	"content-generator/internal/model"
	"content-generator/internal/service"
)

func articleSchema() *model.ContentSchema {
	return &model.ContentSchema{
		ID:    "article",
		Label: "Article",
		Fields: []model.FieldSpec{
			{Name: "title", Label: "Title", Kind: model.FieldKindTitle},
			{Name: "body", Label: "Body", Kind: model.FieldKindRichText},
			{Name: "field_image", Label: "Image", Kind: model.FieldKindAssetReference, AssetTargetKind: model.AssetTargetMedia},
			{Name: "field_rating", Label: "Rating", Kind: model.FieldKindOther},
		},
	}
}

func TestFieldPopulator_Populate(t *testing.T) {
	assignment := model.PromptAssignment{Topic: "cats", Variation: "short"}
	params := service.PopulateParams{
		Index:          0,
		Assignment:     assignment,
		ImageKeyword:   "kittens",
		GenerateImages: true,
		Owner:          testOwner,
	}

	t.Run("All supported fields", func(t *testing.T) {
		text := mocks.NewMockTextGenerator(t)
		images := mocks.NewMockImageGenerator(t)
		assetID := uuid.New()

		text.On("Generate", mock.Anything, assignment, "Title").Return(model.TextResult{Title: "Cats", Body: "<p>Cats</p>"}, nil).Once()
		text.On("Generate", mock.Anything, assignment, "Body").Return(model.TextResult{Title: "Intro", Body: "<p>All about cats</p>"}, nil).Once()
		images.On("Generate", mock.Anything, "kittens", testOwner).Return(assetID, nil).Once()
		text.On("Generate", mock.Anything, assignment, service.AltTextLabel).Return(model.TextResult{Title: "A sleeping cat"}, nil).Once()

		draft := model.NewDraftRecord("article", testOwner.ID)
		err := service.NewFieldPopulator(text, images, zap.NewNop()).Populate(context.Background(), draft, articleSchema(), params)
		require.NoError(t, err)

		assert.Equal(t, "Cats", draft.Title)
		assert.Equal(t, model.FieldValue{Value: "<p>All about cats</p>", Format: model.FormatFullHTML}, draft.Fields["body"])
		require.Contains(t, draft.Fields, "field_image")
		assert.Equal(t, assetID, *draft.Fields["field_image"].AssetID)
		assert.Equal(t, "A sleeping cat", draft.Fields["field_image"].Alt)
		assert.NotContains(t, draft.Fields, "field_rating")
	})

	t.Run("Images disabled", func(t *testing.T) {
		text := mocks.NewMockTextGenerator(t)
		images := mocks.NewMockImageGenerator(t)
		text.On("Generate", mock.Anything, assignment, "Title").Return(model.TextResult{Title: "Cats"}, nil).Once()
		text.On("Generate", mock.Anything, assignment, "Body").Return(model.TextResult{Body: "<p>b</p>"}, nil).Once()

		p := params
		p.GenerateImages = false
		draft := model.NewDraftRecord("article", testOwner.ID)
		require.NoError(t, service.NewFieldPopulator(text, images, zap.NewNop()).Populate(context.Background(), draft, articleSchema(), p))

		assert.NotContains(t, draft.Fields, "field_image")
		images.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Non-image asset reference ignored", func(t *testing.T) {
		text := mocks.NewMockTextGenerator(t)
		images := mocks.NewMockImageGenerator(t)
		schema := &model.ContentSchema{ID: "doc", Fields: []model.FieldSpec{
			{Name: "field_file", Label: "File", Kind: model.FieldKindAssetReference, AssetTargetKind: "document"},
		}}

		draft := model.NewDraftRecord("doc", testOwner.ID)
		require.NoError(t, service.NewFieldPopulator(text, images, zap.NewNop()).Populate(context.Background(), draft, schema, params))
		assert.Empty(t, draft.Fields)
		assert.Equal(t, model.DraftTitle, draft.Title)
	})

	t.Run("Alt text failure uses default", func(t *testing.T) {
		text := mocks.NewMockTextGenerator(t)
		images := mocks.NewMockImageGenerator(t)
		assetID := uuid.New()
		schema := &model.ContentSchema{ID: "gallery", Fields: []model.FieldSpec{
			{Name: "field_image", Label: "Image", Kind: model.FieldKindAssetReference},
		}}
		images.On("Generate", mock.Anything, "kittens", testOwner).Return(assetID, nil).Once()
		text.On("Generate", mock.Anything, assignment, service.AltTextLabel).
			Return(model.TextResult{}, fmt.Errorf("%w: timeout", model.ErrServiceFailure)).Once()

		draft := model.NewDraftRecord("gallery", testOwner.ID)
		require.NoError(t, service.NewFieldPopulator(text, images, zap.NewNop()).Populate(context.Background(), draft, schema, params))
		assert.Equal(t, service.DefaultAltText, draft.Fields["field_image"].Alt)
	})

	t.Run("Image without asset fails the record", func(t *testing.T) {
		text := mocks.NewMockTextGenerator(t)
		images := mocks.NewMockImageGenerator(t)
		schema := &model.ContentSchema{ID: "gallery", Fields: []model.FieldSpec{
			{Name: "field_image", Label: "Image", Kind: model.FieldKindAssetReference},
		}}
		images.On("Generate", mock.Anything, "kittens", testOwner).
			Return(uuid.Nil, fmt.Errorf("%w: disk full", model.ErrNoAsset)).Once()

		draft := model.NewDraftRecord("gallery", testOwner.ID)
		err := service.NewFieldPopulator(text, images, zap.NewNop()).Populate(context.Background(), draft, schema, params)
		assert.ErrorIs(t, err, model.ErrNoAsset)
		assert.Contains(t, err.Error(), "field field_image")
	})

	t.Run("Text failure stops population", func(t *testing.T) {
		text := mocks.NewMockTextGenerator(t)
		images := mocks.NewMockImageGenerator(t)
		text.On("Generate", mock.Anything, assignment, "Title").
			Return(model.TextResult{}, fmt.Errorf("%w: no text", model.ErrEmptyGeneration)).Once()

		draft := model.NewDraftRecord("article", testOwner.ID)
		err := service.NewFieldPopulator(text, images, zap.NewNop()).Populate(context.Background(), draft, articleSchema(), params)
		assert.ErrorIs(t, err, model.ErrEmptyGeneration)
		text.AssertNumberOfCalls(t, "Generate", 1)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		text := mocks.NewMockTextGenerator(t)
		images := mocks.NewMockImageGenerator(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		draft := model.NewDraftRecord("article", testOwner.ID)
		err := service.NewFieldPopulator(text, images, zap.NewNop()).Populate(ctx, draft, articleSchema(), params)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
