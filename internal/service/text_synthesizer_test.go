package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-generator/internal/mocks"
	"content-generator/internal/model"
	"content-generator/internal/service"
)

var testSiteContext = model.SiteContext{
	BasePrompt: "Write a {field_label} about {topic}. {variation}.",
	Topics:     []string{"space travel", "gardening"},
	Variations: []string{"Keep it short", "Use a friendly tone"},
}

func TestTextSynthesizer_Generate(t *testing.T) {
	assignment := model.PromptAssignment{Topic: "gardening", Variation: "Keep it short"}
	expectedPrompt := "Write a Body about gardening. Keep it short."

	tests := []struct {
		name      string
		response  string
		clientErr error
		wantErr   error
		check     func(t *testing.T, got model.TextResult)
	}{
		{
			name:     "Title and body",
			response: "Hello\nWorld body",
			check: func(t *testing.T, got model.TextResult) {
				assert.Equal(t, "Hello", got.Title)
				assert.Equal(t, "<p>World body</p>", got.Body)
			},
		},
		{
			name:     "Single line reused as body",
			response: "OnlyTitle",
			check: func(t *testing.T, got model.TextResult) {
				assert.Equal(t, "OnlyTitle", got.Title)
				assert.Equal(t, "<p>OnlyTitle</p>", got.Body)
			},
		},
		{
			name:     "Line breaks preserved",
			response: "Title\r\nline one\nline two",
			check: func(t *testing.T, got model.TextResult) {
				assert.Equal(t, "Title", got.Title)
				assert.Contains(t, got.Body, "line one<br")
				assert.Contains(t, got.Body, "line two</p>")
			},
		},
		{
			name:     "Scripts stripped",
			response: "Title\n<script>alert(1)</script>Safe text",
			check: func(t *testing.T, got model.TextResult) {
				assert.NotContains(t, got.Body, "<script")
				assert.Contains(t, got.Body, "Safe text")
			},
		},
		{
			name:     "Whitespace only",
			response: "  \n\t ",
			wantErr:  model.ErrEmptyGeneration,
		},
		{
			name:     "Empty",
			response: "",
			wantErr:  model.ErrEmptyGeneration,
		},
		{
			name:      "Service failure",
			clientErr: fmt.Errorf("%w: status 500", model.ErrServiceFailure),
			wantErr:   model.ErrServiceFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockTextClient(t)
			client.On("GenerateText", mock.Anything, expectedPrompt).Return(tt.response, tt.clientErr).Once()

			synth := service.NewTextSynthesizer(client, testSiteContext, fixedRandom{}, time.Second, zap.NewNop())
			got, err := synth.Generate(context.Background(), assignment, "Body")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestTextSynthesizer_MissingCredential(t *testing.T) {
	synth := service.NewTextSynthesizer(nil, testSiteContext, fixedRandom{}, 0, zap.NewNop())

	_, err := synth.Generate(context.Background(), model.PromptAssignment{}, "Title")
	assert.ErrorIs(t, err, model.ErrMissingCredential)
}

func TestTextSynthesizer_AppliesTimeout(t *testing.T) {
	client := mocks.NewMockTextClient(t)
	client.On("GenerateText", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 50*time.Millisecond
	}), mock.Anything).Return("T\nB", nil).Once()

	synth := service.NewTextSynthesizer(client, testSiteContext, fixedRandom{}, 50*time.Millisecond, zap.NewNop())
	_, err := synth.Generate(context.Background(), model.PromptAssignment{Topic: "t", Variation: "v"}, "Title")
	require.NoError(t, err)
}

func TestTextSynthesizer_BuildPrompt(t *testing.T) {
	synth := service.NewTextSynthesizer(nil, testSiteContext, fixedRandom{}, 0, zap.NewNop())

	assert.Equal(t,
		"Write a Title about space travel. Use a friendly tone.",
		synth.BuildPrompt(model.PromptAssignment{Topic: "space travel", Variation: "Use a friendly tone"}, "Title"),
	)
	// Пустое назначение: случайный выбор (fixedRandom берет первый элемент).
	assert.Equal(t,
		"Write a Image alt text about space travel. Keep it short.",
		synth.BuildPrompt(model.PromptAssignment{}, service.AltTextLabel),
	)

	defaults := service.NewTextSynthesizer(nil, model.SiteContext{}, fixedRandom{}, 0, zap.NewNop())
	assert.Equal(t,
		"Write a Body about a general topic. with interesting details.",
		defaults.BuildPrompt(model.PromptAssignment{}, "Body"),
	)
}

func TestParseText(t *testing.T) {
	got := service.ParseText("\nBody only")
	assert.Equal(t, model.DefaultTitle, got.Title)
	assert.Equal(t, "<p>Body only</p>", got.Body)

	got = service.ParseText("  Spaced title  \n\n  text  ")
	assert.Equal(t, "Spaced title", got.Title)
	assert.Equal(t, "<p>text</p>", got.Body)
}
