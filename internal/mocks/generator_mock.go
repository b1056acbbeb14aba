package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"content-generator/internal/handler"
	"content-generator/internal/model"
	"content-generator/internal/service"
	"content-generator/internal/worker"
)

// MockTextGenerator is a mock type for the TextGenerator type
type MockTextGenerator struct {
	mock.Mock
}

func (_m *MockTextGenerator) Generate(ctx context.Context, assignment model.PromptAssignment, fieldLabel string) (model.TextResult, error) {
	ret := _m.Called(ctx, assignment, fieldLabel)
	r0, _ := ret.Get(0).(model.TextResult)
	return r0, ret.Error(1)
}

func NewMockTextGenerator(t testingT) *MockTextGenerator {
	m := &MockTextGenerator{}
	register(&m.Mock, t)
	return m
}

// MockImageGenerator is a mock type for the ImageGenerator type
type MockImageGenerator struct {
	mock.Mock
}

func (_m *MockImageGenerator) Generate(ctx context.Context, keyword string, owner model.SystemActor) (uuid.UUID, error) {
	ret := _m.Called(ctx, keyword, owner)
	r0, _ := ret.Get(0).(uuid.UUID)
	return r0, ret.Error(1)
}

func NewMockImageGenerator(t testingT) *MockImageGenerator {
	m := &MockImageGenerator{}
	register(&m.Mock, t)
	return m
}

// MockBatchGenerator is a mock type for the BatchGenerator type
type MockBatchGenerator struct {
	mock.Mock
}

func (_m *MockBatchGenerator) GenerateBatch(ctx context.Context, req model.BatchRequest) (model.BatchResult, error) {
	ret := _m.Called(ctx, req)
	r0, _ := ret.Get(0).(model.BatchResult)
	return r0, ret.Error(1)
}

func NewMockBatchGenerator(t testingT) *MockBatchGenerator {
	m := &MockBatchGenerator{}
	register(&m.Mock, t)
	return m
}

// MockPublisher is a mock type for the Publisher type
type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) Publish(ctx context.Context, payload any, correlationID string) error {
	return _m.Called(ctx, payload, correlationID).Error(0)
}

func NewMockPublisher(t testingT) *MockPublisher {
	m := &MockPublisher{}
	register(&m.Mock, t)
	return m
}

var (
	_ service.TextGenerator  = (*MockTextGenerator)(nil)
	_ service.ImageGenerator = (*MockImageGenerator)(nil)
	_ handler.BatchGenerator = (*MockBatchGenerator)(nil)
	_ worker.BatchGenerator  = (*MockBatchGenerator)(nil)
	_ worker.Publisher       = (*MockPublisher)(nil)
	_ worker.SchemaLookup    = (*MockSchemaRepository)(nil)
)
