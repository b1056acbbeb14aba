package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"content-generator/internal/model"
	"content-generator/internal/repository"
	"content-generator/internal/storage"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockSchemaRepository is a mock type for the SchemaRepository type
type MockSchemaRepository struct {
	mock.Mock
}

func NewMockSchemaRepository(t testingT) *MockSchemaRepository {
	m := &MockSchemaRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *MockSchemaRepository) GetSchema(ctx context.Context, id string) (*model.ContentSchema, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*model.ContentSchema)
	return r0, ret.Error(1)
}

func (_m *MockSchemaRepository) ListSchemas(ctx context.Context) ([]model.ContentSchema, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]model.ContentSchema)
	return r0, ret.Error(1)
}

// MockRecordRepository is a mock type for the RecordRepository type
type MockRecordRepository struct {
	mock.Mock
}

func NewMockRecordRepository(t testingT) *MockRecordRepository {
	m := &MockRecordRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *MockRecordRepository) Save(ctx context.Context, draft *model.DraftRecord) error {
	ret := _m.Called(ctx, draft)
	if rf, ok := ret.Get(0).(func(context.Context, *model.DraftRecord) error); ok {
		return rf(ctx, draft)
	}
	return ret.Error(0)
}

func (_m *MockRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *MockRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContentRecord, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*model.ContentRecord)
	return r0, ret.Error(1)
}

func (_m *MockRecordRepository) ListBySchema(ctx context.Context, schemaID string, limit int) ([]model.ContentRecord, error) {
	ret := _m.Called(ctx, schemaID, limit)
	r0, _ := ret.Get(0).([]model.ContentRecord)
	return r0, ret.Error(1)
}

// MockAssetRepository is a mock type for the AssetRepository type
type MockAssetRepository struct {
	mock.Mock
}

func NewMockAssetRepository(t testingT) *MockAssetRepository {
	m := &MockAssetRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *MockAssetRepository) Create(ctx context.Context, asset *model.GeneratedAsset) (uuid.UUID, error) {
	ret := _m.Called(ctx, asset)
	r0, _ := ret.Get(0).(uuid.UUID)
	return r0, ret.Error(1)
}

func (_m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*model.GeneratedAsset)
	return r0, ret.Error(1)
}

// MockActorRepository is a mock type for the ActorRepository type
type MockActorRepository struct {
	mock.Mock
}

func NewMockActorRepository(t testingT) *MockActorRepository {
	m := &MockActorRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *MockActorRepository) GetByName(ctx context.Context, name string) (*model.SystemActor, error) {
	ret := _m.Called(ctx, name)
	r0, _ := ret.Get(0).(*model.SystemActor)
	return r0, ret.Error(1)
}

func (_m *MockActorRepository) Create(ctx context.Context, actor *model.SystemActor) error {
	ret := _m.Called(ctx, actor)
	if rf, ok := ret.Get(0).(func(context.Context, *model.SystemActor) error); ok {
		return rf(ctx, actor)
	}
	return ret.Error(0)
}

// MockBinaryStore is a mock type for the BinaryStore type
type MockBinaryStore struct {
	mock.Mock
}

func NewMockBinaryStore(t testingT) *MockBinaryStore {
	m := &MockBinaryStore{}
	register(&m.Mock, t)
	return m
}

func (_m *MockBinaryStore) SaveBinary(ctx context.Context, name string, data []byte, mimeType string) (string, error) {
	ret := _m.Called(ctx, name, data, mimeType)
	return ret.String(0), ret.Error(1)
}

var (
	_ repository.SchemaRepository = (*MockSchemaRepository)(nil)
	_ repository.RecordRepository = (*MockRecordRepository)(nil)
	_ repository.AssetRepository  = (*MockAssetRepository)(nil)
	_ repository.ActorRepository  = (*MockActorRepository)(nil)
	_ storage.BinaryStore         = (*MockBinaryStore)(nil)
)
