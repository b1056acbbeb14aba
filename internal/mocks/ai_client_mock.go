package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"content-generator/internal/model"
	"content-generator/internal/service"
)

// MockTextClient is a mock type for the TextClient type
type MockTextClient struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, prompt
func (_m *MockTextClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	ret := _m.Called(ctx, prompt)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, prompt)
	} else {
		r0 = ret.String(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockTextClient creates a new instance of MockTextClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTextClient(t testingT) *MockTextClient {
	m := &MockTextClient{}
	register(&m.Mock, t)
	return m
}

var _ service.TextClient = (*MockTextClient)(nil)

// MockImageClient is a mock type for the ImageClient type
type MockImageClient struct {
	mock.Mock
}

// GenerateImage provides a mock function with given fields: ctx, prompt
func (_m *MockImageClient) GenerateImage(ctx context.Context, prompt string) (*model.ImageResponse, error) {
	ret := _m.Called(ctx, prompt)

	var r0 *model.ImageResponse
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.ImageResponse); ok {
		r0 = rf(ctx, prompt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.ImageResponse)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockImageClient creates a new instance of MockImageClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockImageClient(t testingT) *MockImageClient {
	m := &MockImageClient{}
	register(&m.Mock, t)
	return m
}

var _ service.ImageClient = (*MockImageClient)(nil)
