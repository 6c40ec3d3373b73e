package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ImageStorage struct{ mock.Mock }

func (m *ImageStorage) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *ImageStorage) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}
