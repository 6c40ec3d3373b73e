package mocks

import (
	"github.com/dorincreciun/go-pizza-api/internal/models"

	"github.com/stretchr/testify/mock"
)

type RefreshTokenStore struct{ mock.Mock }

func (m *RefreshTokenStore) Create(rt *models.RefreshToken) error {
	return m.Called(rt).Error(0)
}

func (m *RefreshTokenStore) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) DeleteByToken(token string) (bool, error) {
	args := m.Called(token)
	return args.Bool(0), args.Error(1)
}

func (m *RefreshTokenStore) DeleteAllForUser(userID string) error {
	return m.Called(userID).Error(0)
}

func (m *RefreshTokenStore) CountForUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}
