package mocks

import (
	"github.com/stretchr/testify/mock"
)

type PasswordHasher struct{ mock.Mock }

func (m *PasswordHasher) Hash(p []byte) ([]byte, error) {
	args := m.Called(p)
	return args.Get(0).([]byte),
		args.Error(1)
}

func (m *PasswordHasher) Compare(stored, supplied []byte) error {
	return m.Called(stored, supplied).Error(0)
}
