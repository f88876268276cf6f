// Package mocks provides mock implementations of the crypto engine for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// MockEngine is a mock implementation of usecase.Engine.
type MockEngine struct {
	mock.Mock
}

// DeriveKey mocks the DeriveKey method of Engine.
func (m *MockEngine) DeriveKey(ctx context.Context, subjectID string) ([]byte, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Encrypt mocks the Encrypt method of Engine.
func (m *MockEngine) Encrypt(
	ctx context.Context,
	plaintext []byte,
	subjectID string,
) (cryptoDomain.Envelope, error) {
	args := m.Called(ctx, plaintext, subjectID)
	return args.Get(0).(cryptoDomain.Envelope), args.Error(1)
}

// Decrypt mocks the Decrypt method of Engine.
func (m *MockEngine) Decrypt(
	ctx context.Context,
	envelope cryptoDomain.Envelope,
	subjectID string,
) ([]byte, error) {
	args := m.Called(ctx, envelope, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// ClearCache mocks the ClearCache method of Engine.
func (m *MockEngine) ClearCache() {
	m.Called()
}

// ClearSubject mocks the ClearSubject method of Engine.
func (m *MockEngine) ClearSubject(subjectID string) {
	m.Called(subjectID)
}
