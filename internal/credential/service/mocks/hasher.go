// Package mocks provides mock implementations of the credential hasher for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/phiguard/internal/credential/domain"
)

// MockHasher is a mock implementation of service.Hasher.
type MockHasher struct {
	mock.Mock
}

// Hash mocks the Hash method of Hasher.
func (m *MockHasher) Hash(password string) (credentialDomain.CredentialHash, error) {
	args := m.Called(password)
	return args.Get(0).(credentialDomain.CredentialHash), args.Error(1)
}

// HashContext mocks the HashContext method of Hasher.
func (m *MockHasher) HashContext(ctx context.Context, password string) (credentialDomain.CredentialHash, error) {
	args := m.Called(ctx, password)
	return args.Get(0).(credentialDomain.CredentialHash), args.Error(1)
}

// Verify mocks the Verify method of Hasher.
func (m *MockHasher) Verify(password string, stored credentialDomain.CredentialHash) (bool, error) {
	args := m.Called(password, stored)
	return args.Bool(0), args.Error(1)
}

// NeedsRehash mocks the NeedsRehash method of Hasher.
func (m *MockHasher) NeedsRehash(stored credentialDomain.CredentialHash) bool {
	args := m.Called(stored)
	return args.Bool(0)
}
