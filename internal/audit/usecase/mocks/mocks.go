// Package mocks provides mock implementations of the audit use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
)

// MockRecordRepository is a mock implementation of RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

// Append mocks the Append method of RecordRepository.
func (m *MockRecordRepository) Append(ctx context.Context, record *auditDomain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Query mocks the Query method of RecordRepository.
func (m *MockRecordRepository) Query(
	ctx context.Context,
	filter *auditDomain.Filter,
) ([]*auditDomain.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Record), args.Error(1)
}

// Count mocks the Count method of RecordRepository.
func (m *MockRecordRepository) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditTrail is a mock implementation of AuditTrail.
type MockAuditTrail struct {
	mock.Mock
}

// Log mocks the Log method of AuditTrail.
func (m *MockAuditTrail) Log(
	ctx context.Context,
	eventType auditDomain.EventType,
	subjectID *uuid.UUID,
	details auditDomain.Details,
) error {
	args := m.Called(ctx, eventType, subjectID, details)
	return args.Error(0)
}

// Fetch mocks the Fetch method of AuditTrail.
func (m *MockAuditTrail) Fetch(ctx context.Context, filter *auditDomain.Filter) ([]*auditDomain.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Entry), args.Error(1)
}

// Count mocks the Count method of AuditTrail.
func (m *MockAuditTrail) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// VerifyBatch mocks the VerifyBatch method of AuditTrail.
func (m *MockAuditTrail) VerifyBatch(
	ctx context.Context,
	filter *auditDomain.Filter,
) (*auditDomain.VerificationReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerificationReport), args.Error(1)
}
