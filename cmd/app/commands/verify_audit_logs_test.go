package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	auditMocks "github.com/allisson/phiguard/internal/audit/usecase/mocks"
)

func TestRunVerifyAuditLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	opts := FilterOptions{From: "2025-01-01", To: "2025-01-02"}

	report := &auditDomain.VerificationReport{
		Total: 10,
		Valid: 10,
	}

	t.Run("success-text", func(t *testing.T) {
		mockTrail := &auditMocks.MockAuditTrail{}
		mockTrail.On("VerifyBatch", ctx, mock.MatchedBy(func(f *auditDomain.Filter) bool {
			return f.From != nil && f.To != nil && f.To.After(*f.From)
		})).Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockTrail, logger, &out, opts, "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Audit Trail Integrity Verification")
		require.Contains(t, out.String(), "Status: PASSED")
		mockTrail.AssertExpectations(t)
	})

	t.Run("success-json", func(t *testing.T) {
		mockTrail := &auditMocks.MockAuditTrail{}
		mockTrail.On("VerifyBatch", ctx, mock.AnythingOfType("*domain.Filter")).Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockTrail, logger, &out, opts, "json")
		require.NoError(t, err)

		var result map[string]any
		err = json.Unmarshal(out.Bytes(), &result)
		require.NoError(t, err)
		require.Equal(t, float64(10), result["total_checked"])
		require.Equal(t, true, result["passed"])
		mockTrail.AssertExpectations(t)
	})

	t.Run("invalid-dates", func(t *testing.T) {
		err := RunVerifyAuditLogs(ctx, nil, logger, nil, FilterOptions{From: "invalid"}, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid start date")
	})

	t.Run("reversed-range", func(t *testing.T) {
		err := RunVerifyAuditLogs(ctx, nil, logger, nil, FilterOptions{From: "2025-02-01", To: "2025-01-01"}, "text")
		require.ErrorIs(t, err, auditDomain.ErrInvalidFilter)
	})

	t.Run("integrity-failure", func(t *testing.T) {
		mockTrail := &auditMocks.MockAuditTrail{}
		failureReport := &auditDomain.VerificationReport{
			Total:      10,
			Valid:      8,
			Invalid:    2,
			InvalidIDs: []uuid.UUID{uuid.New(), uuid.New()},
		}
		mockTrail.On("VerifyBatch", ctx, mock.AnythingOfType("*domain.Filter")).Return(failureReport, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockTrail, logger, &out, opts, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "integrity check failed")
		require.Contains(t, out.String(), "WARNING: 2 record(s) failed integrity check!")
		require.Contains(t, out.String(), failureReport.InvalidIDs[0].String())
	})
}
