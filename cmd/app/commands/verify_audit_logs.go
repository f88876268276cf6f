package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	auditUsecase "github.com/allisson/phiguard/internal/audit/usecase"
)

// RunVerifyAuditLogs checks the signature and envelope of every audit record in
// the filtered range. It returns an error when any record fails, so the exit
// status reflects the integrity of the trail.
func RunVerifyAuditLogs(
	ctx context.Context,
	trail auditUsecase.AuditTrail,
	logger *slog.Logger,
	writer io.Writer,
	opts FilterOptions,
	format string,
) error {
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	logger.Info("verifying audit logs",
		slog.String("from", opts.From),
		slog.String("to", opts.To),
	)

	report, err := trail.VerifyBatch(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to verify audit logs: %w", err)
	}

	if format == "json" {
		if err := outputVerifyJSON(writer, report); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputVerifyText(writer, report, opts)
	}

	logger.Info("verification completed",
		slog.Int("total_checked", report.Total),
		slog.Int("valid", report.Valid),
		slog.Int("invalid", report.Invalid),
	)

	if !report.Passed() {
		return fmt.Errorf("integrity check failed: %d invalid record(s)", report.Invalid)
	}

	return nil
}

func outputVerifyText(writer io.Writer, report *auditDomain.VerificationReport, opts FilterOptions) {
	_, _ = fmt.Fprintf(writer, "Audit Trail Integrity Verification\n")
	_, _ = fmt.Fprintf(writer, "==================================\n\n")
	if opts.From != "" || opts.To != "" {
		_, _ = fmt.Fprintf(writer, "Time Range: %s to %s\n\n", rangeBound(opts.From), rangeBound(opts.To))
	}

	_, _ = fmt.Fprintf(writer, "Total Checked:  %d\n", report.Total)
	_, _ = fmt.Fprintf(writer, "Valid:          %d\n", report.Valid)
	_, _ = fmt.Fprintf(writer, "Invalid:        %d\n\n", report.Invalid)

	switch {
	case report.Invalid > 0:
		_, _ = fmt.Fprintf(writer, "WARNING: %d record(s) failed integrity check!\n\n", report.Invalid)
		_, _ = fmt.Fprintf(writer, "Invalid Record IDs:\n")
		for _, id := range report.InvalidIDs {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
		_, _ = fmt.Fprintf(writer, "\nStatus: FAILED\n")
	case report.Total == 0:
		_, _ = fmt.Fprintf(writer, "Status: No records found in specified range\n")
	default:
		_, _ = fmt.Fprintf(writer, "Status: PASSED\n")
	}
}

func outputVerifyJSON(writer io.Writer, report *auditDomain.VerificationReport) error {
	return writeJSON(writer, map[string]any{
		"total_checked":   report.Total,
		"valid_count":     report.Valid,
		"invalid_count":   report.Invalid,
		"invalid_records": report.InvalidIDs,
		"passed":          report.Passed(),
	})
}

func rangeBound(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
