package commands

import (
	"context"
	"fmt"
	"io"

	auditUsecase "github.com/allisson/phiguard/internal/audit/usecase"
)

// RunCountAuditLogs prints the number of audit records matching opts without
// decrypting them. The limit flag is ignored.
func RunCountAuditLogs(
	ctx context.Context,
	trail auditUsecase.AuditTrail,
	writer io.Writer,
	opts FilterOptions,
	format string,
) error {
	opts.Limit = 0
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	count, err := trail.Count(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to count audit logs: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{"count": count})
	}
	_, _ = fmt.Fprintf(writer, "%d\n", count)
	return nil
}
