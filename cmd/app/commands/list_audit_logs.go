package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	auditUsecase "github.com/allisson/phiguard/internal/audit/usecase"
	"github.com/allisson/phiguard/internal/database"
)

type entryOutput struct {
	ID        string              `json:"id"`
	Timestamp string              `json:"timestamp"`
	EventType string              `json:"event_type"`
	SubjectID string              `json:"subject_id,omitempty"`
	DeviceID  string              `json:"device_id"`
	Details   auditDomain.Details `json:"details,omitempty"`
}

// RunListAuditLogs decrypts and prints the audit entries matching opts. When
// txManager is not nil the page and the total are read in one transaction so
// they describe the same snapshot.
func RunListAuditLogs(
	ctx context.Context,
	trail auditUsecase.AuditTrail,
	txManager database.TxManager,
	logger *slog.Logger,
	writer io.Writer,
	opts FilterOptions,
	format string,
) error {
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	var (
		entries []*auditDomain.Entry
		total   int64
	)
	read := func(ctx context.Context) error {
		var err error
		entries, err = trail.Fetch(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to fetch audit logs: %w", err)
		}
		total, err = trail.Count(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count audit logs: %w", err)
		}
		return nil
	}

	if txManager != nil {
		err = txManager.WithTx(ctx, read)
	} else {
		err = read(ctx)
	}
	if err != nil {
		return err
	}

	logger.Info("audit logs listed",
		slog.Int("returned", len(entries)),
		slog.Int64("total", total),
	)

	if format == "json" {
		output := make([]entryOutput, 0, len(entries))
		for _, entry := range entries {
			output = append(output, toEntryOutput(entry))
		}
		return writeJSON(writer, map[string]any{
			"entries": output,
			"total":   total,
		})
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(writer, "No audit records found")
		return nil
	}
	for _, entry := range entries {
		out := toEntryOutput(entry)
		subject := out.SubjectID
		if subject == "" {
			subject = "-"
		}
		_, _ = fmt.Fprintf(writer, "%s  %-28s  %-36s  %s  %s\n",
			out.Timestamp, out.EventType, subject, out.DeviceID, out.ID)
	}
	_, _ = fmt.Fprintf(writer, "\nShowing %d of %d record(s)\n", len(entries), total)
	return nil
}

func toEntryOutput(entry *auditDomain.Entry) entryOutput {
	out := entryOutput{
		ID:        entry.ID.String(),
		Timestamp: entry.Timestamp.UTC().Format(time.RFC3339Nano),
		EventType: entry.EventType.String(),
		DeviceID:  entry.DeviceID,
		Details:   entry.Details,
	}
	if entry.SubjectID != nil {
		out.SubjectID = entry.SubjectID.String()
	}
	return out
}
