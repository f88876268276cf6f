// Package commands contains CLI command implementations for the application.
package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// FilterOptions are the raw audit filter flags shared by the audit commands.
type FilterOptions struct {
	SubjectID string
	EventType string
	From      string
	To        string
	Limit     int
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseDate parses a date string in format "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS" as UTC.
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", dateStr)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"invalid date format (expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS): %s",
			dateStr,
		)
	}

	return t, nil
}

// buildFilter turns command flags into an audit filter. Empty flags leave the
// corresponding predicate unset.
func buildFilter(opts FilterOptions) (*auditDomain.Filter, error) {
	filter := &auditDomain.Filter{Limit: opts.Limit}

	if opts.SubjectID != "" {
		subjectID, err := uuid.Parse(opts.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid subject id: %w", err)
		}
		filter.SubjectID = &subjectID
	}

	if opts.EventType != "" {
		eventType, err := auditDomain.ParseEventType(opts.EventType)
		if err != nil {
			return nil, fmt.Errorf("invalid event type: %w", err)
		}
		filter.EventType = eventType
	}

	if opts.From != "" {
		from, err := parseDate(opts.From)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		filter.From = &from
	}

	if opts.To != "" {
		to, err := parseDate(opts.To)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		filter.To = &to
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return filter, nil
}

// readLine reads a single line from reader without the trailing newline.
func readLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(writer io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
