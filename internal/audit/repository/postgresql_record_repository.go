package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

const pgUniqueViolation = "23505"

// PostgreSQLRecordRepository implements the audit record store for PostgreSQL.
// Uses native UUID, TIMESTAMPTZ and BYTEA types with transaction support via
// database.GetTx(). The table rejects UPDATE and DELETE with a trigger.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL record repository.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}

// Append inserts a record. A duplicate id fails with ErrConflict.
func (p *PostgreSQLRecordRepository) Append(ctx context.Context, record *auditDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_records (id, occurred_at, event_type, subject_id, device_id, encrypted_details, signature)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	subjectID := uuid.NullUUID{}
	if record.SubjectID != nil {
		subjectID = uuid.NullUUID{UUID: *record.SubjectID, Valid: true}
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.Timestamp.UTC(),
		string(record.EventType),
		subjectID,
		record.DeviceID,
		record.EncryptedDetails,
		record.Signature,
	)
	if err != nil {
		var pqErr *pq.Error
		if apperrors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return apperrors.Wrap(apperrors.ErrConflict, "audit record already exists")
		}
		return apperrors.Wrap(err, "failed to append audit record")
	}

	return nil
}

// Query returns the matching records ordered by occurred_at, then id.
func (p *PostgreSQLRecordRepository) Query(
	ctx context.Context,
	filter *auditDomain.Filter,
) ([]*auditDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query, args, err := postgresDialect.selectQuery(filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build audit query")
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query audit records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*auditDomain.Record, 0)
	for rows.Next() {
		var record auditDomain.Record
		var eventType string
		var subjectID uuid.NullUUID

		err := rows.Scan(
			&record.ID,
			&record.Timestamp,
			&eventType,
			&subjectID,
			&record.DeviceID,
			&record.EncryptedDetails,
			&record.Signature,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit record")
		}

		record.Timestamp = record.Timestamp.UTC()
		record.EventType = auditDomain.EventType(eventType)
		if subjectID.Valid {
			id := subjectID.UUID
			record.SubjectID = &id
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit records")
	}

	return records, nil
}

// Count returns the number of matching records.
func (p *PostgreSQLRecordRepository) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query, args, err := postgresDialect.countQuery(filter)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to build audit count query")
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit records")
	}
	return count, nil
}
