package repository

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

const mysqlDuplicateEntry = 1062

// MySQLRecordRepository implements the audit record store for MySQL.
// Uses BINARY(16) for UUIDs and DATETIME(3) timestamps, with transaction
// support via database.GetTx().
type MySQLRecordRepository struct {
	db *sql.DB
}

// NewMySQLRecordRepository creates a new MySQL record repository.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}

// Append inserts a record. A duplicate id fails with ErrConflict.
func (m *MySQLRecordRepository) Append(ctx context.Context, record *auditDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit record id")
	}

	var subjectID []byte
	if record.SubjectID != nil {
		subjectID, err = record.SubjectID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit record subject_id")
		}
	}

	query := `INSERT INTO audit_records (id, occurred_at, event_type, subject_id, device_id, encrypted_details, signature)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		record.Timestamp.UTC(),
		string(record.EventType),
		subjectID,
		record.DeviceID,
		record.EncryptedDetails,
		record.Signature,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if apperrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return apperrors.Wrap(apperrors.ErrConflict, "audit record already exists")
		}
		return apperrors.Wrap(err, "failed to append audit record")
	}

	return nil
}

// Query returns the matching records ordered by occurred_at, then id.
func (m *MySQLRecordRepository) Query(
	ctx context.Context,
	filter *auditDomain.Filter,
) ([]*auditDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query, args, err := mysqlDialect.selectQuery(filter)
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
		var id, subjectID []byte
		var eventType string

		err := rows.Scan(
			&id,
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

		if err := record.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit record id")
		}
		if subjectID != nil {
			subject, err := uuid.FromBytes(subjectID)
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit record subject_id")
			}
			record.SubjectID = &subject
		}
		record.Timestamp = record.Timestamp.UTC()
		record.EventType = auditDomain.EventType(eventType)

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit records")
	}

	return records, nil
}

// Count returns the number of matching records.
func (m *MySQLRecordRepository) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query, args, err := mysqlDialect.countQuery(filter)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to build audit count query")
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit records")
	}
	return count, nil
}
