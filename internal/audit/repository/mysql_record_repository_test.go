package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

func TestMySQLRecordRepository_Append(t *testing.T) {
	subjectID := uuid.New()
	subjectBytes, err := subjectID.MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name      string
		record    *auditDomain.Record
		subject   any
		execErr   error
		expectErr error
	}{
		{
			name:    "subject record",
			record:  newTestRecord(&subjectID, auditDomain.LoginFailed, baseTime),
			subject: subjectBytes,
		},
		{
			name:    "system record stores null subject",
			record:  newTestRecord(nil, auditDomain.TamperingDetected, baseTime),
			subject: []byte(nil),
		},
		{
			name:      "duplicate id maps to conflict",
			record:    newTestRecord(nil, auditDomain.TamperingDetected, baseTime),
			subject:   []byte(nil),
			execErr:   &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			expectErr: apperrors.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			id, err := tt.record.ID.MarshalBinary()
			require.NoError(t, err)

			exec := mock.ExpectExec("INSERT INTO audit_records").
				WithArgs(
					id,
					tt.record.Timestamp,
					string(tt.record.EventType),
					tt.subject,
					tt.record.DeviceID,
					tt.record.EncryptedDetails,
					tt.record.Signature,
				)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err = NewMySQLRecordRepository(db).Append(context.Background(), tt.record)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMySQLRecordRepository_Query(t *testing.T) {
	subjectID := uuid.New()
	subjectBytes, err := subjectID.MarshalBinary()
	require.NoError(t, err)

	first := newTestRecord(&subjectID, auditDomain.LoginSucceeded, baseTime)
	second := newTestRecord(&subjectID, auditDomain.Logout, baseTime.Add(time.Minute))
	firstID, err := first.ID.MarshalBinary()
	require.NoError(t, err)
	secondID, err := second.ID.MarshalBinary()
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(recordColumns).
		AddRow(firstID, first.Timestamp, string(first.EventType), subjectBytes,
			first.DeviceID, first.EncryptedDetails, first.Signature).
		AddRow(secondID, second.Timestamp, string(second.EventType), subjectBytes,
			second.DeviceID, second.EncryptedDetails, second.Signature)

	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_records WHERE subject_id = ? ORDER BY occurred_at ASC, id ASC LIMIT ?")).
		WithArgs(subjectBytes, 2).
		WillReturnRows(rows)

	records, err := NewMySQLRecordRepository(db).Query(context.Background(), &auditDomain.Filter{
		SubjectID: &subjectID,
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	for _, record := range records {
		require.NotNil(t, record.SubjectID)
		assert.Equal(t, subjectID, *record.SubjectID)
	}
	assert.Equal(t, auditDomain.Logout, records[1].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRecordRepository_QueryInvalidID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(recordColumns).
		AddRow([]byte{1, 2, 3}, baseTime, "auth.logout", nil, "device-1", []byte("x"), []byte("y"))
	mock.ExpectQuery("FROM audit_records").WillReturnRows(rows)

	_, err = NewMySQLRecordRepository(db).Query(context.Background(), &auditDomain.Filter{})
	assert.ErrorContains(t, err, "failed to unmarshal audit record id")
}

func TestMySQLRecordRepository_Count(t *testing.T) {
	from := baseTime

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_records WHERE occurred_at >= ?")).
		WithArgs(from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := NewMySQLRecordRepository(db).Count(context.Background(), &auditDomain.Filter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
