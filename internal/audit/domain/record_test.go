package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

func TestRecord_KeySubject(t *testing.T) {
	record := &Record{}
	assert.Equal(t, cryptoDomain.SystemSubject, record.KeySubject())

	subject := uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-3f1d2c4b5a69")
	record.SubjectID = &subject
	assert.Equal(t, subject.String(), record.KeySubject())
}

func TestFilter_Validate(t *testing.T) {
	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)

	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{name: "empty", filter: Filter{}},
		{name: "registered event type", filter: Filter{EventType: LoginFailed}},
		{name: "unknown event type", filter: Filter{EventType: "auth.nope"}, wantErr: true},
		{name: "ordered range", filter: Filter{From: &earlier, To: &now}},
		{name: "single instant", filter: Filter{From: &now, To: &now}},
		{name: "inverted range", filter: Filter{From: &now, To: &earlier}, wantErr: true},
		{name: "negative limit", filter: Filter{Limit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	subject := uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-3f1d2c4b5a69")
	other := uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-3f1d2c4b5a70")
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := ts.Add(-time.Minute)
	after := ts.Add(time.Minute)

	record := &Record{Timestamp: ts, EventType: LoginFailed, SubjectID: &subject}
	systemRecord := &Record{Timestamp: ts, EventType: TamperingDetected}

	tests := []struct {
		name   string
		filter Filter
		record *Record
		want   bool
	}{
		{name: "empty filter", filter: Filter{}, record: record, want: true},
		{name: "subject match", filter: Filter{SubjectID: &subject}, record: record, want: true},
		{name: "subject mismatch", filter: Filter{SubjectID: &other}, record: record},
		{name: "subject filter excludes system", filter: Filter{SubjectID: &subject}, record: systemRecord},
		{name: "event type mismatch", filter: Filter{EventType: LoginSucceeded}, record: record},
		{name: "inclusive bounds", filter: Filter{From: &ts, To: &ts}, record: record, want: true},
		{name: "before range", filter: Filter{From: &after}, record: record},
		{name: "after range", filter: Filter{To: &before}, record: record},
		{
			name:   "conjunction",
			filter: Filter{SubjectID: &subject, EventType: LoginFailed, From: &before, To: &after},
			record: record,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.record))
		})
	}
}

func TestVerificationReport_Passed(t *testing.T) {
	assert.True(t, (&VerificationReport{Total: 3, Valid: 3}).Passed())
	assert.False(t, (&VerificationReport{Total: 3, Valid: 2, Invalid: 1}).Passed())
}
