package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	auditService "github.com/allisson/phiguard/internal/audit/service"
	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoUsecase "github.com/allisson/phiguard/internal/crypto/usecase"
	"github.com/allisson/phiguard/internal/errors"
)

// auditTrail implements AuditTrail on top of the crypto engine and a record store.
type auditTrail struct {
	engine   cryptoUsecase.Engine
	repo     RecordRepository
	signer   auditService.Signer
	deviceID string
	fault    *slog.Logger
	now      func() time.Time
}

// NewAuditTrail creates a new AuditTrail. deviceID is written in the clear on
// every record and must not identify a person.
func NewAuditTrail(
	engine cryptoUsecase.Engine,
	repo RecordRepository,
	signer auditService.Signer,
	deviceID string,
	logger *slog.Logger,
) AuditTrail {
	return &auditTrail{
		engine:   engine,
		repo:     repo,
		signer:   signer,
		deviceID: deviceID,
		fault:    logger.With(slog.String("channel", "fault")),
		now:      time.Now,
	}
}

// Log records an event. Authentication events are attempted twice; a
// validation failure or a cancelled context is never retried.
func (a *auditTrail) Log(
	ctx context.Context,
	eventType auditDomain.EventType,
	subjectID *uuid.UUID,
	details auditDomain.Details,
) error {
	if !eventType.Valid() {
		return fmt.Errorf("%w: %w", auditDomain.ErrLogFailed, auditDomain.ErrInvalidEventType)
	}

	attempts := 1
	if eventType.IsAuthentication() {
		attempts = 2
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = a.append(ctx, eventType, subjectID, details); err == nil {
			return nil
		}

		a.fault.Warn("audit log attempt failed",
			slog.String("event_type", eventType.String()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if errors.Is(err, errors.ErrInvalidInput) || ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("%w: %w", auditDomain.ErrLogFailed, err)
}

// append builds a complete record (Pending), encrypts and signs it (Encrypted)
// and hands it to the store (Persisted).
func (a *auditTrail) append(
	ctx context.Context,
	eventType auditDomain.EventType,
	subjectID *uuid.UUID,
	details auditDomain.Details,
) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "failed to serialize event details")
	}
	defer cryptoDomain.Zero(payload)

	id, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate record id")
	}

	record := &auditDomain.Record{
		ID:        id,
		Timestamp: a.now().UTC().Truncate(time.Millisecond),
		EventType: eventType,
		SubjectID: subjectID,
		DeviceID:  a.deviceID,
	}

	internalCtx := withInternalOperation(ctx)

	envelope, err := a.engine.Encrypt(internalCtx, payload, record.KeySubject())
	if err != nil {
		return errors.Wrap(err, "failed to encrypt event details")
	}
	record.EncryptedDetails = envelope.Marshal()

	if err := a.sign(internalCtx, record); err != nil {
		return err
	}

	if err := a.repo.Append(ctx, record); err != nil {
		return errors.Wrap(err, "failed to append audit record")
	}
	return nil
}

func (a *auditTrail) signingRoot(ctx context.Context) ([]byte, error) {
	rootKey, err := a.engine.DeriveKey(ctx, cryptoDomain.SystemSubject)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive audit signing root")
	}
	return rootKey, nil
}

func (a *auditTrail) sign(ctx context.Context, record *auditDomain.Record) error {
	rootKey, err := a.signingRoot(ctx)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(rootKey)

	signature, err := a.signer.Sign(rootKey, record)
	if err != nil {
		return errors.Wrap(err, "failed to sign audit record")
	}
	record.Signature = signature
	return nil
}

// open verifies and decrypts one record with an already derived signing root.
func (a *auditTrail) open(ctx context.Context, rootKey []byte, record *auditDomain.Record) (*auditDomain.Entry, error) {
	if err := a.signer.Verify(rootKey, record); err != nil {
		return nil, auditDomain.ErrSignatureInvalid
	}

	envelope, err := cryptoDomain.ParseEnvelope(record.EncryptedDetails)
	if err != nil {
		return nil, auditDomain.ErrDecryptionFailed
	}

	payload, err := a.engine.Decrypt(ctx, envelope, record.KeySubject())
	if err != nil {
		return nil, auditDomain.ErrDecryptionFailed
	}
	defer cryptoDomain.Zero(payload)

	var details auditDomain.Details
	if err := json.Unmarshal(payload, &details); err != nil {
		return nil, auditDomain.ErrDecryptionFailed
	}

	return &auditDomain.Entry{
		ID:        record.ID,
		Timestamp: record.Timestamp,
		EventType: record.EventType,
		SubjectID: record.SubjectID,
		DeviceID:  record.DeviceID,
		Details:   details,
	}, nil
}

// Fetch reads, verifies and decrypts the matching records. Failures are reported
// to the fault channel and are never audited.
func (a *auditTrail) Fetch(ctx context.Context, filter *auditDomain.Filter) ([]*auditDomain.Entry, error) {
	if filter == nil {
		filter = &auditDomain.Filter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := a.repo.Query(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query audit records")
	}

	internalCtx := withInternalOperation(ctx)

	rootKey, err := a.signingRoot(internalCtx)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(rootKey)

	entries := make([]*auditDomain.Entry, 0, len(records))
	for _, record := range records {
		entry, err := a.open(internalCtx, rootKey, record)
		if err != nil {
			a.fault.Error("audit record failed verification",
				slog.String("record_id", record.ID.String()),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Count counts the matching records without decrypting them.
func (a *auditTrail) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	if filter == nil {
		filter = &auditDomain.Filter{}
	}
	if err := filter.Validate(); err != nil {
		return 0, err
	}

	count, err := a.repo.Count(ctx, filter)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count audit records")
	}
	return count, nil
}

// VerifyBatch checks every matching record and collects the ids that fail.
func (a *auditTrail) VerifyBatch(
	ctx context.Context,
	filter *auditDomain.Filter,
) (*auditDomain.VerificationReport, error) {
	if filter == nil {
		filter = &auditDomain.Filter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := a.repo.Query(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query audit records")
	}

	internalCtx := withInternalOperation(ctx)

	rootKey, err := a.signingRoot(internalCtx)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(rootKey)

	report := &auditDomain.VerificationReport{
		Total:      len(records),
		InvalidIDs: make([]uuid.UUID, 0),
	}
	for _, record := range records {
		if _, err := a.open(internalCtx, rootKey, record); err != nil {
			a.fault.Error("audit record failed verification",
				slog.String("record_id", record.ID.String()),
				slog.String("error", err.Error()),
			)
			report.Invalid++
			report.InvalidIDs = append(report.InvalidIDs, record.ID)
			continue
		}
		report.Valid++
	}
	return report, nil
}
