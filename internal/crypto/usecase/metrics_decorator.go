package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	"github.com/allisson/phiguard/internal/metrics"
)

// engineWithMetrics decorates Engine with metrics instrumentation.
type engineWithMetrics struct {
	next    Engine
	metrics metrics.BusinessMetrics
}

// NewEngineWithMetrics wraps an Engine with metrics recording.
func NewEngineWithMetrics(next Engine, m metrics.BusinessMetrics) Engine {
	return &engineWithMetrics{
		next:    next,
		metrics: m,
	}
}

func (e *engineWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "crypto", operation, status)
	e.metrics.RecordDuration(ctx, "crypto", operation, time.Since(start), status)
}

// DeriveKey records metrics for key derivation.
func (e *engineWithMetrics) DeriveKey(ctx context.Context, subjectID string) ([]byte, error) {
	start := time.Now()
	key, err := e.next.DeriveKey(ctx, subjectID)
	e.record(ctx, "derive_key", start, err)
	return key, err
}

// Encrypt records metrics for envelope encryption.
func (e *engineWithMetrics) Encrypt(
	ctx context.Context,
	plaintext []byte,
	subjectID string,
) (cryptoDomain.Envelope, error) {
	start := time.Now()
	envelope, err := e.next.Encrypt(ctx, plaintext, subjectID)
	e.record(ctx, "encrypt", start, err)
	return envelope, err
}

// Decrypt records metrics for envelope decryption.
func (e *engineWithMetrics) Decrypt(
	ctx context.Context,
	envelope cryptoDomain.Envelope,
	subjectID string,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.Decrypt(ctx, envelope, subjectID)
	e.record(ctx, "decrypt", start, err)
	return plaintext, err
}

// ClearCache records cache purges.
func (e *engineWithMetrics) ClearCache() {
	e.next.ClearCache()
	e.metrics.RecordOperation(context.Background(), "crypto", "clear_cache", "success")
}

// ClearSubject passes through without instrumentation.
func (e *engineWithMetrics) ClearSubject(subjectID string) {
	e.next.ClearSubject(subjectID)
}
