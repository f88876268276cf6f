package service

import (
	"context"
	"time"

	credentialDomain "github.com/allisson/phiguard/internal/credential/domain"
	"github.com/allisson/phiguard/internal/metrics"
)

// hasherWithMetrics decorates Hasher with metrics instrumentation.
type hasherWithMetrics struct {
	next    Hasher
	metrics metrics.BusinessMetrics
}

// NewHasherWithMetrics wraps a Hasher with metrics recording.
func NewHasherWithMetrics(next Hasher, m metrics.BusinessMetrics) Hasher {
	return &hasherWithMetrics{
		next:    next,
		metrics: m,
	}
}

func (h *hasherWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	h.metrics.RecordOperation(ctx, "credential", operation, status)
	h.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Hash records metrics for hashing.
func (h *hasherWithMetrics) Hash(password string) (credentialDomain.CredentialHash, error) {
	start := time.Now()
	hash, err := h.next.Hash(password)
	h.record(context.Background(), "hash", start, statusOf(err))
	return hash, err
}

// HashContext records metrics for cancellable hashing.
func (h *hasherWithMetrics) HashContext(
	ctx context.Context,
	password string,
) (credentialDomain.CredentialHash, error) {
	start := time.Now()
	hash, err := h.next.HashContext(ctx, password)
	h.record(ctx, "hash", start, statusOf(err))
	return hash, err
}

// Verify records metrics for verification. A mismatch is reported as "mismatch".
func (h *hasherWithMetrics) Verify(password string, stored credentialDomain.CredentialHash) (bool, error) {
	start := time.Now()
	ok, err := h.next.Verify(password, stored)

	status := statusOf(err)
	if err == nil && !ok {
		status = "mismatch"
	}
	h.record(context.Background(), "verify", start, status)
	return ok, err
}

// NeedsRehash passes through without instrumentation.
func (h *hasherWithMetrics) NeedsRehash(stored credentialDomain.CredentialHash) bool {
	return h.next.NeedsRehash(stored)
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
