package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	auditUsecase "github.com/allisson/phiguard/internal/audit/usecase"
	credentialDomain "github.com/allisson/phiguard/internal/credential/domain"
	credentialService "github.com/allisson/phiguard/internal/credential/service"
	cryptoUsecase "github.com/allisson/phiguard/internal/crypto/usecase"
	"github.com/allisson/phiguard/internal/errors"
	"github.com/allisson/phiguard/internal/keystore"
	appValidation "github.com/allisson/phiguard/internal/validation"
)

// CredentialKey returns the secure store key holding the credential of userID.
func CredentialKey(userID uuid.UUID) string {
	return "credential:" + userID.String()
}

// AuthenticatorConfig tunes login throttling.
type AuthenticatorConfig struct {
	RateLimitPerMinute float64
	RateLimitBurst     int
}

type authenticator struct {
	store   keystore.Store
	hasher  credentialService.Hasher
	trail   auditUsecase.AuditTrail
	engine  cryptoUsecase.Engine
	limiter *loginLimiter
	logger  *slog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(
	store keystore.Store,
	hasher credentialService.Hasher,
	trail auditUsecase.AuditTrail,
	engine cryptoUsecase.Engine,
	cfg AuthenticatorConfig,
	logger *slog.Logger,
) Authenticator {
	return &authenticator{
		store:   store,
		hasher:  hasher,
		trail:   trail,
		engine:  engine,
		limiter: newLoginLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		logger:  logger,
	}
}

// Register validates password strength, hashes it and stores the encoded hash.
func (a *authenticator) Register(ctx context.Context, userID uuid.UUID, password string) error {
	if err := validation.Validate(password, appValidation.DefaultPasswordStrength); err != nil {
		return appValidation.WrapValidationError(err)
	}

	_, err := a.store.Retrieve(ctx, CredentialKey(userID))
	if err == nil {
		return credentialDomain.ErrCredentialExists
	}
	if !errors.Is(err, keystore.ErrKeyNotFound) {
		return errors.Wrap(err, "failed to read credential")
	}

	if err := a.storeCredential(ctx, userID, password); err != nil {
		return err
	}

	a.audit(ctx, auditDomain.AccountCreated, userID, auditDomain.Details{"method": "password"})
	return nil
}

// Authenticate verifies password. Successful logins transparently upgrade a
// hash whose iteration count is below the configured one.
func (a *authenticator) Authenticate(ctx context.Context, userID uuid.UUID, password string) error {
	if !a.limiter.allow(userID) {
		a.audit(ctx, auditDomain.LoginFailed, userID, auditDomain.Details{"reason": "rate_limited"})
		return credentialDomain.ErrTooManyAttempts
	}

	stored, err := a.verify(ctx, userID, password)
	if err != nil {
		return err
	}
	a.limiter.reset(userID)

	if a.hasher.NeedsRehash(stored) {
		if err := a.storeCredential(ctx, userID, password); err != nil {
			a.logger.Warn("failed to upgrade credential hash", slog.Any("error", err))
		}
	}

	a.audit(ctx, auditDomain.LoginSucceeded, userID, auditDomain.Details{"method": "password"})
	return nil
}

// ChangePassword verifies current and replaces it with next.
func (a *authenticator) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if !a.limiter.allow(userID) {
		a.audit(ctx, auditDomain.LoginFailed, userID, auditDomain.Details{"reason": "rate_limited"})
		return credentialDomain.ErrTooManyAttempts
	}

	if err := validation.Validate(next, appValidation.DefaultPasswordStrength); err != nil {
		return appValidation.WrapValidationError(err)
	}

	if _, err := a.verify(ctx, userID, current); err != nil {
		return err
	}
	a.limiter.reset(userID)

	if err := a.storeCredential(ctx, userID, next); err != nil {
		return err
	}

	a.audit(ctx, auditDomain.CredentialChanged, userID, auditDomain.Details{"method": "password"})
	return nil
}

// Logout records the logout and clears the engine's key cache.
func (a *authenticator) Logout(ctx context.Context, userID uuid.UUID) error {
	a.audit(ctx, auditDomain.Logout, userID, nil)
	a.engine.ClearCache()
	return nil
}

// verify loads and checks the stored credential. Every failure is audited and
// collapsed into ErrVerificationFailed.
func (a *authenticator) verify(
	ctx context.Context,
	userID uuid.UUID,
	password string,
) (credentialDomain.CredentialHash, error) {
	fail := func(reason string) (credentialDomain.CredentialHash, error) {
		a.audit(ctx, auditDomain.LoginFailed, userID, auditDomain.Details{"reason": reason})
		return credentialDomain.CredentialHash{}, credentialDomain.ErrVerificationFailed
	}

	blob, err := a.store.Retrieve(ctx, CredentialKey(userID))
	if err != nil {
		if errors.Is(err, keystore.ErrKeyNotFound) {
			return fail("unknown_user")
		}
		return credentialDomain.CredentialHash{}, errors.Wrap(err, "failed to read credential")
	}

	stored, err := credentialDomain.DecodeCredentialHash(blob)
	if err != nil {
		a.logger.Error("stored credential is corrupt", slog.Any("error", err))
		return fail("invalid_credential_record")
	}

	ok, err := a.hasher.Verify(password, stored)
	if err != nil {
		a.logger.Error("stored credential is corrupt", slog.Any("error", err))
		return fail("invalid_credential_record")
	}
	if !ok {
		return fail("mismatch")
	}
	return stored, nil
}

func (a *authenticator) storeCredential(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := a.hasher.HashContext(ctx, password)
	if err != nil {
		return errors.Wrap(err, "failed to hash credential")
	}

	blob, err := hash.Encode()
	if err != nil {
		return errors.Wrap(err, "failed to encode credential")
	}

	if err := a.store.Save(ctx, CredentialKey(userID), blob); err != nil {
		return errors.Wrap(err, "failed to save credential")
	}
	return nil
}

// audit records an event. The login outcome stands even when the audit trail
// is unavailable; the failure goes to the application log.
func (a *authenticator) audit(
	ctx context.Context,
	eventType auditDomain.EventType,
	userID uuid.UUID,
	details auditDomain.Details,
) {
	if err := a.trail.Log(ctx, eventType, &userID, details); err != nil {
		a.logger.Error("failed to audit credential event",
			slog.String("event_type", eventType.String()),
			slog.Any("error", err),
		)
	}
}
